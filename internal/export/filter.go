package export

import (
	"fmt"

	"github.com/Knetic/govaluate"

	"flatfile-parser/internal/validator"
)

// Filter wraps a compiled govaluate expression evaluated against a
// validated record's cell values plus its linetype, grounded on the
// teacher's config.Filter / app.go expression-evaluator wiring (there
// applied to a whole record map; here to an ordered cell-values map).
type Filter struct {
	expr *govaluate.EvaluableExpression
}

// NewFilter compiles expr. An empty expr is rejected; callers should treat
// "no filter configured" as "don't construct a Filter at all".
func NewFilter(expr string) (*Filter, error) {
	if expr == "" {
		return nil, fmt.Errorf("export: filter expression is empty")
	}
	e, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return nil, fmt.Errorf("export: invalid filter expression: %w", err)
	}
	return &Filter{expr: e}, nil
}

// Match evaluates the filter against res, returning true when the record
// should be kept. A non-boolean expression result or an evaluation error
// is treated as "exclude" and returned as an error for the caller to log.
func (f *Filter) Match(res *validator.Result) (bool, error) {
	params := make(map[string]interface{}, res.CellValues.Len()+1)
	res.CellValues.Each(func(key, value string) {
		params[key] = value
	})
	params["linetype"] = res.LineType

	result, err := f.expr.Evaluate(params)
	if err != nil {
		return false, fmt.Errorf("export: filter evaluation failed: %w", err)
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("export: filter expression did not evaluate to a boolean (got %T)", result)
	}
	return b, nil
}
