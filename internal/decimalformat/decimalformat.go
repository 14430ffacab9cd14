// Package decimalformat compiles a subset of Java's DecimalFormat pattern
// syntax into validating regular expressions.
//
// Grounded on _examples/original_source/src/decimal_format.rs: the
// translation table, the quoting rules, and the positive/negative split are
// ported line-for-line, including its specified quirks (see the doc comment
// on patternToRegex).
package decimalformat

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// DecimalFormat validates strings against a compiled DecimalFormat pattern.
// All of its fields are immutable after compilation, so a DecimalFormat
// is safe to share by value across goroutines.
type DecimalFormat struct {
	Pattern       string
	positiveRegex *regexp.Regexp
	negativeRegex *regexp.Regexp
}

var (
	cacheMu sync.Mutex
	cache   = make(map[string]*DecimalFormat)
)

// specialChars are the DecimalFormat characters recognized outside quotes.
const specialChars = "'()0.,#;¤%"

// Compile translates pattern into a DecimalFormat, consulting the process
// -wide cache first. The cache never evicts entries: schema patterns are
// bounded in number, and compilation is one-time per distinct pattern.
func Compile(pattern string) (*DecimalFormat, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if df, ok := cache[pattern]; ok {
		return df, nil
	}

	df, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	cache[pattern] = df
	return df, nil
}

func compile(pattern string) (*DecimalFormat, error) {
	subPatterns := []string{""}
	inQuotes := false

	for _, c := range pattern {
		if !inQuotes && c == '\'' {
			inQuotes = true
			subPatterns[len(subPatterns)-1] += string(c)
			continue
		}
		if inQuotes && c == '\'' {
			inQuotes = false
			subPatterns[len(subPatterns)-1] += string(c)
			continue
		}
		if !inQuotes && !strings.ContainsRune(specialChars, c) {
			return nil, fmt.Errorf("decimalformat: invalid character: %c", c)
		}

		if c == ';' && !inQuotes {
			subPatterns = append(subPatterns, "")
		} else {
			subPatterns[len(subPatterns)-1] += string(c)
		}
	}

	if len(subPatterns) > 2 {
		return nil, fmt.Errorf("decimalformat: invalid pattern: %s", pattern)
	}

	positivePattern := subPatterns[0]
	var negativePattern string
	if len(subPatterns) > 1 {
		negativePattern = "-" + subPatterns[1]
	} else {
		negativePattern = "-" + positivePattern
	}

	positiveRegex, err := regexp.Compile(patternToRegex(positivePattern))
	if err != nil {
		return nil, fmt.Errorf("decimalformat: invalid regex pattern: %w", err)
	}
	negativeRegex, err := regexp.Compile(patternToRegex(negativePattern))
	if err != nil {
		return nil, fmt.Errorf("decimalformat: invalid regex pattern: %w", err)
	}

	return &DecimalFormat{
		Pattern:       pattern,
		positiveRegex: positiveRegex,
		negativeRegex: negativeRegex,
	}, nil
}

// patternToRegex converts one DecimalFormat sub-pattern into an anchored
// regex body. Characters outside the recognized translation table (notably
// '(' and ')') are emitted unescaped — they become regex grouping
// metacharacters rather than literal parenthesis matches. This is not an
// oversight: it is the documented, test-covered behavior of the pattern this
// package was ported from, and worked examples (e.g. a negative sub-pattern
// like "(#,##0.000)") depend on it.
func patternToRegex(pattern string) string {
	var b strings.Builder
	b.WriteByte('^')
	inQuotes := false

	for _, c := range pattern {
		if !inQuotes && c == '\'' {
			inQuotes = true
			continue
		}
		if inQuotes && c == '\'' {
			inQuotes = false
			continue
		}

		if inQuotes {
			b.WriteRune(c)
			continue
		}

		switch c {
		case '0':
			b.WriteString(`\d`)
		case '#':
			b.WriteString(`\d?`)
		case ',':
			b.WriteString(`\,`)
		case '.':
			b.WriteString(`\.`)
		case ';':
			b.WriteString(`\;`)
		case '¤':
			b.WriteString(`\$`)
		default:
			b.WriteRune(c)
		}
	}
	b.WriteByte('$')
	return b.String()
}

// Validate reports whether input matches the positive or negative regex.
func (df *DecimalFormat) Validate(input string) error {
	if df.positiveRegex.MatchString(input) || df.negativeRegex.MatchString(input) {
		return nil
	}
	return fmt.Errorf("decimalformat: input %q does not match pattern %q", input, df.Pattern)
}
