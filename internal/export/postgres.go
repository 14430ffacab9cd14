package export

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flatfile-parser/internal/logging"
	"flatfile-parser/internal/util"
	"flatfile-parser/internal/validator"
)

const defaultLoadTimeout = 30 * time.Second

// PostgresLoader bulk-loads validated records into a Postgres table via
// COPY FROM, buffering rows per line type the same way XLSXDump buffers
// sheets, since each line type's cell set is its own column set.
type PostgresLoader struct {
	connEnv     string
	targetTable string
	rows        map[string][][]interface{}
	columns     map[string][]string
	order       []string
}

// NewPostgresLoader prepares a loader that reads its connection string from
// the environment variable named by connEnv when Close is called.
func NewPostgresLoader(connEnv, targetTable string) *PostgresLoader {
	return &PostgresLoader{
		connEnv:     connEnv,
		targetTable: targetTable,
		rows:        make(map[string][][]interface{}),
		columns:     make(map[string][]string),
	}
}

// Write buffers one validated record's cell values as a row keyed by line
// type.
func (l *PostgresLoader) Write(res *validator.Result) error {
	if res == nil {
		return fmt.Errorf("export: PostgresLoader.Write called with a nil result")
	}
	cols, ok := l.columns[res.LineType]
	if !ok {
		cols = append([]string{}, res.CellValues.Keys()...)
		sort.Strings(cols)
		l.columns[res.LineType] = cols
		l.order = append(l.order, res.LineType)
	}
	row := make([]interface{}, len(cols))
	for i, c := range cols {
		v, _ := res.CellValues.Get(c)
		row[i] = v
	}
	l.rows[res.LineType] = append(l.rows[res.LineType], row)
	return nil
}

// Close opens a pool, loads every buffered line type's rows into
// "<targetTable>_<linetype>" via CopyFrom, and closes the pool.
func (l *PostgresLoader) Close() error {
	if len(l.order) == 0 {
		logging.Logf(logging.Info, "export: PostgresLoader has no buffered records, skipping connection")
		return nil
	}

	connStr := os.Getenv(l.connEnv)
	if connStr == "" {
		return fmt.Errorf("export: environment variable %q is not set", l.connEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultLoadTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return fmt.Errorf("export: failed to create connection pool for %s: %w", util.MaskCredentials(connStr), err)
	}
	defer pool.Close()
	logging.Logf(logging.Debug, "export: connected to %s", util.MaskCredentials(connStr))

	for _, lineType := range l.order {
		table := pgx.Identifier{fmt.Sprintf("%s_%s", l.targetTable, lineType)}
		count, err := pool.CopyFrom(ctx, table, l.columns[lineType], pgx.CopyFromRows(l.rows[lineType]))
		if err != nil {
			return fmt.Errorf("export: COPY into %q failed: %w", table.Sanitize(), err)
		}
		logging.Logf(logging.Info, "export: copied %d row(s) into %s", count, table.Sanitize())
	}
	return nil
}
