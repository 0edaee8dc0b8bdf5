package graph

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresOptions configures reading an edge table from PostgreSQL.
type PostgresOptions struct {
	Table   string // overrides the "table" URI parameter
	Timeout time.Duration
}

const defaultEdgeTable = "edges"

var tablePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// postgresTarget strips the "table" parameter from u, which pgx would otherwise
// forward to the server as a runtime parameter.
func postgresTarget(u *url.URL, opts PostgresOptions) (dsn string, table pgx.Identifier, err error) {
	clean := *u
	q := clean.Query()
	name := q.Get("table")
	q.Del("table")
	clean.RawQuery = q.Encode()

	if opts.Table != "" {
		name = opts.Table
	}
	if name == "" {
		name = defaultEdgeTable
	}
	if !tablePattern.MatchString(name) {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidTable, name)
	}

	return clean.String(), pgx.Identifier(strings.SplitN(name, ".", 2)), nil
}

func openPostgres(ctx context.Context, u *url.URL, opts SourceOptions) (*Graph, error) {
	dsn, table, err := postgresTarget(u, opts.Postgres)
	if err != nil {
		return nil, err
	}

	if opts.Postgres.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Postgres.Timeout)
		defer cancel()
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	query := fmt.Sprintf("SELECT source::text, target::text, weight::float8 FROM %s", table.Sanitize())
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table.Sanitize(), err)
	}
	defer rows.Close()

	b := NewBuilder(opts.Duplicates)
	var (
		source, target string
		weight         float64
		row            int
	)
	_, err = pgx.ForEachRow(rows, []any{&source, &target, &weight}, func() error {
		row++
		if err := b.AddEdge(source, target, weight); err != nil {
			return &ParseError{Source: table.Sanitize(), Line: row, Cause: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return b.Build(), nil
}
