package pg

import (
	"context"
	"fmt"
	"net/url"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaRegex = regexp.MustCompile(`(?:search_path|schema)=([^&$]+)`)

func extractSchema(connURL string) string {
	parts := schemaRegex.FindStringSubmatch(connURL)
	if len(parts) != 2 {
		return ""
	}
	schema, err := url.QueryUnescape(parts[1])
	if err != nil {
		return parts[1]
	}
	return schema
}

// searchPathStatement quotes the schema as an identifier so that the schema name can
// never alter the statement
func searchPathStatement(schema string) string {
	return "SET search_path TO " + pgx.Identifier{schema}.Sanitize()
}

// NewPGPool creates pgx connection pool from postgres url. If url carries a
// `search_path` (or `schema`) parameter it is applied to every connection in the pool.
func NewPGPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pgCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("unable to parse postgres connection url: %v", err)
	}
	schema := extractSchema(url)
	if schema != "" {
		pgCfg.ConnConfig.RuntimeParams["search_path"] = schema
		pgCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, searchPathStatement(schema))
			return err
		}
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create postgres connection pool: %v", err)
	}
	return dbpool, nil
}
