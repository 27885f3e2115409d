// Package indexer writes embedded chunks into postgres tables with pgvector columns.
// Every stream gets its own table named after the sanitized stream name, inside the
// configured default schema.
package indexer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/starx-inc/airbyte/base/appbase"
	"github.com/starx-inc/airbyte/base/jsoniter"
	"github.com/starx-inc/airbyte/base/pg"
	"github.com/starx-inc/airbyte/base/utils"
	"github.com/starx-inc/airbyte/connectors/pgvector/config"
	"github.com/starx-inc/airbyte/connectors/pgvector/processor"
)

const (
	createTableTemplate = `CREATE TABLE IF NOT EXISTS %s (
	document_id text NOT NULL,
	chunk_id uuid PRIMARY KEY,
	metadata jsonb,
	document_content text,
	embedding vector(%d))`
	createDocumentIndexTemplate = `CREATE INDEX IF NOT EXISTS %s ON %s (document_id)`
	insertTemplate              = `INSERT INTO %s (document_id, chunk_id, metadata, document_content, embedding) VALUES ($1, $2, $3, $4, $5)`
	deleteDocumentsTemplate     = `DELETE FROM %s WHERE document_id = ANY($1)`
	truncateTemplate            = `TRUNCATE TABLE %s`
)

// Indexer owns the connection pool of one sync and the DDL/DML around chunk storage
type Indexer struct {
	appbase.Service
	config      config.IndexingConfig
	pool        *pgxpool.Pool
	dimensions  int
	omitRawText bool
}

// New connects to postgres with the validated indexing config. dimensions sizes the
// vector columns of tables created by this indexer; omitRawText leaves
// document_content NULL so only embeddings and metadata are stored.
func New(ctx context.Context, cfg config.IndexingConfig, dimensions int, omitRawText bool) (*Indexer, error) {
	base := appbase.NewServiceBase("indexer")
	pool, err := pg.NewPGPool(ctx, cfg.URL())
	if err != nil {
		return nil, base.NewError("failed to connect to postgres: %v", err)
	}
	return &Indexer{
		Service:     base,
		config:      cfg,
		pool:        pool,
		dimensions:  dimensions,
		omitRawText: omitRawText,
	}, nil
}

// Check verifies the destination is usable: the server is reachable, the vector
// extension is available and the configured schema exists (it is created when missing).
func (ix *Indexer) Check(ctx context.Context) error {
	if err := ix.pool.Ping(ctx); err != nil {
		return ix.NewError("failed to ping postgres: %v", err)
	}
	var installed bool
	err := ix.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = 'vector')`).Scan(&installed)
	if err != nil {
		return ix.NewError("failed to check vector extension: %v", err)
	}
	if !installed {
		if _, err := ix.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
			return ix.NewError("the vector extension is not installed and could not be created: %v", err)
		}
	}
	schema := pgx.Identifier{ix.config.DefaultSchema}.Sanitize()
	if _, err := ix.pool.Exec(ctx, `CREATE SCHEMA IF NOT EXISTS `+schema); err != nil {
		return ix.NewError("failed to ensure schema %s: %v", ix.config.DefaultSchema, err)
	}
	return nil
}

// TableName maps a stream name to the postgres table holding its chunks
func (ix *Indexer) TableName(streamName string) string {
	return strings.ToLower(utils.SanitizeString(streamName))
}

func (ix *Indexer) qualifiedTable(streamName string) string {
	return pgx.Identifier{ix.config.DefaultSchema, ix.TableName(streamName)}.Sanitize()
}

// EnsureStream creates the chunk table of the stream if it doesn't exist yet.
// truncate drops previously synced data, which overwrite mode requires.
func (ix *Indexer) EnsureStream(ctx context.Context, streamName string, truncate bool) error {
	table := ix.qualifiedTable(streamName)
	if _, err := ix.pool.Exec(ctx, fmt.Sprintf(createTableTemplate, table, ix.dimensions)); err != nil {
		return ix.NewError("failed to create table %s: %v", table, err)
	}
	indexName := pgx.Identifier{ix.TableName(streamName) + "_document_id_idx"}.Sanitize()
	if _, err := ix.pool.Exec(ctx, fmt.Sprintf(createDocumentIndexTemplate, indexName, table)); err != nil {
		return ix.NewError("failed to create document index on %s: %v", table, err)
	}
	if truncate {
		if _, err := ix.pool.Exec(ctx, fmt.Sprintf(truncateTemplate, table)); err != nil {
			return ix.NewError("failed to truncate table %s: %v", table, err)
		}
		ix.Infof("truncated table %s", table)
	}
	return nil
}

// DeleteDocuments removes all chunks of the given documents so refreshed versions can
// replace them. Used by the dedup sync mode before writing.
func (ix *Indexer) DeleteDocuments(ctx context.Context, streamName string, documentIDs []string) error {
	if len(documentIDs) == 0 {
		return nil
	}
	table := ix.qualifiedTable(streamName)
	if _, err := ix.pool.Exec(ctx, fmt.Sprintf(deleteDocumentsTemplate, table), documentIDs); err != nil {
		return ix.NewError("failed to delete stale documents from %s: %v", table, err)
	}
	return nil
}

// Write inserts chunks with their embeddings in a single batch round trip.
// vectors must be parallel to chunks.
func (ix *Indexer) Write(ctx context.Context, streamName string, chunks []processor.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return ix.NewError("got %d vectors for %d chunks", len(vectors), len(chunks))
	}
	if len(chunks) == 0 {
		return nil
	}
	table := ix.qualifiedTable(streamName)
	batch := &pgx.Batch{}
	for i, chunk := range chunks {
		metadata, err := jsoniter.Marshal(chunk.Metadata)
		if err != nil {
			return ix.NewError("failed to marshal metadata of document %s: %v", chunk.DocumentID, err)
		}
		var content any
		if !ix.omitRawText {
			content = chunk.Text
		}
		batch.Queue(fmt.Sprintf(insertTemplate, table),
			chunk.DocumentID, chunk.ID, string(metadata), content, VectorLiteral(vectors[i]))
	}
	results := ix.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range chunks {
		if _, err := results.Exec(); err != nil {
			return ix.NewError("failed to insert chunks into %s: %v", table, err)
		}
	}
	return nil
}

// Close releases the connection pool
func (ix *Indexer) Close() {
	ix.pool.Close()
}

// VectorLiteral renders a float32 slice in the pgvector input format, e.g. [1,0.5,-2]
func VectorLiteral(vector []float32) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range vector {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String()
}
