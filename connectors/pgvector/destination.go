package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/starx-inc/airbyte/airbytecdk"
	"github.com/starx-inc/airbyte/base/appbase"
	"github.com/starx-inc/airbyte/base/utils"
	"github.com/starx-inc/airbyte/connectors/pgvector/config"
	"github.com/starx-inc/airbyte/connectors/pgvector/embedder"
	"github.com/starx-inc/airbyte/connectors/pgvector/indexer"
	"github.com/starx-inc/airbyte/connectors/pgvector/processor"
	"github.com/tmc/langchaingo/embeddings"
)

const checkTimeout = 30 * time.Second

// PGVectorDestination embeds incoming records and stores the chunks in postgres
// with the pgvector extension
type PGVectorDestination struct {
	appbase.Service
	batchSize int
}

func NewPGVectorDestination(settings *appbase.ConnectorSettings) *PGVectorDestination {
	return &PGVectorDestination{
		Service:   appbase.NewServiceBase("destination-pgvector"),
		batchSize: settings.BatchSize,
	}
}

func (d *PGVectorDestination) Spec(_ airbyte.LogTracker) (*airbyte.ConnectorSpecification, error) {
	return config.Spec(), nil
}

// Check validates the configuration, builds the embedder and verifies the postgres
// side end to end, so a failing setup is reported before a sync is attempted
func (d *PGVectorDestination) Check(dstCfgPath string, _ airbyte.LogTracker) error {
	cfg, err := d.loadConfig(dstCfgPath)
	if err != nil {
		return err
	}
	_, err = processor.New(cfg.Processing, processor.TokenLenFunc())
	if err != nil {
		return err
	}
	_, dimensions, err := embedder.New(cfg.Embedding)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()
	ix, err := indexer.New(ctx, cfg.Indexing, dimensions, cfg.OmitRawText)
	if err != nil {
		return err
	}
	defer ix.Close()
	return ix.Check(ctx)
}

// Write drains the record stream, embedding and indexing records in batches.
// State messages are echoed back only after everything received before them is flushed.
func (d *PGVectorDestination) Write(dstCfgPath string, configuredCat *airbyte.ConfiguredCatalog,
	input *airbyte.MessageIterator, tracker airbyte.MessageTracker) error {
	cfg, err := d.loadConfig(dstCfgPath)
	if err != nil {
		return err
	}
	proc, err := processor.New(cfg.Processing, processor.TokenLenFunc())
	if err != nil {
		return err
	}
	emb, dimensions, err := embedder.New(cfg.Embedding)
	if err != nil {
		return err
	}
	ctx := context.Background()
	ix, err := indexer.New(ctx, cfg.Indexing, dimensions, cfg.OmitRawText)
	if err != nil {
		return err
	}
	defer ix.Close()
	if err := ix.Check(ctx); err != nil {
		return err
	}

	writer := newStreamWriter(d, configuredCat, proc, emb, ix, d.batchSize, tracker)
	if err := writer.prepareStreams(ctx); err != nil {
		return err
	}
	for {
		msg, err := input.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return d.NewError("failed to read input: %v", err)
		}
		switch msg.Type {
		case airbyte.MessageTypeRecord:
			if err := writer.addRecord(ctx, msg.Record); err != nil {
				return err
			}
		case airbyte.MessageTypeState:
			// checkpoint: everything before this state must be durable before echoing it
			if err := writer.flushAll(ctx); err != nil {
				return err
			}
			if err := tracker.State(msg.State.Data); err != nil {
				return d.NewError("failed to emit state: %v", err)
			}
		}
	}
	if err := writer.flushAll(ctx); err != nil {
		return err
	}
	writer.reportComplete()
	d.Infof("sync finished: %d records processed", input.RecordCount())
	return nil
}

func (d *PGVectorDestination) loadConfig(dstCfgPath string) (*config.ConnectorConfig, error) {
	raw, err := airbyte.ReadRawConfig(dstCfgPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}
	return cfg, nil
}

// streamWriter buffers chunks per stream and flushes them through the embedder into
// the indexer once a stream's buffer reaches batchSize
type streamWriter struct {
	dst       *PGVectorDestination
	catalog   *airbyte.ConfiguredCatalog
	processor *processor.Processor
	embedder  embeddings.Embedder
	indexer   *indexer.Indexer
	batchSize int
	tracker   airbyte.MessageTracker
	buffers   map[string][]processor.Chunk
	// dedup streams need stale chunks of re-synced documents removed before insert
	dedupStreams map[string]bool
}

func newStreamWriter(dst *PGVectorDestination, catalog *airbyte.ConfiguredCatalog, proc *processor.Processor,
	emb embeddings.Embedder, ix *indexer.Indexer, batchSize int, tracker airbyte.MessageTracker) *streamWriter {
	return &streamWriter{
		dst:          dst,
		catalog:      catalog,
		processor:    proc,
		embedder:     emb,
		indexer:      ix,
		batchSize:    batchSize,
		tracker:      tracker,
		buffers:      map[string][]processor.Chunk{},
		dedupStreams: map[string]bool{},
	}
}

// prepareStreams creates the chunk table of every configured stream before any data
// flows, truncating tables of streams synced in overwrite mode
func (sw *streamWriter) prepareStreams(ctx context.Context) error {
	for _, stream := range sw.catalog.Streams {
		truncate := stream.DestinationSyncMode == airbyte.DestinationSyncModeOverwrite
		if err := sw.indexer.EnsureStream(ctx, stream.Stream.Name, truncate); err != nil {
			return err
		}
		if stream.DestinationSyncMode == airbyte.DestinationSyncModeAppendDedup {
			sw.dedupStreams[stream.Stream.Name] = true
		}
	}
	return nil
}

func (sw *streamWriter) addRecord(ctx context.Context, rec *airbyte.InputRecord) error {
	stream, ok := sw.catalog.GetStream(rec.Stream, rec.Namespace)
	if !ok {
		return sw.dst.NewError("record for unknown stream %s (namespace %q)", rec.Stream, rec.Namespace)
	}
	chunks, err := sw.processor.Process(rec.Data, stream.PrimaryKey)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		sw.dst.Debugf("record in stream %s produced no text, skipped", rec.Stream)
		return nil
	}
	sw.buffers[rec.Stream] = append(sw.buffers[rec.Stream], chunks...)
	if len(sw.buffers[rec.Stream]) >= sw.batchSize {
		return sw.flushStream(ctx, rec.Stream)
	}
	return nil
}

func (sw *streamWriter) flushStream(ctx context.Context, streamName string) error {
	chunks := sw.buffers[streamName]
	if len(chunks) == 0 {
		return nil
	}
	texts := utils.ArrayMap(chunks, func(chunk processor.Chunk) string { return chunk.Text })
	vectors, err := sw.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return sw.dst.NewError("failed to embed %d chunks of stream %s: %v", len(chunks), streamName, err)
	}
	if sw.dedupStreams[streamName] {
		documentIDs := make([]string, 0, len(chunks))
		seen := map[string]bool{}
		for _, chunk := range chunks {
			if !seen[chunk.DocumentID] {
				seen[chunk.DocumentID] = true
				documentIDs = append(documentIDs, chunk.DocumentID)
			}
		}
		if err := sw.indexer.DeleteDocuments(ctx, streamName, documentIDs); err != nil {
			return err
		}
	}
	if err := sw.indexer.Write(ctx, streamName, chunks, vectors); err != nil {
		return err
	}
	sw.dst.Debugf("flushed %d chunks to stream %s", len(chunks), streamName)
	sw.buffers[streamName] = nil
	return nil
}

func (sw *streamWriter) flushAll(ctx context.Context) error {
	for streamName := range sw.buffers {
		if err := sw.flushStream(ctx, streamName); err != nil {
			return err
		}
	}
	return nil
}

func (sw *streamWriter) reportComplete() {
	for _, stream := range sw.catalog.Streams {
		err := sw.tracker.Trace(&airbyte.TraceMessage{
			Type: airbyte.TraceTypeStreamStatus,
			StreamStatus: &airbyte.StreamStatus{
				StreamDescriptor: airbyte.StreamDescriptor{
					Name:      stream.Stream.Name,
					Namespace: stream.Stream.Namespace,
				},
				Status: "COMPLETE",
			},
		})
		if err != nil {
			sw.dst.Warnf("failed to emit stream status for %s: %v", stream.Stream.Name, err)
		}
	}
}
