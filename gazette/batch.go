package gazette

import (
	"context"
	"sync"
	"time"

	"github.com/djetools/extractor/domain"
	"github.com/djetools/extractor/logger"
)

// DocumentResult is the fan-in unit of a batch run: one document's drained
// outcome stream.
type DocumentResult struct {
	DocumentID string
	Outcomes   []domain.Outcome
}

// Assembled returns only the finished records.
func (r *DocumentResult) Assembled() []*domain.PublicationRecord {
	var records []*domain.PublicationRecord
	for _, o := range r.Outcomes {
		if o.Assembled() {
			records = append(records, o.Record)
		}
	}
	return records
}

// BatchProcessor processes independent documents in parallel using a worker
// pool. Documents share no state; each gets its own page cache inside
// Processor.Process.
type BatchProcessor struct {
	processor   *Processor
	concurrency int
	logger      logger.Logger
}

// NewBatchProcessor creates a batch processor. Non-positive concurrency
// falls back to 4 workers.
func NewBatchProcessor(processor *Processor, concurrency int, log logger.Logger) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = 4
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
		logger:      log,
	}
}

// Process runs every document through the pipeline and collects the
// results. Per-occurrence failures are typed outcomes inside each result;
// they never abort sibling documents.
func (b *BatchProcessor) Process(ctx context.Context, docs []Document) []DocumentResult {
	if len(docs) == 0 {
		return nil
	}

	b.logger.Info("starting batch processing",
		logger.Int("documents", len(docs)),
		logger.Int("concurrency", b.concurrency))
	start := time.Now()

	jobs := make(chan Document, len(docs))
	results := make(chan DocumentResult, len(docs))

	var wg sync.WaitGroup
	for range b.concurrency {
		wg.Add(1)
		go b.worker(ctx, jobs, results, &wg)
	}

	for _, doc := range docs {
		jobs <- doc
	}
	close(jobs)

	wg.Wait()
	close(results)

	out := make([]DocumentResult, 0, len(docs))
	assembled := 0
	for r := range results {
		out = append(out, r)
		assembled += len(r.Assembled())
	}

	b.logger.Info("batch processing complete",
		logger.Int("documents", len(docs)),
		logger.Int("records", assembled),
		logger.Duration("duration", time.Since(start)))

	return out
}

func (b *BatchProcessor) worker(ctx context.Context, jobs <-chan Document, results chan<- DocumentResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for doc := range jobs {
		results <- DocumentResult{
			DocumentID: doc.ID,
			Outcomes:   b.processor.Collect(ctx, doc),
		}
	}
}
