package gazette

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/djetools/extractor/config"
	"github.com/djetools/extractor/domain"
	"github.com/djetools/extractor/extract"
	"github.com/djetools/extractor/logger"
	"github.com/djetools/extractor/retry"
	"github.com/djetools/extractor/telemetry"
)

// PageSource supplies gazette page text by document and ordinal. It is the
// engine's only external dependency and its only suspension point; the
// browser/document-retrieval layer implements it.
type PageSource interface {
	FetchPage(ctx context.Context, documentID string, ordinal int) (domain.RawPage, error)
}

// Document is one gazette issue to process: the pages the search layer
// already retrieved, plus the issue's availability date. Pages missing here
// are fetched from the page source only when boundary recovery needs them.
type Document struct {
	ID               string
	AvailabilityDate time.Time
	Pages            []domain.RawPage
}

// Processor turns documents into streams of publication outcomes. Safe for
// concurrent use; every document gets its own page cache.
type Processor struct {
	source       PageSource
	locator      *Locator
	extractor    *extract.Extractor
	limiter      *rate.Limiter
	fetchTimeout time.Duration
	retryCfg     retry.Config
	tel          *telemetry.Provider
	logger       logger.Logger
}

// NewProcessor wires the pipeline from configuration. source may be nil
// when the caller guarantees no occurrence will need previous-page
// recovery; a nil telemetry provider disables metrics.
func NewProcessor(source PageSource, cfg *config.Config, log logger.Logger, tel *telemetry.Provider) *Processor {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Processor{
		source:       source,
		locator:      NewLocator(cfg.Extraction.TriggerPhrases),
		extractor:    extract.NewExtractor(nil, cfg.Extraction.InstitutionalKeywords, log),
		limiter:      rate.NewLimiter(rate.Limit(cfg.Processing.FetchRPS), cfg.Processing.FetchRPS),
		fetchTimeout: cfg.Processing.FetchTimeout,
		retryCfg: retry.Config{
			MaxAttempts: cfg.Processing.FetchRetries,
		},
		tel:    tel,
		logger: log,
	}
}

// Locator exposes the trigger phrase locator, e.g. for hot reloads.
func (p *Processor) Locator() *Locator {
	return p.locator
}

// Process emits the document's outcomes lazily on the returned channel. The
// channel closes when every occurrence reached a terminal state or the
// context was cancelled; cancellation stops scheduling further occurrences
// but outcomes already produced are still delivered.
func (p *Processor) Process(ctx context.Context, doc Document) <-chan domain.Outcome {
	out := make(chan domain.Outcome)
	go func() {
		defer close(out)
		start := time.Now()

		if p.tel != nil {
			var span trace.Span
			ctx, span = p.tel.StartDocumentSpan(ctx, doc.ID, len(doc.Pages))
			defer span.End()
		}

		cache := newPageCache(doc.Pages)
		log := p.logger.With(logger.String("document_id", doc.ID))

		for _, page := range doc.Pages {
			view, ok := cache.get(page.Ordinal)
			if !ok {
				continue
			}
			occs := p.locator.Locate(view)
			if len(occs) > 0 {
				log.Debug("occurrences located",
					logger.String("page_id", page.PageID),
					logger.Int("count", len(occs)))
			}
			for _, occ := range occs {
				if ctx.Err() != nil {
					log.Warn("document processing cancelled",
						logger.Int("ordinal", page.Ordinal))
					return
				}
				if p.tel != nil {
					p.tel.Metrics.OccurrencesLocated.Inc()
				}
				outcome := p.resolveOccurrence(ctx, doc, cache, view, occ)
				select {
				case out <- outcome:
				case <-ctx.Done():
					return
				}
			}
		}

		if p.tel != nil {
			p.tel.RecordDocument(time.Since(start))
		}
	}()
	return out
}

// Collect drains Process into a slice. Convenience for callers that do not
// need the lazy stream.
func (p *Processor) Collect(ctx context.Context, doc Document) []domain.Outcome {
	var outcomes []domain.Outcome
	for o := range p.Process(ctx, doc) {
		outcomes = append(outcomes, o)
	}
	return outcomes
}

// resolveOccurrence drives one occurrence through the state machine:
// Located -> BoundaryResolved | BoundaryNotFound ->
// [PageRecovered -> MergeValidated | MergeRejected] ->
// FieldsExtracted -> Assembled | Rejected | Unresolvable.
func (p *Processor) resolveOccurrence(
	ctx context.Context,
	doc Document,
	cache *pageCache,
	view *pageView,
	occ domain.KeywordOccurrence,
) domain.Outcome {
	boundary, found := resolveBoundary(view, occ.Offset)

	segView := view
	segment := domain.MergedSegment{
		SourcePages: []string{view.page.PageID},
	}

	if !found {
		merged, mergedSeg, err := p.recoverBoundary(ctx, doc, cache, view, occ)
		if err != nil {
			return p.unresolvable(occ, err)
		}
		k := strings.Index(merged.fold.Text(), occ.MatchedPhrase)
		boundary, found = resolveBoundary(merged, k)
		if !found {
			// The previous page is a continuation too and carries no
			// marker; one recovery hop is the budget.
			return p.unresolvable(occ, domain.ErrBoundaryNotFound)
		}
		segView = merged
		segment = mergedSeg
	}

	text := boundarySpan(segView, boundary)
	segment.Text = text

	extractStart := time.Now()
	fields := p.extractor.Extract(text)
	if p.tel != nil {
		p.tel.RecordExtraction(time.Since(extractStart))
	}

	record, err := assembleRecord(doc, boundary, segment, fields)
	if err != nil {
		if p.tel != nil {
			p.tel.Metrics.RecordsRejected.WithLabelValues(rejectionReason(err)).Inc()
		}
		p.logger.Warn("record rejected",
			logger.String("document_id", doc.ID),
			logger.String("process_number", boundary.ProcessNumber),
			logger.Error(err))
		return domain.Outcome{
			State:      domain.StateRejected,
			Occurrence: occ,
			Err:        err,
			Reason:     err.Error(),
		}
	}

	if p.tel != nil {
		p.tel.Metrics.RecordsAssembled.Inc()
	}
	p.logger.Info("record assembled",
		logger.String("document_id", doc.ID),
		logger.String("process_number", record.ProcessNumber),
		logger.Bool("merged", record.Merged),
		logger.Float64("confidence", record.Confidence))

	return domain.Outcome{
		State:      domain.StateAssembled,
		Occurrence: occ,
		Record:     record,
	}
}

// recoverBoundary fetches the preceding page, merges it with the current
// page and validates that the stitched text still contains the triggering
// phrase. The per-document cache absorbs repeat fetches of the same page.
func (p *Processor) recoverBoundary(
	ctx context.Context,
	doc Document,
	cache *pageCache,
	view *pageView,
	occ domain.KeywordOccurrence,
) (*pageView, domain.MergedSegment, error) {
	prevOrdinal := view.page.Ordinal - 1
	if prevOrdinal < 1 {
		return nil, domain.MergedSegment{}, domain.ErrBoundaryNotFound
	}

	prev, ok := cache.get(prevOrdinal)
	if ok {
		if p.tel != nil {
			p.tel.Metrics.PageCacheHits.Inc()
		}
	} else {
		page, err := p.fetchPage(ctx, doc.ID, prevOrdinal)
		if err != nil {
			if p.tel != nil {
				p.tel.Metrics.PageFetchFailures.Inc()
			}
			p.logger.Warn("previous page fetch failed",
				logger.String("document_id", doc.ID),
				logger.Int("ordinal", prevOrdinal),
				logger.Error(err))
			return nil, domain.MergedSegment{}, fmt.Errorf("%w: %w", domain.ErrPageFetch, err)
		}
		prev = cache.put(page)
	}

	if p.tel != nil {
		p.tel.Metrics.MergesAttempted.Inc()
	}
	merged, segment := mergePages(prev, view)

	if !p.locator.contains(merged.fold.Text(), occ.MatchedPhrase) {
		if p.tel != nil {
			p.tel.Metrics.MergesRejected.Inc()
		}
		p.logger.Warn("merge rejected",
			logger.String("document_id", doc.ID),
			logger.String("phrase", occ.MatchedPhrase),
			logger.Int("ordinal", view.page.Ordinal))
		return nil, domain.MergedSegment{}, domain.ErrMergeRejected
	}

	return merged, segment, nil
}

// fetchPage crosses the external boundary: rate limited, bounded by the
// fetch timeout, retried on transient failure.
func (p *Processor) fetchPage(ctx context.Context, documentID string, ordinal int) (domain.RawPage, error) {
	if p.source == nil {
		return domain.RawPage{}, fmt.Errorf("no page source configured")
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return domain.RawPage{}, err
	}
	if p.tel != nil {
		p.tel.Metrics.PageFetches.Inc()
	}

	var page domain.RawPage
	err := retry.Do(ctx, p.retryCfg, func() error {
		fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
		defer cancel()
		var ferr error
		page, ferr = p.source.FetchPage(fetchCtx, documentID, ordinal)
		return ferr
	})
	return page, err
}

func (p *Processor) unresolvable(occ domain.KeywordOccurrence, err error) domain.Outcome {
	if p.tel != nil {
		p.tel.Metrics.OccurrencesUnresolvable.WithLabelValues(rejectionReason(err)).Inc()
	}
	return domain.Outcome{
		State:      domain.StateUnresolvable,
		Occurrence: occ,
		Err:        err,
		Reason:     err.Error(),
	}
}
