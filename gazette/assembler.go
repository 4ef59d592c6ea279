package gazette

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/djetools/extractor/domain"
)

// assembleRecord combines a resolved boundary, its (possibly merged) text
// span and the extracted fields into an immutable publication record.
// Structural validation gates assembly: the process number must match the
// CNJ pattern exactly and at least one author must have survived the
// institutional filter. A failed record is rejected and reported, never
// silently dropped.
func assembleRecord(
	doc Document,
	b domain.RecordBoundary,
	segment domain.MergedSegment,
	fields domain.ExtractedFields,
) (*domain.PublicationRecord, error) {
	if !domain.ValidProcessNumber(b.ProcessNumber) {
		return nil, fmt.Errorf("%w: malformed process number %q",
			domain.ErrStructuralValidation, b.ProcessNumber)
	}
	if len(fields.Authors) == 0 {
		return nil, fmt.Errorf("%w: no authors extracted for process %s",
			domain.ErrStructuralValidation, b.ProcessNumber)
	}

	availability := doc.AvailabilityDate
	if fields.AvailabilityDate != nil {
		availability = *fields.AvailabilityDate
	}

	return &domain.PublicationRecord{
		ID:               uuid.NewString(),
		ProcessNumber:    b.ProcessNumber,
		AvailabilityDate: availability,
		SourcePages:      segment.SourcePages,
		Merged:           segment.Merged,
		Authors:          fields.Authors,
		Lawyers:          fields.Lawyers,
		Amounts:          fields.Amounts,
		FullText:         segment.Text,
		Confidence:       fields.Confidence,
		Method:           domain.MethodRuleBased,
	}, nil
}

// rejectionReason maps an outcome error to a stable metric label.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMergeRejected):
		return "merge_rejected"
	case errors.Is(err, domain.ErrPageFetch):
		return "page_fetch"
	case errors.Is(err, domain.ErrBoundaryNotFound):
		return "boundary_not_found"
	case errors.Is(err, domain.ErrStructuralValidation):
		return "structural_validation"
	default:
		return "unknown"
	}
}
