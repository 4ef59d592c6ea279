package domain

import "errors"

// State tracks an occurrence through the resolution pipeline.
// Terminal states are StateAssembled, StateRejected and StateUnresolvable.
type State string

// Occurrence states.
const (
	StateLocated          State = "located"
	StateBoundaryResolved State = "boundary_resolved"
	StateBoundaryNotFound State = "boundary_not_found"
	StatePageRecovered    State = "page_recovered"
	StateMergeValidated   State = "merge_validated"
	StateMergeRejected    State = "merge_rejected"
	StateFieldsExtracted  State = "fields_extracted"
	StateAssembled        State = "assembled"
	StateRejected         State = "rejected"
	StateUnresolvable     State = "unresolvable"
)

// Terminal reports whether the state ends an occurrence's processing.
func (s State) Terminal() bool {
	switch s {
	case StateAssembled, StateRejected, StateUnresolvable:
		return true
	}
	return false
}

// Per-occurrence failure taxonomy. These are outcomes carried in the output
// stream, not aborts: no occurrence failure stops sibling occurrences or
// documents.
var (
	// ErrBoundaryNotFound signals that no record-start marker precedes the
	// occurrence on its page. Recoverable via previous-page fetch.
	ErrBoundaryNotFound = errors.New("no record-start marker precedes occurrence")
	// ErrMergeRejected signals that the stitched previous-tail + current-head
	// text no longer contains the triggering phrase. Reported, not retried.
	ErrMergeRejected = errors.New("merged segment does not contain trigger phrase")
	// ErrPageFetch signals the page source failed or timed out; the
	// occurrence is surfaced as unresolvable.
	ErrPageFetch = errors.New("page fetch failed")
	// ErrStructuralValidation signals a malformed process number or an empty
	// authors list at assembly time; the record is rejected, not dropped.
	ErrStructuralValidation = errors.New("structural validation failed")
)

// Outcome is one entry of the per-document output stream: either an
// assembled record or a typed failure for the occurrence.
type Outcome struct {
	State      State              `json:"state"`
	Occurrence KeywordOccurrence  `json:"occurrence"`
	Record     *PublicationRecord `json:"record,omitempty"`
	Err        error              `json:"-"`
	// Reason is the string form of Err, for serialized reports.
	Reason string `json:"reason,omitempty"`
}

// Assembled reports whether the outcome carries a finished record.
func (o Outcome) Assembled() bool {
	return o.State == StateAssembled && o.Record != nil
}
