// Package domain holds the core types of the gazette publication extraction
// engine: pages, keyword occurrences, record boundaries, merged segments,
// extracted fields and the assembled publication record.
package domain

// RawPage is the text of a single gazette page. Immutable once fetched; the
// per-document page cache owns it for the duration of one document's run.
type RawPage struct {
	// PageID is an opaque identifier assigned by the page source.
	PageID string `json:"page_id"`
	// Ordinal is the 1-based physical page number inside the document.
	Ordinal int `json:"ordinal"`
	// Text is the page text after the normalization pass.
	Text string `json:"text"`
}

// KeywordOccurrence is a single hit of a trigger phrase on a page. Produced
// and consumed within one page's processing pass.
type KeywordOccurrence struct {
	PageID        string `json:"page_id"`
	Ordinal       int    `json:"ordinal"`
	Offset        int    `json:"offset"`
	MatchedPhrase string `json:"matched_phrase"`
}
