package domain

// MergedSegment is the text span a publication record was extracted from,
// with its page provenance. When Merged is true the segment stitches the
// tail of the previous page to the head of the triggering page; SourcePages
// then has length >= 2 and the text is guaranteed to still contain the
// triggering phrase (merge validation).
type MergedSegment struct {
	Text        string   `json:"text"`
	SourcePages []string `json:"source_pages"`
	Merged      bool     `json:"merged"`
}
