package domain

import "regexp"

// CNJPattern is the standardized Brazilian judicial process numbering format:
// NNNNNNN-DD.AAAA.J.TR.OOOO.
const CNJPattern = `\d{7}-\d{2}\.\d{4}\.\d\.\d{2}\.\d{4}`

var cnjExact = regexp.MustCompile(`^` + CNJPattern + `$`)

// ValidProcessNumber reports whether s matches the CNJ pattern exactly.
func ValidProcessNumber(s string) bool {
	return cnjExact.MatchString(s)
}

// RecordBoundary delimits one publication inside a page (or merged segment).
// StartOffset always precedes any keyword occurrence the boundary is
// associated with. EndOffset is -1 until the next record-start marker (or
// the segment end) is known.
type RecordBoundary struct {
	ProcessNumber string `json:"process_number"`
	StartOffset   int    `json:"start_offset"`
	EndOffset     int    `json:"end_offset"`
}
