package gazette

import "github.com/djetools/extractor/domain"

// resolveBoundary finds the record boundary that owns the occurrence at
// folded offset k: the nearest record-start marker with start < k. If several
// markers precede k, the one with the largest start wins. The end offset is
// the start of the next marker after k, or -1 when the record runs to the
// end of the segment.
//
// Returns ok=false when no marker precedes k anywhere on the page; the
// caller may then attempt previous-page recovery.
func resolveBoundary(v *pageView, k int) (domain.RecordBoundary, bool) {
	var owner *marker
	for i := range v.markers {
		if v.markers[i].start < k {
			owner = &v.markers[i]
		} else {
			break
		}
	}
	if owner == nil {
		return domain.RecordBoundary{}, false
	}

	b := domain.RecordBoundary{
		ProcessNumber: owner.processNumber,
		StartOffset:   owner.start,
		EndOffset:     -1,
	}
	for i := range v.markers {
		if v.markers[i].start > k {
			b.EndOffset = v.markers[i].start
			break
		}
	}
	return b, true
}

// boundarySpan extracts the record's source text for a resolved boundary.
func boundarySpan(v *pageView, b domain.RecordBoundary) string {
	end := b.EndOffset
	if end < 0 {
		end = len(v.fold.Text())
	}
	return v.fold.SourceSpan(b.StartOffset, end)
}
