package gazette

import (
	"strings"

	"github.com/djetools/extractor/domain"
)

// mergePages stitches a record that spans a physical page break: everything
// from the previous page's last record-start marker to its end, followed by
// the current page's head up to its first marker. A previous page with no
// marker contributes its whole text (it is assumed to be a continuation
// itself); a current page with no marker belongs entirely to the spanning
// record.
//
// The merged view is validated by the caller: it must still contain the
// triggering phrase, otherwise the merge is rejected.
func mergePages(prev, cur *pageView) (*pageView, domain.MergedSegment) {
	prevTail := prev.fold.Source()
	if n := len(prev.markers); n > 0 {
		last := prev.markers[n-1]
		prevTail = prev.fold.SourceSpan(last.start, len(prev.fold.Text()))
	}

	curHead := cur.fold.Source()
	if len(cur.markers) > 0 {
		curHead = cur.fold.SourceSpan(0, cur.markers[0].start)
	}

	text := strings.TrimSpace(prevTail) + " " + strings.TrimSpace(curHead)

	merged := newPageView(domain.RawPage{
		PageID:  prev.page.PageID + "+" + cur.page.PageID,
		Ordinal: cur.page.Ordinal,
		Text:    text,
	})

	segment := domain.MergedSegment{
		Text:        merged.page.Text,
		SourcePages: []string{prev.page.PageID, cur.page.PageID},
		Merged:      true,
	}
	return merged, segment
}
