package gazette

import (
	"regexp"
	"sync"

	"github.com/djetools/extractor/domain"
	"github.com/djetools/extractor/textnorm"
)

// markerPattern matches a record-start marker on the folded (lowercase,
// accentless) text: the literal "processo" followed by a CNJ identifier.
var markerPattern = regexp.MustCompile(`processo\s+(` + domain.CNJPattern + `)`)

// marker is one record-start marker located on a page. Offsets index the
// folded text.
type marker struct {
	processNumber string
	start         int
}

// pageView is a page admitted to the per-document cache: its cleaned text,
// the folded view every matcher runs against, and the precomputed
// record-start markers.
type pageView struct {
	page    domain.RawPage
	fold    *textnorm.Folded
	markers []marker
}

// newPageView runs the normalization pass and marker scan once, at cache
// admission.
func newPageView(page domain.RawPage) *pageView {
	page.Text = textnorm.Clean(page.Text)
	fold := textnorm.Fold(page.Text)

	var markers []marker
	for _, m := range markerPattern.FindAllStringSubmatchIndex(fold.Text(), -1) {
		markers = append(markers, marker{
			processNumber: fold.Text()[m[2]:m[3]],
			start:         m[0],
		})
	}

	return &pageView{page: page, fold: fold, markers: markers}
}

// pageCache is the per-document page store. Constructed for one document,
// discarded when it completes; never shared across documents. Guarded
// because occurrence resolution may run concurrently within a document.
type pageCache struct {
	mu        sync.Mutex
	byOrdinal map[int]*pageView
}

func newPageCache(pages []domain.RawPage) *pageCache {
	c := &pageCache{byOrdinal: make(map[int]*pageView, len(pages))}
	for _, p := range pages {
		c.byOrdinal[p.Ordinal] = newPageView(p)
	}
	return c
}

// get returns the cached view for an ordinal, if present.
func (c *pageCache) get(ordinal int) (*pageView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.byOrdinal[ordinal]
	return v, ok
}

// put admits a fetched page, normalizing it on the way in. Returns the
// cached view, keeping the first admission if two resolutions raced.
func (c *pageCache) put(page domain.RawPage) *pageView {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.byOrdinal[page.Ordinal]; ok {
		return v
	}
	v := newPageView(page)
	c.byOrdinal[page.Ordinal] = v
	return v
}
