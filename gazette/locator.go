// Package gazette implements the publication extraction pipeline: trigger
// phrase location, record boundary resolution, cross-page recovery and
// merging, and final record assembly. Data flows one way per occurrence:
// locate -> resolve -> (recover + merge) -> extract -> assemble.
package gazette

import (
	"sort"
	"strings"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/djetools/extractor/domain"
	"github.com/djetools/extractor/textnorm"
)

// Locator scans page text for occurrences of the configured trigger
// phrases. Matching is case- and accent-insensitive: the Aho-Corasick
// automaton runs over the folded view and decides which phrases are present
// in a single pass, then per-phrase offset scans place each occurrence.
type Locator struct {
	mu      sync.RWMutex
	matcher *ahocorasick.Matcher
	phrases []string // folded forms
}

// NewLocator builds the automaton from the given trigger phrases.
func NewLocator(phrases []string) *Locator {
	l := &Locator{}
	l.UpdatePhrases(phrases)
	return l
}

// UpdatePhrases hot-swaps the trigger phrase set, rebuilding the automaton
// atomically.
func (l *Locator) UpdatePhrases(phrases []string) {
	folded := make([]string, 0, len(phrases))
	for _, p := range phrases {
		f := textnorm.Fold(p).Text()
		if f != "" {
			folded = append(folded, f)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.phrases = folded
	if len(folded) > 0 {
		l.matcher = ahocorasick.NewStringMatcher(folded)
	} else {
		l.matcher = nil
	}
}

// Locate returns all trigger phrase occurrences on the page, sorted by
// offset ascending. Offsets index the page's folded text. Never fails; no
// matches yields an empty list.
func (l *Locator) Locate(v *pageView) []domain.KeywordOccurrence {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.matcher == nil {
		return nil
	}

	text := v.fold.Text()
	var occs []domain.KeywordOccurrence
	for _, hit := range l.matcher.Match([]byte(text)) {
		if hit >= len(l.phrases) {
			continue
		}
		phrase := l.phrases[hit]
		for _, off := range indexAll(text, phrase) {
			occs = append(occs, domain.KeywordOccurrence{
				PageID:        v.page.PageID,
				Ordinal:       v.page.Ordinal,
				Offset:        off,
				MatchedPhrase: phrase,
			})
		}
	}

	sort.Slice(occs, func(i, j int) bool { return occs[i].Offset < occs[j].Offset })
	return occs
}

// contains reports whether the folded text holds at least one occurrence of
// the given folded phrase. Used by merge validation.
func (l *Locator) contains(foldedText, phrase string) bool {
	return strings.Contains(foldedText, phrase)
}

// indexAll returns every index of substr in s, non-overlapping.
func indexAll(s, substr string) []int {
	var idxs []int
	for from := 0; ; {
		i := strings.Index(s[from:], substr)
		if i < 0 {
			return idxs
		}
		idxs = append(idxs, from+i)
		from += i + len(substr)
	}
}
