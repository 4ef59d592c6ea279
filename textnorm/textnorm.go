// Package textnorm centralizes text normalization for the extraction engine.
// Gazette text arrives with OCR and PDF-extraction artifacts: stray control
// characters, runs of whitespace, inconsistent accents. Every matcher in the
// engine works against a single normalized view produced here, so rules never
// disagree about what the text looks like.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Clean applies the one-time normalization pass to raw page text: NFC
// composition, control characters dropped, whitespace runs collapsed to a
// single space. Accents and letter case are preserved; record content keeps
// its original spelling.
func Clean(s string) string {
	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsControl(r):
			// OCR artifact
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Folded is a case- and accent-folded view of a source string, with a byte
// offset map back to the source. Searches run against the folded text;
// spans are extracted from the source using the mapped offsets, so extracted
// content keeps its accents.
type Folded struct {
	text  string
	src   string
	toSrc []int // folded byte offset -> source byte offset
}

// Fold builds the folded view of s. Each source rune is decomposed, stripped
// of combining marks and lowercased independently, so every folded byte maps
// to the source rune it came from.
func Fold(s string) *Folded {
	var b strings.Builder
	b.Grow(len(s))
	toSrc := make([]int, 0, len(s)+1)

	for i, r := range s {
		folded := foldRune(r)
		for range len(folded) {
			toSrc = append(toSrc, i)
		}
		b.WriteString(folded)
	}
	// Sentinel so offset-past-end maps to len(src).
	toSrc = append(toSrc, len(s))

	return &Folded{text: b.String(), src: s, toSrc: toSrc}
}

// Text returns the folded text.
func (f *Folded) Text() string {
	return f.text
}

// Source returns the original string the view was folded from.
func (f *Folded) Source() string {
	return f.src
}

// SourceOffset translates a byte offset in the folded text to the byte
// offset of the corresponding rune in the source string.
func (f *Folded) SourceOffset(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(f.toSrc) {
		return len(f.src)
	}
	return f.toSrc[i]
}

// SourceSpan extracts the source substring corresponding to the folded byte
// range [start, end).
func (f *Folded) SourceSpan(start, end int) string {
	return f.src[f.SourceOffset(start):f.SourceOffset(end)]
}

// foldRune decomposes a single rune, drops its combining marks and
// lowercases what remains.
func foldRune(r rune) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, string(r))
	if err != nil || out == "" {
		out = string(r)
	}
	return strings.ToLower(out)
}

// RemoveAccents strips diacritical marks from a string without changing case.
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
