package extract

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/djetools/extractor/domain"
	"github.com/djetools/extractor/logger"
	"github.com/djetools/extractor/textnorm"
)

// Confidence weights per matched field category. They sum to 1.0 so the
// score stays in [0,1]; it is a heuristic quality signal, not a probability.
const (
	weightDate    = 0.25
	weightAuthors = 0.35
	weightAmounts = 0.25
	weightLawyers = 0.15
)

const minAuthorLen = 3

// Extractor applies the per-field rule batteries to a record's text span.
// Safe for concurrent use; all state is read-only after construction.
type Extractor struct {
	byField       map[Field][]Rule
	institutional []string // folded forms
	logger        logger.Logger
}

// NewExtractor builds an extractor from the given batteries and
// institutional filter keywords. Nil rules or keywords select the defaults.
func NewExtractor(rules []Rule, institutionalKeywords []string, log logger.Logger) *Extractor {
	if rules == nil {
		rules = DefaultRules()
	}
	if institutionalKeywords == nil {
		institutionalKeywords = DefaultInstitutionalKeywords()
	}
	if log == nil {
		log = logger.NewNop()
	}

	byField := make(map[Field][]Rule)
	for _, r := range rules {
		byField[r.Field] = append(byField[r.Field], r)
	}
	for f := range byField {
		battery := byField[f]
		sort.SliceStable(battery, func(i, j int) bool {
			return battery[i].Priority < battery[j].Priority
		})
	}

	folded := make([]string, 0, len(institutionalKeywords))
	for _, kw := range institutionalKeywords {
		folded = append(folded, strings.ToLower(textnorm.RemoveAccents(kw)))
	}

	return &Extractor{byField: byField, institutional: folded, logger: log}
}

// Extract runs every battery against the text span and scores the result.
func (e *Extractor) Extract(text string) domain.ExtractedFields {
	fields := domain.ExtractedFields{
		Authors: e.extractAuthors(text),
		Lawyers: e.extractLawyers(text),
		Amounts: e.extractAmounts(text),
	}
	fields.AvailabilityDate = e.extractDate(text)
	fields.Confidence = e.score(fields)

	e.logger.Debug("fields extracted",
		logger.Int("authors", len(fields.Authors)),
		logger.Int("lawyers", len(fields.Lawyers)),
		logger.Int("amounts", len(fields.Amounts)),
		logger.Float64("confidence", fields.Confidence))

	return fields
}

// extractAuthors collects candidates from every author rule (list field:
// rules contribute cumulatively), splits conjunctions, then drops
// institutional names.
func (e *Extractor) extractAuthors(text string) []string {
	var authors []string
	seen := make(map[string]bool)

	for _, rule := range e.byField[FieldAuthor] {
		for _, m := range rule.Pattern.FindAllStringSubmatch(text, -1) {
			for _, candidate := range splitConjunction(m[1]) {
				name := cleanName(candidate)
				if !e.validAuthor(name) {
					continue
				}
				if !seen[name] {
					seen[name] = true
					authors = append(authors, name)
				}
			}
		}
		if len(authors) > 0 && !rule.Cumulative {
			break
		}
	}
	return authors
}

func (e *Extractor) extractLawyers(text string) []domain.Lawyer {
	var lawyers []domain.Lawyer
	seen := make(map[string]bool)

	for _, rule := range e.byField[FieldLawyer] {
		for _, m := range rule.Pattern.FindAllStringSubmatch(text, -1) {
			l := domain.Lawyer{
				Name:         cleanName(m[1]),
				Registration: strings.TrimSpace(m[2]),
			}
			if l.Name == "" || l.Registration == "" || seen[l.Registration] {
				continue
			}
			seen[l.Registration] = true
			lawyers = append(lawyers, l)
		}
		if len(lawyers) > 0 && !rule.Cumulative {
			break
		}
	}
	return lawyers
}

// extractAmounts assigns one value per category: the first rule in priority
// order for that category that yields a match.
func (e *Extractor) extractAmounts(text string) map[domain.AmountCategory]domain.Money {
	amounts := make(map[domain.AmountCategory]domain.Money)

	for _, rule := range e.byField[FieldAmount] {
		if _, done := amounts[rule.Category]; done {
			continue
		}
		for _, idx := range rule.Pattern.FindAllStringSubmatchIndex(text, -1) {
			if rule.Exclude != nil && e.qualifiedContext(text, idx[0], rule.Exclude) {
				continue
			}
			value, err := ParseMoney(text[idx[2]:idx[3]])
			if err != nil {
				e.logger.Warn("unparseable monetary value",
					logger.String("rule", rule.Name),
					logger.String("raw", text[idx[2]:idx[3]]))
				continue
			}
			amounts[rule.Category] = value
			break
		}
	}
	return amounts
}

// qualifiedContext reports whether the window preceding an amount match
// contains a qualifier, which would hand the value to a different category.
func (e *Extractor) qualifiedContext(text string, matchStart int, exclude *regexp.Regexp) bool {
	start := matchStart - contextWindow
	if start < 0 {
		start = 0
	}
	return exclude.MatchString(text[start:matchStart])
}

func (e *Extractor) extractDate(text string) *time.Time {
	for _, rule := range e.byField[FieldDate] {
		m := rule.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		t, err := time.Parse("02/01/2006", m[1])
		if err != nil {
			continue
		}
		return &t
	}
	return nil
}

// score is a weighted sum over the matched field categories, monotone in
// what was found.
func (e *Extractor) score(f domain.ExtractedFields) float64 {
	var score float64
	if f.AvailabilityDate != nil {
		score += weightDate
	}
	if len(f.Authors) > 0 {
		score += weightAuthors
	}
	if len(f.Amounts) > 0 {
		score += weightAmounts
	}
	if len(f.Lawyers) > 0 {
		score += weightLawyers
	}
	return score
}

// validAuthor rejects short fragments, non-name captures and candidates
// containing an institutional keyword.
func (e *Extractor) validAuthor(name string) bool {
	if len([]rune(name)) < minAuthorLen {
		return false
	}
	r := []rune(name)[0]
	if !strings.ContainsRune("ABCDEFGHIJKLMNOPQRSTUVWXYZÀÁÂÃÇÉÊÍÓÔÕÚ", r) {
		return false
	}
	folded := strings.ToLower(textnorm.RemoveAccents(name))
	for _, kw := range e.institutional {
		if strings.Contains(folded, kw) {
			return false
		}
	}
	return true
}

var conjunctionRe = regexp.MustCompile(`\s+[eE]\s+`)

// splitConjunction breaks "JOÃO SILVA e MARIA SOUZA" into individual names.
func splitConjunction(s string) []string {
	return conjunctionRe.Split(s, -1)
}

// cleanName trims whitespace and stray punctuation from a captured name.
func cleanName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "-–,.:;")
	return strings.Join(strings.Fields(s), " ")
}

// ParseMoney converts a Brazilian-format currency literal ("1.500,00") to
// integer minor units (value x 100, rounded).
func ParseMoney(s string) (domain.Money, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return domain.Money(math.Round(v * 100)), nil
}
