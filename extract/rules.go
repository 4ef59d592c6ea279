// Package extract implements the field extractor: ordered, per-field
// pattern-rule batteries applied to a publication's text span, yielding
// typed values and a heuristic confidence score.
package extract

import (
	"regexp"

	"github.com/djetools/extractor/domain"
)

// Field identifies which record field a rule extracts.
type Field string

// Extractable fields.
const (
	FieldAuthor Field = "author"
	FieldLawyer Field = "lawyer"
	FieldDate   Field = "date"
	FieldAmount Field = "amount"
)

// Rule is one entry of a field's pattern battery. Rules are data, not
// control flow: batteries can be reordered or extended without touching the
// extractor.
type Rule struct {
	Name    string
	Field   Field
	Pattern *regexp.Regexp
	// Category tags amount rules with the monetary category they assign.
	Category domain.AmountCategory
	// Exclude rejects a match whose preceding context window matches. Used
	// to keep qualified amounts (juros, honorários, líquido) away from the
	// plain principal rule.
	Exclude *regexp.Regexp
	// Priority orders rules within a field; lower evaluates first.
	Priority int
	// Cumulative rules contribute every match (list-valued fields). A
	// non-cumulative battery stops at the first rule that matches.
	Cumulative bool
}

// contextWindow is how many characters before an amount are inspected for a
// qualifier when applying Exclude.
const contextWindow = 40

// Gazette text conventions the default batteries encode:
//
//	author:  "... - JOÃO SILVA - Vistos"        (dispatch header)
//	         "Requerente: JOÃO SILVA"           (party listing)
//	lawyer:  "MARIA SOUZA (OAB 123456/SP)"
//	amount:  "R$ 1.500,00", optionally qualified by a preceding
//	         "juros" / "honorários" / "líquido"
//	date:    "Disponibilização: 05/03/2024"
var defaultRules = []Rule{
	{
		Name:       "author-dispatch-header",
		Field:      FieldAuthor,
		Pattern:    regexp.MustCompile(`-\s*([^-\n]{3,100}?)\s*-\s*Vistos`),
		Priority:   1,
		Cumulative: true,
	},
	{
		Name:       "author-party-label",
		Field:      FieldAuthor,
		Pattern:    regexp.MustCompile(`(?i)\b(?:requerentes?|exequentes?|autor(?:es|a)?)\b\s*:?\s+([A-ZÀ-Ú][A-ZÀ-Ú\s.']{2,80})`),
		Priority:   2,
		Cumulative: true,
	},
	{
		Name:       "lawyer-oab",
		Field:      FieldLawyer,
		Pattern:    regexp.MustCompile(`([A-ZÀ-Ú][A-Za-zÀ-ú\s.']{2,60}?)\s*\(\s*OAB[:\s]*([\d.]+(?:/[A-Z]{2})?)\s*\)`),
		Priority:   1,
		Cumulative: true,
	},
	{
		Name:     "date-availability-label",
		Field:    FieldDate,
		Pattern:  regexp.MustCompile(`(?i)disponibiliza[çc][ãa]o\s*:?\D{0,10}(\d{2}/\d{2}/\d{4})`),
		Priority: 1,
	},
	{
		Name:     "date-bare",
		Field:    FieldDate,
		Pattern:  regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`),
		Priority: 2,
	},
	{
		Name:     "amount-interest",
		Field:    FieldAmount,
		Category: domain.AmountInterest,
		Pattern:  regexp.MustCompile(`(?i)juros\D{0,` + windowStr + `}?R\$\s*([\d.]+(?:,\d{1,2})?)`),
		Priority: 1,
	},
	{
		Name:     "amount-fees",
		Field:    FieldAmount,
		Category: domain.AmountFees,
		Pattern:  regexp.MustCompile(`(?i)honor[áa]rios\D{0,` + windowStr + `}?R\$\s*([\d.]+(?:,\d{1,2})?)`),
		Priority: 1,
	},
	{
		Name:     "amount-net",
		Field:    FieldAmount,
		Category: domain.AmountNet,
		Pattern:  regexp.MustCompile(`(?i)l[íi]quido\D{0,` + windowStr + `}?R\$\s*([\d.]+(?:,\d{1,2})?)`),
		Priority: 1,
	},
	{
		Name:     "amount-principal-plain",
		Field:    FieldAmount,
		Category: domain.AmountPrincipal,
		Pattern:  regexp.MustCompile(`(?i)R\$\s*([\d.]+(?:,\d{1,2})?)`),
		Exclude:  regexp.MustCompile(`(?i)(juros|honor[áa]rios|l[íi]quido)`),
		Priority: 2,
	},
}

const windowStr = "40"

// DefaultRules returns a copy of the built-in rule batteries.
func DefaultRules() []Rule {
	rules := make([]Rule, len(defaultRules))
	copy(rules, defaultRules)
	return rules
}

// DefaultInstitutionalKeywords are substrings that mark an author candidate
// as an institution rather than a person. The government defendant's own
// name shows up in party listings and must not be extracted as an author.
func DefaultInstitutionalKeywords() []string {
	return []string{
		"INSTITUTO NACIONAL",
		"SEGURO SOCIAL",
		"INSS",
		"FAZENDA",
		"MUNICIPIO",
		"ESTADO DE",
		"PREFEITURA",
		"UNIAO FEDERAL",
		"JUIZO",
		"VARA",
	}
}
