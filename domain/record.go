package domain

import (
	"strconv"
	"time"
)

// Money is a monetary amount in integer minor currency units (centavos).
// It serializes as a decimal string to survive downstream JSON number
// precision limits.
type Money int64

// MarshalJSON renders the amount as a quoted integer string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatInt(int64(m), 10))), nil
}

// UnmarshalJSON accepts both quoted and bare integers.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*m = Money(v)
	return nil
}

// AmountCategory classifies a monetary value found in a publication.
type AmountCategory string

// Amount categories.
const (
	AmountPrincipal AmountCategory = "principal"
	AmountNet       AmountCategory = "net"
	AmountInterest  AmountCategory = "interest"
	AmountFees      AmountCategory = "fees"
)

// Lawyer is an attorney credited in a publication, with their bar
// registration number.
type Lawyer struct {
	Name         string `json:"name"`
	Registration string `json:"registration"`
}

// ExtractedFields holds the typed values the field extractor pulled from a
// record's text span, plus the heuristic confidence of the extraction.
type ExtractedFields struct {
	Authors          []string                 `json:"authors"`
	Lawyers          []Lawyer                 `json:"lawyers"`
	Amounts          map[AmountCategory]Money `json:"amounts"`
	AvailabilityDate *time.Time               `json:"availability_date,omitempty"`
	Confidence       float64                  `json:"confidence"`
}

// Extraction method tags.
const (
	MethodRuleBased = "rule_based"
)

// PublicationRecord is a finished, immutable publication. Corrections
// require re-running extraction; records are never mutated after assembly.
type PublicationRecord struct {
	// ID is assigned at assembly time for provenance and log correlation.
	ID               string                   `json:"id"`
	ProcessNumber    string                   `json:"process_number"`
	AvailabilityDate time.Time                `json:"availability_date"`
	SourcePages      []string                 `json:"source_pages"`
	Merged           bool                     `json:"merged"`
	Authors          []string                 `json:"authors"`
	Lawyers          []Lawyer                 `json:"lawyers"`
	Amounts          map[AmountCategory]Money `json:"amounts"`
	FullText         string                   `json:"full_text"`
	Confidence       float64                  `json:"confidence"`
	Method           string                   `json:"method"`
}

// WireLawyer is the downstream representation of an attorney.
type WireLawyer struct {
	Name string `json:"name"`
	OAB  string `json:"oab"`
}

// WireMetadata carries extraction provenance downstream.
type WireMetadata struct {
	Method     string  `json:"method"`
	Confidence float64 `json:"confidence"`
	Merged     bool    `json:"merged"`
}

// WireRecord is the storage-compatible shape handed to the delivery sink.
// Monetary values are integer-as-string minor units, null when the category
// was not found.
type WireRecord struct {
	ProcessNumber    string       `json:"process_number"`
	AvailabilityDate string       `json:"availability_date"`
	Authors          []string     `json:"authors"`
	Lawyers          []WireLawyer `json:"lawyers"`
	GrossValue       *Money       `json:"gross_value"`
	NetValue         *Money       `json:"net_value"`
	InterestValue    *Money       `json:"interest_value"`
	AttorneyFees     *Money       `json:"attorney_fees"`
	Content          string       `json:"content"`
	Metadata         WireMetadata `json:"extraction_metadata"`
}

// Wire converts the record to its downstream wire shape.
func (r *PublicationRecord) Wire() WireRecord {
	w := WireRecord{
		ProcessNumber:    r.ProcessNumber,
		AvailabilityDate: r.AvailabilityDate.Format("2006-01-02"),
		Authors:          r.Authors,
		GrossValue:       r.amount(AmountPrincipal),
		NetValue:         r.amount(AmountNet),
		InterestValue:    r.amount(AmountInterest),
		AttorneyFees:     r.amount(AmountFees),
		Content:          r.FullText,
		Metadata: WireMetadata{
			Method:     r.Method,
			Confidence: r.Confidence,
			Merged:     r.Merged,
		},
	}
	for _, l := range r.Lawyers {
		w.Lawyers = append(w.Lawyers, WireLawyer{Name: l.Name, OAB: l.Registration})
	}
	return w
}

func (r *PublicationRecord) amount(cat AmountCategory) *Money {
	if v, ok := r.Amounts[cat]; ok {
		return &v
	}
	return nil
}
