package model

import (
	"encoding/json"
	"fmt"
)

// WarningCategory groups soft problems for confidence pricing.
type WarningCategory string

const (
	WarnEmptyPage         WarningCategory = "empty_page"
	WarnPageFault         WarningCategory = "page_fault"
	WarnFieldConflict     WarningCategory = "field_conflict"
	WarnDualAmount        WarningCategory = "dual_amount"
	WarnDescriptionAmount WarningCategory = "description_amount"
	WarnMissingBalance    WarningCategory = "missing_balance"
	WarnLowText           WarningCategory = "low_text"
	WarnMissingHeader     WarningCategory = "missing_header"
)

// Warning is a soft, non-fatal finding. Page is 1-based; 0 means document level.
type Warning struct {
	Category WarningCategory
	Page     int
	Message  string
}

func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// ParseResult is the outcome of one full-document parse.
type ParseResult struct {
	Success      bool
	Transactions []TransactionRecord
	Confidence   float64
	Warnings     []string
	AbortReason  string // empty unless Success is false
}

type resultJSON struct {
	Success     bool                `json:"success"`
	Confidence  float64             `json:"confidence"`
	Warnings    []string            `json:"warnings"`
	AbortReason *string             `json:"abort_reason"`
	Data        []TransactionRecord `json:"data"`
}

// MarshalJSON implements json.Marshaler. Empty collections are emitted as
// [] and a missing abort reason as null.
func (r ParseResult) MarshalJSON() ([]byte, error) {
	w := resultJSON{
		Success:    r.Success,
		Confidence: r.Confidence,
		Warnings:   r.Warnings,
		Data:       r.Transactions,
	}
	if w.Warnings == nil {
		w.Warnings = []string{}
	}
	if w.Data == nil {
		w.Data = []TransactionRecord{}
	}
	if r.AbortReason != "" {
		reason := r.AbortReason
		w.AbortReason = &reason
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *ParseResult) UnmarshalJSON(data []byte) error {
	var w resultJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = ParseResult{
		Success:      w.Success,
		Transactions: w.Data,
		Confidence:   w.Confidence,
		Warnings:     w.Warnings,
	}
	if w.AbortReason != nil {
		r.AbortReason = *w.AbortReason
	}
	return nil
}
