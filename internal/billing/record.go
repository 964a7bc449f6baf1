package billing

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Text holds a response value verbatim. JSON strings are unquoted, numbers keep
// their literal text and null decodes to "".
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode text value: %w", err)
		}
		*t = Text(s)
	default:
		*t = Text(data)
	}
	return nil
}

func (t Text) String() string {
	return string(t)
}

// Record is the biller-info block of a bill response.
type Record struct {
	CustomerName  Text `json:"bll_cstnm"`
	BillNumber    Text `json:"bll_no"`
	AccountNumber Text `json:"bllr_accno"`
	MeterNumber   Text `json:"meter_no"`
	PeriodStart   Text `json:"bll_dt_frm"`
	DueDate       Text `json:"bll_dt_due"`
	TotalKWh      Text `json:"totalKwh"`
	BaseAmount    Text `json:"bll_amnt"`
	VAT           Text `json:"bll_vat"`
	LateFee       Text `json:"bll_late_fee"`
	TotalAmount   Text `json:"bll_amnt_ttl"`
}

// Response is the bill lookup response body. BillerInfo is nil when the bill
// was not found.
type Response struct {
	BillerInfo *Record `json:"bllr_inf"`
}

// Outcome discriminates a LookupResult.
type Outcome int

const (
	OutcomeFound Outcome = iota
	OutcomeNotFound
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LookupResult is what the gateway hands back for one fetch attempt.
type LookupResult struct {
	Outcome Outcome
	Record  Record
	Reason  error
}

func Found(rec Record) LookupResult {
	return LookupResult{Outcome: OutcomeFound, Record: rec}
}

func NotFound() LookupResult {
	return LookupResult{Outcome: OutcomeNotFound}
}

func Failed(reason error) LookupResult {
	return LookupResult{Outcome: OutcomeFailed, Reason: reason}
}
