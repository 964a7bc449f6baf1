package billing

import "time"

const (
	// DefaultBillerCode identifies the utility in the remote billing API.
	DefaultBillerCode = "b025"

	billTypeNetMeter = "NM"
	modeWeb          = "WEB"
)

// Envelope is the request body expected by the billing API. Apart from the bill
// number and timestamps every field is a fixed placeholder.
type Envelope struct {
	Headers     EnvelopeHeaders     `json:"hdrs"`
	Transaction EnvelopeTransaction `json:"trx"`
	IsOffline   bool                `json:"isOffline"`
	BillInfo    EnvelopeBillInfo    `json:"bll_inf"`
	UserInfo    struct{}            `json:"usr_inf"`
}

type EnvelopeHeaders struct {
	Name      string `json:"nm"`
	Version   string `json:"ver"`
	Timestamp string `json:"tms"`
	RefID     string `json:"ref_id"`
	NodeID    string `json:"nd_id"`
}

type EnvelopeTransaction struct {
	ID        string `json:"trx_id"`
	Timestamp string `json:"trx_tms"`
}

type EnvelopeBillInfo struct {
	CustomerName  string `json:"bll_cstnm"`
	LocationCode  string `json:"bll_loc_cd"`
	BillerID      string `json:"bllr_id"`
	BillNumber    string `json:"bll_no"`
	Period        string `json:"bll_period"`
	MeterNumber   string `json:"meter_no"`
	AccountNumber string `json:"bllr_accno"`
	MobileNumber  string `json:"bill_mobno"`
	BillType      string `json:"bll_typ"`
	ExchangeCode  string `json:"xchng_code"`
	LastPayDate   string `json:"last_pay_dt"`
	Mode          string `json:"mode"`
	Amount        string `json:"amount"`
}

// BuildEnvelope wraps identifier in the request envelope. now is read once for
// the header and once for the transaction timestamp.
func BuildEnvelope(identifier, billerCode string, now func() time.Time) Envelope {
	if now == nil {
		now = time.Now
	}
	if billerCode == "" {
		billerCode = DefaultBillerCode
	}
	return Envelope{
		Headers: EnvelopeHeaders{
			Timestamp: formatTimestamp(now()),
		},
		Transaction: EnvelopeTransaction{
			Timestamp: formatTimestamp(now()),
		},
		IsOffline: false,
		BillInfo: EnvelopeBillInfo{
			BillerID:   billerCode,
			BillNumber: identifier,
			BillType:   billTypeNetMeter,
			Mode:       modeWeb,
		},
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
