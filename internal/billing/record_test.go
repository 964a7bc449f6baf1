package billing

import (
	"encoding/json"
	"testing"
)

func TestResponseDecodesValuesVerbatim(t *testing.T) {
	body := `{"bllr_inf":{"bll_cstnm":"A. Rahman","bll_no":"B-1","bllr_accno":"778899",
		"meter_no":"987654","bll_dt_frm":"2023-03-01","bll_dt_due":"2023-04-15",
		"totalKwh":312,"bll_amnt":"1500.50","bll_vat":75.025,"bll_late_fee":null,"bll_amnt_ttl":"1575.53"}}`

	var resp Response
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.BillerInfo == nil {
		t.Fatal("BillerInfo = nil, want record")
	}
	rec := *resp.BillerInfo
	if rec.TotalKWh != "312" {
		t.Fatalf("totalKwh = %q, want %q", rec.TotalKWh, "312")
	}
	if rec.VAT != "75.025" {
		t.Fatalf("bll_vat = %q, want %q", rec.VAT, "75.025")
	}
	if rec.LateFee != "" {
		t.Fatalf("bll_late_fee = %q, want empty", rec.LateFee)
	}
	if rec.CustomerName != "A. Rahman" {
		t.Fatalf("bll_cstnm = %q, want %q", rec.CustomerName, "A. Rahman")
	}
}

func TestResponseWithoutBillerInfo(t *testing.T) {
	var resp Response
	if err := json.Unmarshal([]byte(`{"status":"not found"}`), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.BillerInfo != nil {
		t.Fatalf("BillerInfo = %+v, want nil", resp.BillerInfo)
	}
}

func TestSummaryRowsOrder(t *testing.T) {
	rows := SummaryRows(Record{CustomerName: "X", TotalAmount: "99.00"})
	want := []string{
		"Customer Name", "Bill Number", "Account Number", "Meter Number", "Billing Period",
		"Due Date", "Total Usage (kWh)", "Base Amount", "VAT", "Late Fee", "Total Amount",
	}
	if len(rows) != len(want) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(want))
	}
	for i, field := range want {
		if rows[i].Field != field {
			t.Fatalf("rows[%d].Field = %q, want %q", i, rows[i].Field, field)
		}
		if rows[i].Emphasis != (field == "Total Amount") {
			t.Fatalf("rows[%d].Emphasis = %v", i, rows[i].Emphasis)
		}
	}
	if rows[0].Value != "X" || rows[10].Value != "99.00" {
		t.Fatalf("row values not copied verbatim: %+v", rows)
	}
}
