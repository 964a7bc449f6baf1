package billing

// Row is one label/value line of the bill summary table.
type Row struct {
	Field    string
	Value    string
	Emphasis bool
}

// SummaryRows maps a record to the fixed 11-row summary. Values are copied
// verbatim.
func SummaryRows(rec Record) []Row {
	return []Row{
		{Field: "Customer Name", Value: rec.CustomerName.String()},
		{Field: "Bill Number", Value: rec.BillNumber.String()},
		{Field: "Account Number", Value: rec.AccountNumber.String()},
		{Field: "Meter Number", Value: rec.MeterNumber.String()},
		{Field: "Billing Period", Value: rec.PeriodStart.String()},
		{Field: "Due Date", Value: rec.DueDate.String()},
		{Field: "Total Usage (kWh)", Value: rec.TotalKWh.String()},
		{Field: "Base Amount", Value: rec.BaseAmount.String()},
		{Field: "VAT", Value: rec.VAT.String()},
		{Field: "Late Fee", Value: rec.LateFee.String()},
		{Field: "Total Amount", Value: rec.TotalAmount.String(), Emphasis: true},
	}
}
