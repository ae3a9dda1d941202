package core

// ReceiptExtraction is the structured result of the external receipt
// analysis call. Field names mirror the JSON contract of the extraction
// service; amounts decode leniently because the model occasionally returns
// numbers as strings.
type ReceiptExtraction struct {
	Merchant string        `json:"merchant"`
	Location string        `json:"location"`
	Total    Amount        `json:"total"`
	Date     string        `json:"date"`
	Items    []ReceiptItem `json:"items"`
}

// ReceiptItem is one extracted receipt line.
type ReceiptItem struct {
	Name      string `json:"name"`
	UnitPrice Amount `json:"unit_price"`
	Price     Amount `json:"price"`
	Quantity  Amount `json:"quantity"`
	Category  string `json:"category"`
}

// Transaction converts an extraction into a scan-sourced transaction ready
// for user confirmation. The result is normalized but not yet validated.
func (r ReceiptExtraction) Transaction() Transaction {
	t := Transaction{
		Merchant: r.Merchant,
		Location: r.Location,
		Date:     r.Date,
		Total:    r.Total,
		Source:   SourceScan,
	}
	for _, item := range r.Items {
		t.LineItems = append(t.LineItems, LineItem{
			Name:       item.Name,
			Category:   item.Category,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.Price,
		})
	}
	return t.Normalize()
}
