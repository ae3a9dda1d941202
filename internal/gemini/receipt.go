package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"scontrino/internal/core"
)

// receiptPrompt is the fixed instruction for receipt extraction. The model
// must answer with a single JSON object; anything else fails the call.
const receiptPrompt = `Analyze this receipt image and extract the following information in JSON format:
{
  "merchant": "store/business name",
  "location": "store/business location",
  "total": "total amount spent (as a number)",
  "date": "transaction date (YYYY-MM-DD format)",
  "items": [
    {
      "name": "item name (translate to English ONLY if it is a real, concrete noun like fruits, vegetables, food items, or branded products; if the name is a generic category or department label, keep it as a generic English description)",
      "unit_price": "item unit price (as a number)",
      "price": "item total price (as a number)",
      "quantity": "quantity (as a number, default 1)",
      "category": "category (Groceries, Dining, Transport, Clothing, Household, Health, Entertainment, Subscription, Electronics, Other)"
    }
  ]
}

Rules:
- Extract all items from the receipt
- Date must be in YYYY-MM-DD format, or today's date if not found on the receipt
- Categorize each item appropriately
- If category is unclear, use "Other"
- Return ONLY valid JSON, no markdown, no code blocks, no explanations
- All prices must be numbers, not strings with currency symbols`

// AnalyzeReceipt sends the receipt image to the model and parses the
// extraction it returns. A malformed response fails the whole call; the
// caller keeps its previous state rather than accepting a partial result.
func (c *Client) AnalyzeReceipt(ctx context.Context, image []byte, mimeType string) (*core.ReceiptExtraction, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: receiptPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     image,
					},
				},
			},
		},
	}

	raw, err := c.generate(ctx, contents)
	if err != nil {
		return nil, fmt.Errorf("analyze receipt: %w", err)
	}

	var extraction core.ReceiptExtraction
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &extraction); err != nil {
		return nil, fmt.Errorf("analyze receipt: unmarshal model output: %w", err)
	}
	return &extraction, nil
}
