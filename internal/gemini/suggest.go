package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"scontrino/internal/core"
	"scontrino/internal/insights"
)

const suggestionPrompt = `You are a personal finance assistant.

Analyze the following previous month transaction data and generate exactly 3 to 4 highly specific, numerical, and actionable money-saving suggestions.

Each suggestion MUST:
- Be strictly based on the provided data (no assumptions)
- Include real numbers from the data (prices, totals, differences, counts)
- Include a clear action the user can take
- Include a realistic estimated saving amount
- Focus on:
  - Price comparisons (same product across stores)
  - Repeatedly bought items
  - Category overspending
  - Deposit (Pfand) recovery
  - Drink/snack cutbacks

DO NOT:
- Give generic advice
- Repeat the same type of suggestion twice
- Mention budgeting theory
- Mention percentages without real euro amounts

Return the result in the following JSON format:

{
  "suggestions": [
    {
      "title": "Short title (max 6 words)",
      "insight": "What exactly happened based on the data, short and to the point",
      "action": "What the user should do",
      "estimated_saving_per_month": "number in euros"
    }
  ]
}

Here is the previous month transaction data:
`

// suggestionEnvelope matches the JSON object the model is told to return.
type suggestionEnvelope struct {
	Suggestions []insights.Suggestion `json:"suggestions"`
}

// MonthlySuggestions asks the model for saving suggestions over the given
// previous-month transactions. Implements insights.SuggestionClient.
func (c *Client) MonthlySuggestions(ctx context.Context, txns []core.Transaction) ([]insights.Suggestion, error) {
	data, err := json.Marshal(txns)
	if err != nil {
		return nil, fmt.Errorf("monthly suggestions: marshal transactions: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: suggestionPrompt + string(data)},
			},
		},
	}

	raw, err := c.generate(ctx, contents)
	if err != nil {
		return nil, fmt.Errorf("monthly suggestions: %w", err)
	}

	var envelope suggestionEnvelope
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &envelope); err != nil {
		return nil, fmt.Errorf("monthly suggestions: unmarshal model output: %w", err)
	}
	return envelope.Suggestions, nil
}
