package insights

import "scontrino/internal/core"

const (
	SlideRule    SlideKind = "rule"
	SlideAI      SlideKind = "ai"
	SlideLoading SlideKind = "loading_ai"
)

type (
	// SlideKind discriminates the slide variants.
	SlideKind string

	// Suggestion is one tip from the external assistant, as returned by the
	// suggestion service and cached per calendar month.
	Suggestion struct {
		Title                   string      `json:"title"`
		Insight                 string      `json:"insight"`
		Action                  string      `json:"action"`
		EstimatedSavingPerMonth core.Amount `json:"estimated_saving_per_month"`
	}

	// Slide is one displayable unit of the rotation. Exactly one of Rule
	// and AI is set, according to Kind; a loading slide carries neither.
	Slide struct {
		Kind SlideKind   `json:"kind"`
		Rule *Tip        `json:"rule,omitempty"`
		AI   *Suggestion `json:"ai,omitempty"`
	}
)

// IsAI reports whether the slide originates from the external assistant,
// including the placeholder shown while its answer is in flight.
func (s Slide) IsAI() bool {
	return s.Kind == SlideAI || s.Kind == SlideLoading
}

// BuildSlides concatenates the AI portion and the rule-based tips into one
// sequence. While the external call is in flight a single placeholder slide
// stands in for the AI portion.
func BuildSlides(ai []Suggestion, loading bool, rules []Tip) []Slide {
	var out []Slide
	if loading {
		out = append(out, Slide{Kind: SlideLoading})
	} else {
		for i := range ai {
			out = append(out, Slide{Kind: SlideAI, AI: &ai[i]})
		}
	}
	for i := range rules {
		out = append(out, Slide{Kind: SlideRule, Rule: &rules[i]})
	}
	return out
}
