package metrics

// TokenUsage is the provider-reported token accounting of one completion.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// NewTokenUsage returns nil when the provider reported nothing, so callers
// can omit the field. A missing total is derived from the parts.
func NewTokenUsage(prompt, completion, total int) *TokenUsage {
	if total == 0 {
		total = prompt + completion
	}
	usage := TokenUsage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: total}
	if usage.IsZero() {
		return nil
	}
	return &usage
}

// IsZero reports whether no tokens were counted.
func (u TokenUsage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0
}
