package llm

// ModelInfo describes one selectable model from the provider catalog
type ModelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SendResult is the outcome of a completion request. The client never returns
// a Go error across its boundary; callers check Err instead.
type SendResult struct {
	Text       string
	TokensUsed int
	Err        string // non-empty when the request failed
}

// Failed reports whether the request ended in an error
func (r *SendResult) Failed() bool {
	return r.Err != ""
}

// BalanceUnavailable is returned by GetBalance when the credits request fails
const BalanceUnavailable = "Error"

// modelListResponse mirrors the provider's GET /models body
type modelListResponse struct {
	Data []ModelInfo `json:"data"`
}

// creditsResponse mirrors the provider's GET /credits body
type creditsResponse struct {
	Data struct {
		TotalCredits float64 `json:"total_credits"`
		TotalUsage   float64 `json:"total_usage"`
	} `json:"data"`
}

// FallbackCatalog is returned when the live model listing fails, so the model
// selector is never empty.
func FallbackCatalog() []ModelInfo {
	return []ModelInfo{
		{ID: "deepseek-coder", Name: "DeepSeek"},
		{ID: "claude-3-sonnet", Name: "Claude 3.5 Sonnet"},
		{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo"},
	}
}
