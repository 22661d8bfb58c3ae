package domain

// DispatchResult is the per-recipient outcome of a dispatch. Exactly one of
// Sent/Suppressed is true for a processed recipient.
type DispatchResult struct {
	To         string `json:"to"`
	Sent       bool   `json:"sent"`
	Suppressed bool   `json:"suppressed"`
}

// BatchResult aggregates the per-recipient outcomes of a multi-recipient
// dispatch. Results preserve the input recipient order, and
// Total == SentCount + SuppressedCount.
type BatchResult struct {
	Total           int              `json:"total"`
	SentCount       int              `json:"sent_count"`
	SuppressedCount int              `json:"suppressed_count"`
	Results         []DispatchResult `json:"results"`
}
