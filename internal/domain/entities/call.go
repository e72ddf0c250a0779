package entities

// CompletionGranularity selects when a send call resolves.
type CompletionGranularity string

const (
	// GranularityReceipt waits for on-chain finality and returns the parsed result.
	GranularityReceipt CompletionGranularity = "receipt"
	// GranularityTransactionHash returns right after broadcast with only the tx id.
	GranularityTransactionHash CompletionGranularity = "transactionHash"
)

// CallResult is the normalized success value every adapter returns.
// Family-specific envelopes (ABI return values, account-chain result
// payloads, TON stack items) are flattened into Data before crossing the
// adapter boundary; failures travel as typed errors, never inside Data.
type CallResult struct {
	// TransactionID is set for send calls on every family and granularity.
	TransactionID string `json:"TransactionId,omitempty"`
	// Data holds the decoded view result or parsed receipt fields.
	Data map[string]any `json:"data,omitempty"`
	// Status is the terminal on-chain status for receipt-granularity sends.
	Status string `json:"status,omitempty"`
}

// Value returns a named field from Data, nil when absent.
func (r *CallResult) Value(key string) any {
	if r == nil || r.Data == nil {
		return nil
	}
	return r.Data[key]
}
