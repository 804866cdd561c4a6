package llm

import "context"

// Message is one role-tagged entry of a chat exchange.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Required keys every extraction response must carry. Missing ones are
// defaulted to the empty string after repair.
var RequiredKeys = []string{"company", "date", "resumo"}

// Connector is the capability set a model backend must provide. Two
// variants exist: a hosted chat-completion API and a locally served
// OpenAI-compatible endpoint.
type Connector interface {
	// IsConfigured reports whether the backend is usable: credential
	// present for the hosted variant, server reachable and model pulled
	// for the local one.
	IsConfigured(ctx context.Context) bool

	// CountTokens estimates the cost of a message set in the backend's
	// own units.
	CountTokens(messages []Message) int

	// Ceiling returns the backend's hard request-size limit, or 0 when
	// the backend imposes none of its own (the configured analyzer
	// ceiling applies then).
	Ceiling() int

	// GenerateResponse sends the exchange and returns the raw text
	// completion. maxTokens bounds the response size.
	GenerateResponse(ctx context.Context, messages []Message, maxTokens int) (string, error)
}

// Analysis is the terminal outcome of analyzing one document.
type Analysis struct {
	Status Status
	// Fields holds the parsed response object on success, or the
	// defaulted required keys plus an "error" entry on failure.
	Fields map[string]any
	// Tokens is the precomputed request estimate, preserved on every
	// path for audit.
	Tokens int
}

// Status names the states of the per-document extraction machine.
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusBudgetChecked   Status = "BUDGET_CHECKED"
	StatusRejected        Status = "REJECTED"
	StatusRequested       Status = "REQUESTED"
	StatusParsed          Status = "PARSED"
	StatusRepairFailed    Status = "REPAIR_FAILED"
	StatusTransportFailed Status = "TRANSPORT_FAILED"
)
