package llm

import (
	"fmt"

	"github.com/joseph-ayodele/keywordpdf/internal/common"
)

// BudgetGuard enforces the token budget for one backend. The effective
// ceiling is the smaller of the configured analyzer ceiling and the
// backend's own hard limit, when it has one.
type BudgetGuard struct {
	ceiling int
}

// DefaultCeiling is the analyzer-path ceiling when none is configured.
const DefaultCeiling = 128000

func NewBudgetGuard(configured int, conn Connector) BudgetGuard {
	if configured <= 0 {
		configured = DefaultCeiling
	}
	if c := conn.Ceiling(); c > 0 && c < configured {
		configured = c
	}
	return BudgetGuard{ceiling: configured}
}

func (g BudgetGuard) Limit() int { return g.ceiling }

// Check estimates the cost of messages and derives the response
// budget. Requests over the ceiling are rejected before any network
// call; no retry, no truncation. The response budget doubles the
// estimate on the assumption that the answer is comparable in size to
// the question — a deliberately simple, non-adaptive policy.
func (g BudgetGuard) Check(conn Connector, messages []Message) (tokens, maxOutput int, err error) {
	tokens = conn.CountTokens(messages)
	if tokens > g.ceiling {
		return tokens, 0, common.NewAppError("BUDGET_EXCEEDED",
			fmt.Sprintf("document too long: %d tokens exceed the model limit of %d", tokens, g.ceiling),
			common.ErrBudgetExceeded)
	}
	maxOutput = 2 * tokens
	if maxOutput > g.ceiling {
		maxOutput = g.ceiling
	}
	return tokens, maxOutput, nil
}
