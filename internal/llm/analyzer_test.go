package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/keywordpdf/internal/common"
)

// fakeConnector is a scripted backend: fixed token count, fixed
// ceiling, canned response or error. It records whether the network
// path was reached.
type fakeConnector struct {
	tokens   int
	ceiling  int
	response string
	err      error

	called       bool
	gotMaxTokens int
}

func (f *fakeConnector) IsConfigured(context.Context) bool { return true }
func (f *fakeConnector) CountTokens([]Message) int         { return f.tokens }
func (f *fakeConnector) Ceiling() int                      { return f.ceiling }

func (f *fakeConnector) GenerateResponse(_ context.Context, _ []Message, maxTokens int) (string, error) {
	f.called = true
	f.gotMaxTokens = maxTokens
	return f.response, f.err
}

func TestBudgetGuard_CeilingIsMinOfConfiguredAndBackend(t *testing.T) {
	hosted := &fakeConnector{ceiling: 16384}
	assert.Equal(t, 16384, NewBudgetGuard(128000, hosted).Limit())
	assert.Equal(t, 8000, NewBudgetGuard(8000, hosted).Limit())

	// A backend without its own limit leaves the configured ceiling.
	local := &fakeConnector{ceiling: 0}
	assert.Equal(t, 128000, NewBudgetGuard(128000, local).Limit())
	assert.Equal(t, DefaultCeiling, NewBudgetGuard(0, local).Limit())
}

func TestBudgetGuard_Check(t *testing.T) {
	conn := &fakeConnector{tokens: 1000, ceiling: 16384}
	guard := NewBudgetGuard(128000, conn)

	tokens, maxOutput, err := guard.Check(conn, nil)
	require.NoError(t, err)
	assert.Equal(t, 1000, tokens)
	assert.Equal(t, 2000, maxOutput)

	// The response budget is capped at the ceiling.
	conn.tokens = 10000
	_, maxOutput, err = guard.Check(conn, nil)
	require.NoError(t, err)
	assert.Equal(t, 16384, maxOutput)
}

func TestBudgetGuard_RejectsOverCeiling(t *testing.T) {
	conn := &fakeConnector{tokens: 20000, ceiling: 16384}
	guard := NewBudgetGuard(128000, conn)

	tokens, _, err := guard.Check(conn, nil)
	require.Error(t, err)
	assert.Equal(t, 20000, tokens)
	assert.True(t, errors.Is(err, common.ErrBudgetExceeded))
	assert.Contains(t, err.Error(), "document too long")
}

func TestAnalyzer_RejectedWithoutNetworkCall(t *testing.T) {
	conn := &fakeConnector{tokens: 20000, ceiling: 16384}
	a := NewAnalyzer(conn, NewBudgetGuard(0, conn), nil)

	got := a.AnalyzeDocument(context.Background(), "doc", []string{"kw"}, 30)
	assert.Equal(t, StatusRejected, got.Status)
	assert.False(t, conn.called, "over-budget request must not reach the backend")
	assert.Equal(t, 20000, got.Tokens)
	assert.Equal(t, "", got.Fields["company"])
	assert.Equal(t, "", got.Fields["date"])
	assert.Equal(t, "", got.Fields["resumo"])
	assert.NotEmpty(t, got.Fields["error"])
}

func TestAnalyzer_ParsesFencedResponse(t *testing.T) {
	conn := &fakeConnector{
		tokens:   100,
		response: "```json\n{\"company\": \"Empresa Teste S.A.\", \"date\": \"2024-01-01\", \"resumo\": \"teste\", \"keywords\": [\"dividendos\"], \"dividendos\": \"trecho com dividendos\"}\n```",
	}
	a := NewAnalyzer(conn, NewBudgetGuard(128000, conn), nil)

	got := a.AnalyzeDocument(context.Background(), "doc", []string{"dividendos"}, 30)
	require.Equal(t, StatusParsed, got.Status)
	assert.Equal(t, 200, conn.gotMaxTokens)
	assert.Equal(t, "Empresa Teste S.A.", got.Fields["company"])
	assert.Equal(t, "2024-01-01", got.Fields["date"])
	assert.Equal(t, "teste", got.Fields["resumo"])
	assert.Equal(t, 100, got.Fields["tokens"])
}

func TestAnalyzer_TransportFailure(t *testing.T) {
	conn := &fakeConnector{tokens: 100, err: errors.New("connection refused")}
	a := NewAnalyzer(conn, NewBudgetGuard(128000, conn), nil)

	got := a.AnalyzeDocument(context.Background(), "doc", nil, 30)
	assert.Equal(t, StatusTransportFailed, got.Status)
	assert.Contains(t, got.Fields["error"], "transport failure")
	assert.Equal(t, 100, got.Tokens)
}

func TestAnalyzer_RepairFailure(t *testing.T) {
	conn := &fakeConnector{tokens: 100, response: "I am sorry, I cannot help with that."}
	a := NewAnalyzer(conn, NewBudgetGuard(128000, conn), nil)

	got := a.AnalyzeDocument(context.Background(), "doc", nil, 30)
	assert.Equal(t, StatusRepairFailed, got.Status)
	assert.Equal(t, "", got.Fields["company"])
	assert.NotEmpty(t, got.Fields["error"])
}
