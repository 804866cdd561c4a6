package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Analyzer drives the per-document extraction machine:
//
//	PENDING -> BUDGET_CHECKED -> {REJECTED | REQUESTED}
//	                          -> {PARSED | REPAIR_FAILED | TRANSPORT_FAILED}
//
// Terminal failure states carry empty required fields, an "error"
// entry, and the precomputed token count.
type Analyzer struct {
	conn   Connector
	guard  BudgetGuard
	logger *slog.Logger
}

func NewAnalyzer(conn Connector, guard BudgetGuard, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{conn: conn, guard: guard, logger: logger}
}

// AnalyzeDocument extracts identity fields, a summary, and
// keyword-context excerpts from one document's content.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, content string, keywords []string, contextChars int) Analysis {
	messages := BuildAnalysisMessages(content, keywords, contextChars)
	return a.run(ctx, messages)
}

// AnalyzeIdentity extracts only company/date (and optionally resumo)
// for the enrichment path of the deterministic pipeline.
func (a *Analyzer) AnalyzeIdentity(ctx context.Context, content string, includeSummary bool) Analysis {
	messages := BuildIdentityMessages(content, includeSummary)
	return a.run(ctx, messages)
}

func (a *Analyzer) run(ctx context.Context, messages []Message) Analysis {
	rid := uuid.New().String()
	start := time.Now()

	tokens, maxOutput, err := a.guard.Check(a.conn, messages)
	if err != nil {
		a.logger.Warn("llm.analyze.budget_rejected",
			"req_id", rid, "tokens", tokens, "limit", a.guard.Limit())
		return failure(StatusRejected, tokens, err.Error())
	}

	raw, err := a.conn.GenerateResponse(ctx, messages, maxOutput)
	if err != nil {
		a.logger.Error("llm.analyze.transport_error",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return failure(StatusTransportFailed, tokens, "transport failure: "+err.Error())
	}

	data, err := RepairJSON(raw)
	if err != nil {
		a.logger.Error("llm.analyze.repair_failed",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds())
		return failure(StatusRepairFailed, tokens, "malformed response: not valid JSON")
	}
	EnsureRequired(data)

	if encoded, err := json.Marshal(data); err == nil {
		if vErr := ValidateAgainstSchema(BuildAnalysisJSONSchema(), encoded); vErr != nil {
			a.logger.Error("llm.analyze.schema_validation_failed",
				"req_id", rid, "error", vErr,
				"elapsed_ms", time.Since(start).Milliseconds())
			return failure(StatusRepairFailed, tokens, "malformed response: schema validation failed")
		}
	}

	data["tokens"] = tokens

	a.logger.Info("llm.analyze.ok",
		"req_id", rid,
		"tokens", tokens,
		"max_output", maxOutput,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Analysis{Status: StatusParsed, Fields: data, Tokens: tokens}
}

func failure(status Status, tokens int, message string) Analysis {
	fields := map[string]any{"error": message}
	EnsureRequired(fields)
	fields["tokens"] = tokens
	return Analysis{Status: status, Fields: fields, Tokens: tokens}
}
