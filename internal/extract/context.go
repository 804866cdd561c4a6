package extract

import (
	"fmt"

	"github.com/joseph-ayodele/keywordpdf/internal/common"
)

// ExcerptSeparator joins multiple keyword excerpts in the AI pipeline.
const ExcerptSeparator = " || "

// ContextMarker is the literal wrap applied to keyword cells by the
// deterministic pipeline. It marks the value as contextual/elided; it
// is NOT a computed character window, and downstream consumers depend
// on the exact string.
const ContextMarker = "..."

// ValidateContextChars rejects negative context widths at
// configuration time.
func ValidateContextChars(n int) error {
	if n < 0 {
		return common.NewAppError("CONFIG_ERROR", "context_chars must be a non-negative integer", common.ErrConfiguration)
	}
	return nil
}

// WrapContextMarker wraps a non-empty keyword cell in the literal
// "..." markers. Empty cells and the literal "None" are left alone.
func WrapContextMarker(cell string) string {
	if cell == "" || cell == "None" {
		return cell
	}
	return ContextMarker + cell + ContextMarker
}

// ContextInstruction is the prompt clause that delegates true
// context-window computation to the model: roughly contextChars
// characters before and after every occurrence, multiple excerpts
// joined by ExcerptSeparator.
func ContextInstruction(contextChars int) string {
	return fmt.Sprintf(
		"For each keyword found, extract the sentences that contain it, including approximately %d characters before and after the keyword for context. "+
			"If a keyword appears in more than one sentence, separate the excerpts with %q.",
		contextChars, ExcerptSeparator)
}
