package llm

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/keywordpdf/internal/extract"
)

// BuildAnalysisMessages composes the two-message exchange for the full
// document analysis: required identity fields plus keyword-context
// excerpts in a single JSON object.
func BuildAnalysisMessages(document string, keywords []string, contextChars int) []Message {
	keywordList := strings.Join(keywords, ", ")

	system := strings.Join([]string{
		"You are an assistant specialized in analyzing documents and extracting specific information.",
		"Analyze the provided document and extract the following REQUIRED fields:",
		`1. "company": name of the company mentioned in the document.`,
		`2. "date": issue or reference date of the document (YYYY-MM-DD).`,
		`3. "resumo": summary of the document in at most 200 characters.`,
		"Keywords to search for: " + keywordList + ".",
		`Under a "keywords" key, return ONLY the keywords that were actually FOUND in the document, not the full list.`,
		extract.ContextInstruction(contextChars),
		"Use the exact keyword text as the JSON key for its excerpts; omit keys for keywords that were not found.",
		"IMPORTANT RULES:",
		"- Return ONLY a valid JSON object.",
		"- Do NOT include explanations, comments, markdown, or any additional text.",
		`- If a piece of information is not found, use the empty string "".`,
		"- Escape special characters correctly in the JSON.",
	}, "\n")

	question := fmt.Sprintf(
		"Analyze the document and return the requested information as a single valid JSON object. "+
			"Required fields: company, date (YYYY-MM-DD), resumo (at most 200 characters). "+
			"For each keyword found among [%s], include its excerpts as described. "+
			"The answer must contain only the JSON, with no additional text.",
		keywordList)

	return []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: "Documento: " + document + "\n\nPergunta: " + question},
	}
}

// BuildIdentityMessages composes the smaller exchange used when
// enriching deterministic results: company and date only, plus the
// summary when requested.
func BuildIdentityMessages(document string, includeSummary bool) []Message {
	keys := `'company' and 'date'`
	example := "{\n  \"company\": \"Company Name\",\n  \"date\": \"2023-10-01\"\n}"
	if includeSummary {
		keys = `'company', 'date' and 'resumo' (a summary of at most 270 characters)`
		example = "{\n  \"company\": \"Company Name\",\n  \"date\": \"2023-10-01\",\n  \"resumo\": \"Document summary\"\n}"
	}

	system := strings.Join([]string{
		"You are an assistant specialized in processing documents.",
		"Extract the company name and the issue date of the provided document.",
		"Return a plain JSON object without formatting, containing only the keys " + keys + ".",
		"Example:",
		example,
		"If the information cannot be extracted, return an empty JSON object.",
	}, "\n")

	question := "What is the company name and the issue date of the document?"

	return []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: "Documento: " + document + "\n\nPergunta: " + question},
	}
}
