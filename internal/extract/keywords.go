package extract

import (
	"bufio"
	"os"
	"strings"

	"github.com/joseph-ayodele/keywordpdf/internal/common"
)

// LoadKeywords reads one keyword per line from path, skipping blank
// lines and '#' comments. Order is preserved; it defines column order
// in every report of the run.
func LoadKeywords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.WrapError(err, "open keywords file")
	}
	defer f.Close()

	var keywords []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keywords = append(keywords, line)
	}
	if err := sc.Err(); err != nil {
		return nil, common.WrapError(err, "read keywords file")
	}
	return keywords, nil
}

// ContainsAny reports whether any keyword occurs in text,
// case-insensitively.
func ContainsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// CheckAll returns one 0/1 flag per keyword in configured order: 1 when
// the keyword is a case-insensitive substring of text.
func CheckAll(text string, keywords []string) []int {
	lower := strings.ToLower(text)
	hits := make([]int, len(keywords))
	for i, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			hits[i] = 1
		}
	}
	return hits
}

// NormalizeColumn makes a keyword safe as a CSV column name: commas
// become dashes, spaces become underscores.
func NormalizeColumn(keyword string) string {
	return strings.ReplaceAll(strings.ReplaceAll(keyword, ",", "-"), " ", "_")
}

// NormalizeColumns maps NormalizeColumn over the configured list.
func NormalizeColumns(keywords []string) []string {
	out := make([]string, len(keywords))
	for i, kw := range keywords {
		out[i] = NormalizeColumn(kw)
	}
	return out
}
