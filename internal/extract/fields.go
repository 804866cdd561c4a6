package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Sentinel values returned when extraction fails. Renaming is only
// attempted when a document produced neither of them.
const (
	UnknownCompany = "UNKNOWN"
	UnknownDate    = "00000000"
)

// months maps English and Portuguese month names to two-digit numbers.
var months = map[string]string{
	"january": "01", "february": "02", "march": "03", "april": "04",
	"may": "05", "june": "06", "july": "07", "august": "08",
	"september": "09", "october": "10", "november": "11", "december": "12",
	"janeiro": "01", "fevereiro": "02", "março": "03", "abril": "04",
	"maio": "05", "junho": "06", "julho": "07", "agosto": "08",
	"setembro": "09", "outubro": "10", "novembro": "11", "dezembro": "12",
}

// ExtractDate applies the configured date pattern to text and returns
// the first match formatted as YYYYMMDD. The pattern is expected to
// capture exactly three groups in day / month-name / year order; only
// the first match in document order is considered. Returns the
// "00000000" sentinel when the pattern does not match or the month name
// is not in the bilingual table.
func ExtractDate(text string, datePattern *regexp.Regexp) string {
	m := datePattern.FindStringSubmatch(text)
	if m == nil || len(m) < 4 {
		return UnknownDate
	}
	month, ok := months[strings.ToLower(m[2])]
	if !ok {
		return UnknownDate
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return UnknownDate
	}
	return fmt.Sprintf("%s%s%02d", m[3], month, day)
}

// ExtractCompany applies the configured company pattern to text and
// returns capture group 1 of the first match, or "UNKNOWN" when there
// is none. The captured value is truncated at the first '(', trimmed,
// and internal spaces become underscores; what group 1 captures is a
// property of the configured pattern, not of this function.
func ExtractCompany(text string, companyPattern *regexp.Regexp) string {
	company := UnknownCompany
	if m := companyPattern.FindStringSubmatch(text); m != nil && len(m) > 1 {
		company = m[1]
	}
	return NormalizeCompany(company)
}

// NormalizeCompany applies the company post-processing to any raw
// name, regardless of where it was extracted: truncate at the first
// '(', trim, spaces to underscores.
func NormalizeCompany(company string) string {
	if i := strings.IndexByte(company, '('); i >= 0 {
		company = company[:i]
	}
	return strings.ReplaceAll(strings.TrimSpace(company), " ", "_")
}

// NormalizeDateDigits compacts a model-reported date (e.g.
// "2024-01-01") to the YYYYMMDD form used for renaming. Anything that
// does not reduce to exactly eight digits yields the sentinel.
func NormalizeDateDigits(date string) string {
	var b strings.Builder
	for _, r := range date {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() != 8 {
		return UnknownDate
	}
	return b.String()
}

// FindCompanyAndDate runs both field extractions over one document.
func FindCompanyAndDate(text string, companyPattern, datePattern *regexp.Regexp) (company, date string) {
	return ExtractCompany(text, companyPattern), ExtractDate(text, datePattern)
}
