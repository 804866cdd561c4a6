package common

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Default patterns match the Brazilian market-disclosure documents the
// tool was written for. Both are overridable from the config file; the
// date pattern must capture exactly day / month-name / year. \p{L} is
// used instead of \w so accented Portuguese text ("São Paulo",
// "março") matches.
const (
	DefaultDatePattern    = `\n[\p{L}\s]+, (\d{1,2}) de (\p{L}+) de (\d{4})\.`
	DefaultCompanyPattern = `COMUNICADO AO MERCADO\s*(.+)`
)

const (
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"
)

// Config holds all application configuration. It is built once per run
// and passed explicitly into every component; no global state.
type Config struct {
	KeywordsList string
	PDFDir       string
	OutputPath   string

	DateRegex    *regexp.Regexp
	CompanyRegex *regexp.Regexp

	AI AIConfig

	Rename         bool
	Verbose        bool
	KeepMarkdown   bool
	ConvertMD      bool
	FullAnalysis   bool
	IncludeSummary bool

	ContextChars int
}

// AIConfig holds LLM-related configuration
type AIConfig struct {
	Provider  string // "openai" | "local"
	Model     string
	APIKey    string // hosted API credential, from env
	BaseURL   string // local server base URL
	MaxTokens int    // analyzer token ceiling
	Timeout   time.Duration
}

// Overrides carry command-line values that take precedence over the
// config file, field by field. Nil pointers leave the file value alone.
type Overrides struct {
	KeywordsList *string
	PDFDir       *string
	OutputPath   *string
	Provider     *string
	Model        *string
	Rename       *bool
	Verbose      *bool
	IncludeSum   *bool
	ContextChars *int
}

// LoadConfig reads the single-section .ini file at path, merges
// environment credentials, and applies overrides. Regex patterns are
// compiled here so a malformed pattern fails the run before any
// document is touched.
func LoadConfig(path string, ov Overrides) (*Config, error) {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	cfg := &Config{
		KeywordsList:   "keywords.txt",
		PDFDir:         "files/",
		OutputPath:     "files/",
		IncludeSummary: true,
		ContextChars:   30,
		AI: AIConfig{
			Provider:  ProviderOpenAI,
			Model:     "gpt-4o",
			BaseURL:   "http://localhost:11434",
			MaxTokens: 128000,
			Timeout:   120 * time.Second,
		},
	}

	datePattern := DefaultDatePattern
	companyPattern := DefaultCompanyPattern

	if path != "" {
		f, err := ini.Load(path)
		if err != nil {
			return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("cannot read config file %q", path), ErrConfiguration)
		}
		s := f.Section("CONFIG")

		cfg.KeywordsList = s.Key("keywords_list").MustString(cfg.KeywordsList)
		cfg.PDFDir = s.Key("pdf_dir").MustString(cfg.PDFDir)
		cfg.OutputPath = s.Key("output_path").MustString(cfg.OutputPath)

		datePattern = stripQuotes(s.Key("regex_date").MustString(datePattern))
		companyPattern = stripQuotes(s.Key("regex_company").MustString(companyPattern))

		cfg.AI.Provider = s.Key("ai_provider").MustString(cfg.AI.Provider)
		cfg.AI.Model = s.Key("ai_model").MustString(cfg.AI.Model)
		cfg.AI.BaseURL = s.Key("base_url").MustString(cfg.AI.BaseURL)
		cfg.AI.MaxTokens = s.Key("max_tokens").MustInt(cfg.AI.MaxTokens)

		cfg.Rename = parseBool(s.Key("rename").MustString(s.Key("renamefiles").MustString("0")))
		cfg.Verbose = parseBool(s.Key("verbose").MustString("0"))
		cfg.KeepMarkdown = parseBool(s.Key("keep_markdown").MustString("0"))
		cfg.ConvertMD = parseBool(s.Key("convert_md").MustString("0"))
		cfg.FullAnalysis = parseBool(s.Key("full_analysis").MustString("0"))
		cfg.IncludeSummary = parseBool(s.Key("include_summary").MustString("1"))
		cfg.ContextChars = s.Key("context_chars").MustInt(cfg.ContextChars)
	}

	cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	if v := os.Getenv("MAX_TOKENS"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &cfg.AI.MaxTokens); err != nil {
			return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("invalid MAX_TOKENS %q", v), ErrConfiguration)
		}
	}

	applyOverrides(cfg, ov)

	var err error
	cfg.DateRegex, err = regexp.Compile("(?i)" + datePattern)
	if err != nil {
		return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("invalid regex_date %q", datePattern), ErrConfiguration)
	}
	cfg.CompanyRegex, err = regexp.Compile("(?i)" + companyPattern)
	if err != nil {
		return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("invalid regex_company %q", companyPattern), ErrConfiguration)
	}

	return cfg, nil
}

func applyOverrides(cfg *Config, ov Overrides) {
	if ov.KeywordsList != nil && *ov.KeywordsList != "" {
		cfg.KeywordsList = *ov.KeywordsList
	}
	if ov.PDFDir != nil && *ov.PDFDir != "" {
		cfg.PDFDir = *ov.PDFDir
	}
	if ov.OutputPath != nil && *ov.OutputPath != "" {
		cfg.OutputPath = *ov.OutputPath
	}
	if ov.Provider != nil && *ov.Provider != "" {
		cfg.AI.Provider = *ov.Provider
	}
	if ov.Model != nil && *ov.Model != "" {
		cfg.AI.Model = *ov.Model
	}
	if ov.Rename != nil {
		cfg.Rename = cfg.Rename || *ov.Rename
	}
	if ov.Verbose != nil {
		cfg.Verbose = cfg.Verbose || *ov.Verbose
	}
	if ov.IncludeSum != nil {
		cfg.IncludeSummary = *ov.IncludeSum
	}
	if ov.ContextChars != nil {
		cfg.ContextChars = *ov.ContextChars
	}
}

// Validate checks the loaded configuration. Violations are fatal and
// abort the run before any document is processed.
func (c *Config) Validate() error {
	if c.PDFDir == "" {
		return NewAppError("CONFIG_ERROR", "pdf_dir is required", ErrConfiguration)
	}
	if st, err := os.Stat(c.PDFDir); err != nil || !st.IsDir() {
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("pdf_dir %q is not a directory", c.PDFDir), ErrConfiguration)
	}
	if c.KeywordsList == "" {
		return NewAppError("CONFIG_ERROR", "keywords_list is required", ErrConfiguration)
	}
	if st, err := os.Stat(c.KeywordsList); err != nil || st.IsDir() {
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("keywords file %q not found", c.KeywordsList), ErrConfiguration)
	}
	if c.ContextChars < 0 {
		return NewAppError("CONFIG_ERROR", "context_chars must be a non-negative integer", ErrConfiguration)
	}
	switch c.AI.Provider {
	case ProviderOpenAI, ProviderLocal:
	default:
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("unsupported ai_provider %q", c.AI.Provider), ErrConfiguration)
	}
	if c.AI.Provider == ProviderLocal && c.AI.Model == "" {
		return NewAppError("CONFIG_ERROR", "ai_model is required for the local provider", ErrConfiguration)
	}
	if c.AI.MaxTokens <= 0 {
		return NewAppError("CONFIG_ERROR", "max_tokens must be positive", ErrConfiguration)
	}
	return nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true":
		return true
	}
	return false
}

func stripQuotes(v string) string {
	return strings.Trim(v, `"`)
}
