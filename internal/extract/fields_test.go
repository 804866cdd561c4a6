package extract

import (
	"regexp"
	"testing"
)

var (
	testDateRe    = regexp.MustCompile(`(?i)\n[\p{L}\s]+, (\d{1,2}) de (\p{L}+) de (\d{4})\.`)
	testCompanyRe = regexp.MustCompile(`(?i)COMUNICADO AO MERCADO\s*(.+)`)
)

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "portuguese month",
			text: "cabeçalho\nSão Paulo, 1 de janeiro de 2024.\nresto",
			want: "20240101",
		},
		{
			name: "portuguese month with cedilla",
			text: "x\nRio de Janeiro, 15 de março de 2023.",
			want: "20230315",
		},
		{
			name: "uppercase month name",
			text: "x\nCidade, 9 de DEZEMBRO de 2022.",
			want: "20221209",
		},
		{
			name: "english month",
			text: "x\nNew York, 31 de December de 2021.",
			want: "20211231",
		},
		{
			name: "two digit day stays two digits",
			text: "x\nCidade, 28 de junho de 2024.",
			want: "20240628",
		},
		{
			name: "no match yields sentinel",
			text: "nothing dated here",
			want: UnknownDate,
		},
		{
			name: "unknown month name yields sentinel",
			text: "x\nCidade, 5 de brumário de 2024.",
			want: UnknownDate,
		},
		{
			name: "first match wins",
			text: "x\nCidade, 2 de abril de 2020.\ny\nCidade, 3 de maio de 2021.",
			want: "20200402",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDate(tt.text, testDateRe); got != tt.want {
				t.Errorf("ExtractDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractCompany(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "simple capture with spaces underscored",
			text: "COMUNICADO AO MERCADO Empresa Teste S.A.",
			want: "Empresa_Teste_S.A.",
		},
		{
			name: "truncated at parenthesis",
			text: "COMUNICADO AO MERCADO Empresa Teste S.A. (B3: TEST3)",
			want: "Empresa_Teste_S.A.",
		},
		{
			name: "case insensitive marker",
			text: "Comunicado ao Mercado Acme Ltda",
			want: "Acme_Ltda",
		},
		{
			name: "no match yields sentinel",
			text: "FATO RELEVANTE Empresa X",
			want: UnknownCompany,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractCompany(tt.text, testCompanyRe); got != tt.want {
				t.Errorf("ExtractCompany() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeCompany(t *testing.T) {
	if got := NormalizeCompany("Empresa Teste S.A. (B3: TEST3)"); got != "Empresa_Teste_S.A." {
		t.Errorf("NormalizeCompany() = %q", got)
	}
	if got := NormalizeCompany("  Acme  "); got != "Acme" {
		t.Errorf("NormalizeCompany() = %q", got)
	}
	if got := NormalizeCompany(UnknownCompany); got != UnknownCompany {
		t.Errorf("sentinel must pass through, got %q", got)
	}
}

func TestNormalizeDateDigits(t *testing.T) {
	tests := []struct{ in, want string }{
		{"2024-01-01", "20240101"},
		{"20240101", "20240101"},
		{"2024/06/28", "20240628"},
		{"", UnknownDate},
		{"January 2024", UnknownDate},
		{"2024-01", UnknownDate},
	}
	for _, tt := range tests {
		if got := NormalizeDateDigits(tt.in); got != tt.want {
			t.Errorf("NormalizeDateDigits(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFindCompanyAndDate(t *testing.T) {
	text := "COMUNICADO AO MERCADO Empresa Teste S.A.\nSão Paulo, 1 de janeiro de 2024.\ncorpo"
	company, date := FindCompanyAndDate(text, testCompanyRe, testDateRe)
	if company != "Empresa_Teste_S.A." {
		t.Errorf("company = %q", company)
	}
	if date != "20240101" {
		t.Errorf("date = %q", date)
	}
}
