package browse

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		line string
		kind IntentKind
		url  string
	}{
		{"next page marker", "next page -->", IntentNextPage, ""},
		{"previous page marker", "<-- previous page", IntentPrevPage, ""},
		{"image line", "1234 1920x1080 (https://example/1234.jpg)", IntentDownload, "https://example/1234.jpg"},
		{"image line with unusual id", "ab-12 3840x2160 (https://example/w/ab-12.png)", IntentDownload, "https://example/w/ab-12.png"},
		{"garbage", "garbage", IntentNone, ""},
		{"empty line", "", IntentNone, ""},
		{"empty parens", "1234 1920x1080 ()", IntentNone, ""},
		{"parens not trailing", "(x) something after", IntentNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := Resolve(tt.line)
			if intent.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", intent.Kind, tt.kind)
			}
			if intent.URL != tt.url {
				t.Errorf("URL = %q, want %q", intent.URL, tt.url)
			}
			if intent.Raw != tt.line {
				t.Errorf("Raw = %q, want %q", intent.Raw, tt.line)
			}
		})
	}
}

func TestResolve_PaginationBeatsPatternMatch(t *testing.T) {
	// A pagination marker must resolve literally even though a record
	// line could look similar; the marker match runs first.
	intent := Resolve("next page -->")
	if intent.Kind != IntentNextPage {
		t.Fatalf("Kind = %v, want IntentNextPage", intent.Kind)
	}
}

func TestExtractURL(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"1234 1920x1080 (https://example/1234.jpg)", "https://example/1234.jpg"},
		{"no url here", ""},
		{"trailing paren only)", ""},
		{"(just-a-url)", "just-a-url"},
	}
	for _, tt := range tests {
		if got := ExtractURL(tt.line); got != tt.want {
			t.Errorf("ExtractURL(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}
