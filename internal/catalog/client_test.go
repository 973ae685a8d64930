package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"wallgrab/internal/config"
	"wallgrab/internal/domain"
	"wallgrab/internal/log"
)

const searchBody = `{
	"data": [
		{"id": "abc123", "resolution": "1920x1080", "path": "https://example/full/abc123.jpg", "category": "general", "purity": "sfw"},
		{"id": "def456", "resolution": "3840x2160", "path": "https://example/full/def456.png", "category": "anime", "purity": "sfw"},
		{"id": "nopath", "resolution": "1024x768", "path": ""}
	],
	"meta": {"current_page": 2, "last_page": 9, "per_page": 24, "total": 216}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.Source.BaseURL = srv.URL
	return NewClient(cfg, "mountains", log.NullLogger())
}

func TestClient_FetchPage(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"q":          r.URL.Query().Get("q"),
			"page":       r.URL.Query().Get("page"),
			"categories": r.URL.Query().Get("categories"),
			"purity":     r.URL.Query().Get("purity"),
		}
		w.Write([]byte(searchBody))
	})

	page, err := client.FetchPage(context.Background(), 2)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}

	if gotQuery["q"] != "mountains" || gotQuery["page"] != "2" {
		t.Errorf("query = %v", gotQuery)
	}
	if gotQuery["categories"] != "111" {
		t.Errorf("categories = %q, want 111 for the default list", gotQuery["categories"])
	}
	if gotQuery["purity"] != "100" {
		t.Errorf("purity = %q, want 100 for sfw default", gotQuery["purity"])
	}

	// Record without a path is dropped, not surfaced half-empty
	if len(page.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(page.Records))
	}
	want := domain.ImageRecord{ID: "abc123", Resolution: "1920x1080", SourceURL: "https://example/full/abc123.jpg"}
	if page.Records[0] != want {
		t.Errorf("Records[0] = %+v, want %+v", page.Records[0], want)
	}
	if page.Number != 2 || page.LastPage != 9 {
		t.Errorf("Number/LastPage = %d/%d, want 2/9", page.Number, page.LastPage)
	}
}

func TestClient_RemoteError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	})

	_, err := client.FetchPage(context.Background(), 1)
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestClient_TransportError(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Source.BaseURL = "http://127.0.0.1:1" // Nothing listens here
	client := NewClient(cfg, "", log.NullLogger())

	_, err := client.FetchPage(context.Background(), 1)
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestEncodeFlags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		fn   func(string) string
		want string
	}{
		{"full category names", "general,anime,people", encodeCategories, "111"},
		{"single category", "anime", encodeCategories, "010"},
		{"partial name resolves", "anim", encodeCategories, "010"},
		{"unknown falls back to all", "zzzz", encodeCategories, "111"},
		{"empty falls back to all", "", encodeCategories, "111"},
		{"sfw only", "sfw", encodePurity, "100"},
		{"sketchy partial", "sketch", encodePurity, "010"},
		{"purity fallback is sfw", "", encodePurity, "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
