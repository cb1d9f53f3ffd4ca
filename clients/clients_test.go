package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/emzola/locallibrary/config"
)

func testConfig() config.Config {
	var cfg config.Config
	cfg.OpenLibrary.Timeout = 5 * time.Second
	cfg.OpenLibrary.UserAgent = "locallibrary-test"
	return cfg
}

func TestHTTPClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) { http.Redirect(w, r, "/b", http.StatusFound) })
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) { http.Redirect(w, r, "/c", http.StatusFound) })
	mux.HandleFunc("/c", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Seen-Agent", r.UserAgent())
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewHTTPClient(testConfig())

	t.Run("Follows one redirect", func(t *testing.T) {
		resp, err := client.Get(srv.URL + "/b")
		if err != nil {
			t.Fatalf("one redirect must be followed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200; got %d", resp.StatusCode)
		}
		if got := resp.Header.Get("X-Seen-Agent"); got != "locallibrary-test" {
			t.Errorf("expected user agent %q; got %q", "locallibrary-test", got)
		}
	})

	t.Run("Refuses a second redirect", func(t *testing.T) {
		if _, err := client.Get(srv.URL + "/a"); err == nil {
			t.Error("expected the second redirect to be refused")
		}
	})
}

func TestNewCoverUploaderWithoutBucket(t *testing.T) {
	uploader, err := NewCoverUploader(context.Background(), config.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if uploader != nil {
		t.Error("expected no uploader when no bucket is configured")
	}
}
