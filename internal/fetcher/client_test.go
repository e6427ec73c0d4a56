
package fetcher

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient() *Client {
	return NewClient(5*time.Second, 2*time.Second, 1024*1024, "test-agent/1.0")
}

func TestGetHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><title>x</title></html>"))
	}))
	defer ts.Close()

	resp, err := testClient().Get(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("get err: %v", err)
	}
	if resp.StatusCode != 200 || len(resp.Body) == 0 || resp.FinalURL == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.IsHTML() {
		t.Fatal("expected html content type")
	}
}

func TestGetDecodesGzip(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			t.Error("expected gzip accept-encoding")
		}
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte("<html>compressed</html>"))
		_ = gz.Close()
	}))
	defer ts.Close()

	resp, err := testClient().Get(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("get err: %v", err)
	}
	if string(resp.Body) != "<html>compressed</html>" {
		t.Fatalf("body not decoded: %q", resp.Body)
	}
}

func TestGetCapsBodySize(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(strings.Repeat("a", 4096)))
	}))
	defer ts.Close()

	client := NewClient(5*time.Second, 2*time.Second, 100, "test-agent/1.0")
	resp, err := client.Get(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("get err: %v", err)
	}
	if len(resp.Body) != 100 {
		t.Fatalf("want 100 bytes, got %d", len(resp.Body))
	}
}

func TestGetRejectsInvalidURL(t *testing.T) {
	if _, err := testClient().Get(context.Background(), "not a url"); err == nil {
		t.Fatal("expected error for invalid url")
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d := parseRetryAfter("3"); d != 3*time.Second {
		t.Fatalf("want 3s, got %v", d)
	}
	if d := parseRetryAfter(""); d != 0 {
		t.Fatalf("want 0, got %v", d)
	}
	if d := parseRetryAfter("garbage"); d != 0 {
		t.Fatalf("want 0 for garbage, got %v", d)
	}
}
