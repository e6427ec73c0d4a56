
package ioformats

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadURLsCSV(t *testing.T) {
	path := writeTemp(t, "urls.csv", "name,url\nfirst,https://a.example/\nsecond,https://b.example/\n")
	urls, err := ReadURLs(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(urls) != 2 || urls[0] != "https://a.example/" {
		t.Fatalf("urls: %v", urls)
	}
}

func TestReadURLsCSVMissingColumn(t *testing.T) {
	path := writeTemp(t, "urls.csv", "name\nfirst\n")
	if _, err := ReadURLs(path); err == nil {
		t.Fatal("expected error for missing url column")
	}
}

func TestReadURLsNDJSON(t *testing.T) {
	path := writeTemp(t, "urls.ndjson", `{"url":"https://a.example/"}`+"\nhttps://b.example/\n")
	urls, err := ReadURLs(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(urls) != 2 || urls[1] != "https://b.example/" {
		t.Fatalf("urls: %v", urls)
	}
}

func TestReadURLsNormalizesAndDedups(t *testing.T) {
	path := writeTemp(t, "urls.csv", "url\n"+
		"https://a.example/page?utm_source=mail\n"+
		"https://A.example/page\n"+
		"ftp://a.example/skipped\n")
	urls, err := ReadURLs(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(urls) != 1 || urls[0] != "https://a.example/page" {
		t.Fatalf("want one canonical url, got %v", urls)
	}
}

func TestReadURLsRejectsAllInvalid(t *testing.T) {
	path := writeTemp(t, "urls.ndjson", "mailto:x@example.com\n/relative\n")
	if _, err := ReadURLs(path); err == nil {
		t.Fatal("expected error when no url survives normalization")
	}
}

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	type rec struct {
		URL string `json:"url"`
	}
	if err := WriteNDJSON(&buf, []rec{{URL: "https://a.example/"}, {URL: "https://b.example/"}}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "a.example") {
		t.Fatalf("output: %q", buf.String())
	}
}
