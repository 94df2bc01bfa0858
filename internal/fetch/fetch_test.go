package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDownloadYear(t *testing.T) {
	var gotYear, gotAll string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		gotYear = r.PostFormValue("DownloadFileName")
		gotAll = r.PostFormValue("All")
		w.Write([]byte("zip-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(srv.URL)
	path, err := d.DownloadYear(context.Background(), 2009, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotYear != "2009" || gotAll != "true" {
		t.Fatalf("unexpected form values %q / %q", gotYear, gotAll)
	}
	if path != filepath.Join(dir, "2009.zip") {
		t.Fatalf("unexpected path %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "zip-bytes" {
		t.Fatalf("unexpected body %q", data)
	}
}

func TestDownloadYearRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(srv.URL)
	if _, err := d.DownloadYear(context.Background(), 2010, dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDownloadYearGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(srv.URL)
	if _, err := d.DownloadYear(context.Background(), 1959, dir); err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Fatalf("failed download must not leave files, got %d", len(entries))
	}
}

func TestDownloadRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(srv.URL)
	paths, err := d.DownloadRange(context.Background(), 2008, 2010, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 archives, got %d", len(paths))
	}
}
