package components

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/relloyd/airpipe/logger"
	"golang.org/x/net/context"
)

func TestRunHttpDownload(t *testing.T) {
	log := logger.NewLogger("airpipe", "info", true)
	csvBody := "id,name\n1,alpha\n"
	// Serve one good snapshot; every other date is missing upstream.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "2025-11-07") {
			_, _ = w.Write([]byte(csvBody))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()
	dir, err := ioutil.TempDir("", "download-test-")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()
	cfg := &HttpDownloadConfig{
		Log:             log,
		Name:            "Test HttpDownload",
		UrlTemplate:     srv.URL + "/${date}/listings.csv",
		Dates:           []string{"2025-11-07", "2025-10-05"},
		OutputDirectory: dir,
		FilePattern:     "listing-${date}.csv",
	}
	// Test 1 - a missing upstream date is skipped and the remaining snapshot still downloads.
	files, err := RunHttpDownload(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file; got %v", len(files))
	}
	expectedName := path.Join(dir, "listing-2025-11-07.csv")
	if files[0] != expectedName {
		t.Fatalf("expected %v; got %v", expectedName, files[0])
	}
	b, err := ioutil.ReadFile(expectedName)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != csvBody {
		t.Fatalf("expected %q; got %q", csvBody, string(b))
	}
	// Test 2 - the skipped date produced no file at all.
	if _, err := os.Stat(path.Join(dir, "listing-2025-10-05.csv")); err == nil {
		t.Fatal("expected no file for the skipped date")
	}
	// Test 3 - a cancelled context stops the downloader with an error.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := RunHttpDownload(ctx, cfg); err == nil {
		t.Fatal("expected an error after context cancellation")
	}
}
