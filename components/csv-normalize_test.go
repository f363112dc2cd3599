package components

import (
	"io/ioutil"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/relloyd/airpipe/logger"
)

func TestRunCsvNormalize(t *testing.T) {
	log := logger.NewLogger("airpipe", "info", true)
	dir, err := ioutil.TempDir("", "normalize-test-")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()
	// Raw snapshot with permuted column order, an extra column and an empty field.
	raw := "name,license,id,extra\n" +
		"alpha,,1,x\n" +
		"\"beta, the second\",L2,2,y\n"
	if err := ioutil.WriteFile(path.Join(dir, "listing-2025-11-07.csv"), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &CsvNormalizeConfig{
		Log:              log,
		Name:             "Test CsvNormalize",
		Dates:            []string{"2025-11-07"},
		Directory:        dir,
		RawPattern:       "listing-${date}.csv",
		ProcessedPattern: "listing-${date}-processed.csv",
		Columns:          []string{"id", "name", "license"},
		NullToken:        `\N`,
	}
	// Test 1 - canonical order, null token for empty fields, minimal quoting, extras dropped.
	files, err := RunCsvNormalize(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file; got %v", len(files))
	}
	expectedName := path.Join(dir, "listing-2025-11-07-processed.csv")
	if files[0] != expectedName {
		t.Fatalf("expected %v; got %v", expectedName, files[0])
	}
	b, err := ioutil.ReadFile(expectedName)
	if err != nil {
		t.Fatal(err)
	}
	expected := "id,name,license\n" +
		`1,alpha,\N` + "\n" +
		"2,\"beta, the second\",L2\n"
	if string(b) != expected {
		t.Fatalf("expected %q; got %q", expected, string(b))
	}

	// Test 2 - a header-only raw file still produces a header-only processed file.
	if err := ioutil.WriteFile(path.Join(dir, "listing-2025-10-05.csv"), []byte("id,name,license\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.Dates = []string{"2025-10-05"}
	files, err = RunCsvNormalize(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err = ioutil.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "id,name,license\n" {
		t.Fatalf("expected header-only file; got %q", string(b))
	}

	// Test 3 - a raw file missing a canonical column is an error.
	if err := ioutil.WriteFile(path.Join(dir, "listing-2025-09-06.csv"), []byte("id,name\n1,a\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.Dates = []string{"2025-09-06"}
	_, err = RunCsvNormalize(cfg)
	if err == nil {
		t.Fatal("expected an error for the missing canonical column")
	}
	if !strings.Contains(err.Error(), `column "license" not found`) {
		t.Fatalf("unexpected error: %v", err)
	}

	// Test 4 - a missing raw file is an error so download skips surface here.
	cfg.Dates = []string{"2025-08-04"}
	_, err = RunCsvNormalize(cfg)
	if err == nil {
		t.Fatal("expected an error for the missing raw file")
	}
}
