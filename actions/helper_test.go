package actions

import (
	"path"
	"strings"
	"testing"
	"time"

	"github.com/relloyd/airpipe/constants"
)

func TestParseSnapshotDates(t *testing.T) {
	// Test 1 - a single date parses.
	d, err := parseSnapshotDates("2026-01-02")
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}
	if len(d) != 1 || d[0] != "2026-01-02" {
		t.Fatalf("expected [2026-01-02]; got %v", d)
	}
	// Test 2 - multiple dates with surrounding spaces are trimmed.
	d, err = parseSnapshotDates("2026-01-02, 2026-01-03 ,2026-01-04")
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}
	expected := []string{"2026-01-02", "2026-01-03", "2026-01-04"}
	if len(d) != len(expected) {
		t.Fatalf("expected %v dates; got %v", len(expected), len(d))
	}
	for idx := range expected {
		if d[idx] != expected[idx] {
			t.Fatalf("expected %v; got %v", expected[idx], d[idx])
		}
	}
	// Test 3 - a badly formatted date produces an error.
	_, err = parseSnapshotDates("02-01-2026")
	if err == nil {
		t.Fatal("expected an error for a bad date format")
	}
	if !strings.Contains(err.Error(), "bad snapshot date") {
		t.Fatalf("unexpected error text: %v", err)
	}
	// Test 4 - one bad date in a CSV of good ones still fails.
	_, err = parseSnapshotDates("2026-01-02,garbage")
	if err == nil {
		t.Fatal("expected an error for a bad date in the CSV")
	}
}

func TestGetProcessedFileNames(t *testing.T) {
	// Test 1 - the date token is expanded per date preserving order.
	files := getProcessedFileNames("/tmp/airpipe", "listings_${date}_processed.csv", []string{"2026-01-02", "2026-01-03"})
	expected := []string{
		path.Join("/tmp/airpipe", "listings_2026-01-02_processed.csv"),
		path.Join("/tmp/airpipe", "listings_2026-01-03_processed.csv"),
	}
	if len(files) != len(expected) {
		t.Fatalf("expected %v files; got %v", len(expected), len(files))
	}
	for idx := range expected {
		if files[idx] != expected[idx] {
			t.Fatalf("expected %v; got %v", expected[idx], files[idx])
		}
	}
	// Test 2 - a pattern without the token yields the same name per date.
	files = getProcessedFileNames("data", "fixed.csv", []string{"2026-01-02"})
	if files[0] != path.Join("data", "fixed.csv") {
		t.Fatalf("expected %v; got %v", path.Join("data", "fixed.csv"), files[0])
	}
}

func TestResolveRunDate(t *testing.T) {
	// Test 1 - an explicit run date passes through unchanged.
	d, err := resolveRunDate("2026-01-02")
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}
	if d != "2026-01-02" {
		t.Fatalf("expected 2026-01-02; got %v", d)
	}
	// Test 2 - an empty run date defaults to today.
	d, err = resolveRunDate("")
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}
	if _, err := time.Parse(constants.TimeFormatDate, d); err != nil {
		t.Fatalf("expected a date formatted per %v; got %v", constants.TimeFormatDate, d)
	}
	// Test 3 - a badly formatted run date produces an error.
	_, err = resolveRunDate("02 Jan 2026")
	if err == nil {
		t.Fatal("expected an error for a bad run date format")
	}
	if !strings.Contains(err.Error(), "bad run date") {
		t.Fatalf("unexpected error text: %v", err)
	}
}

func TestMustReplaceInStringUsingMapKeyVals(t *testing.T) {
	// Test 1 - the default export key template resolves its date token.
	s := constants.DefaultExportKeyTemplate
	mustReplaceInStringUsingMapKeyVals(&s, map[string]string{"${ds}": "2026-01-02"})
	if strings.Contains(s, "${ds}") {
		t.Fatalf("expected the date token to be replaced; got %v", s)
	}
	if !strings.Contains(s, "2026-01-02") {
		t.Fatalf("expected the run date in the key name; got %v", s)
	}
	// Test 2 - strings without tokens are left alone.
	s = "airbnb-test/fixed.csv"
	mustReplaceInStringUsingMapKeyVals(&s, map[string]string{"${ds}": "2026-01-02"})
	if s != "airbnb-test/fixed.csv" {
		t.Fatalf("expected airbnb-test/fixed.csv; got %v", s)
	}
}

func TestConnectionObjectSplit(t *testing.T) {
	// Test 1 - a bare connection name has no object.
	c := ConnectionObject{ConnectionObject: "mydb"}
	if c.GetConnectionName() != "mydb" {
		t.Fatalf("expected mydb; got %v", c.GetConnectionName())
	}
	if c.GetObject() != "" {
		t.Fatalf("expected empty object; got %v", c.GetObject())
	}
	// Test 2 - connection plus object splits on the first period.
	c = ConnectionObject{ConnectionObject: "mydb.listings"}
	if c.GetConnectionName() != "mydb" {
		t.Fatalf("expected mydb; got %v", c.GetConnectionName())
	}
	if c.GetObject() != "listings" {
		t.Fatalf("expected listings; got %v", c.GetObject())
	}
	// Test 3 - the object keeps further periods so it can carry a schema.
	c = ConnectionObject{ConnectionObject: "mydb.public.listings"}
	if c.GetConnectionName() != "mydb" {
		t.Fatalf("expected mydb; got %v", c.GetConnectionName())
	}
	if c.GetObject() != "public.listings" {
		t.Fatalf("expected public.listings; got %v", c.GetObject())
	}
}
