package file

import (
	"encoding/csv"
	"io/ioutil"
	"os"
	"strings"
	"testing"

	"github.com/relloyd/airpipe/logger"
)

var header = []string{"col1", "col2"}

var data = [][]string{
	{"Line1", "plain value"},
	{"Line2", "value, with comma"},
	{"Line3", `\N`}}

func TestNewCsvFileWriter(t *testing.T) {
	log := logger.NewLogger("csv test", "debug", true)

	// Test 1 - write header plus rows and read them back.
	log.Debug("Test 1 - starting...")
	w := NewCSVFileWriter(log, "", "listing-2020-04-13-processed.csv")
	w.SetHeader(header)
	var fileName string
	for _, value := range data {
		name := w.MustWriteToCSV(value)
		if name != "" {
			fileName = name
		}
	}
	w.Cleanup()
	log.Debug("Test 1 - finished writing CSV file")

	if fileName == "" {
		t.Fatal("expected a file name from the first write")
	}
	if !strings.HasSuffix(fileName, "listing-2020-04-13-processed.csv") {
		t.Fatalf("expected named output file; got %v", fileName)
	}
	if w.TotalRowCount() != 3 {
		t.Fatalf("expected 3 data rows written; got %v", w.TotalRowCount())
	}

	// Read back the file contents.
	f, err := os.Open(fileName)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	r, _ := csv.NewReader(f).ReadAll()
	if len(r) != 4 { // header + 3 rows
		t.Fatalf("expected 4 lines; got %v", len(r))
	}
	if r[0][0] != header[0] {
		t.Fatal("read bad header 0 ", r[0][0])
	}
	if r[1][1] != data[0][1] {
		t.Fatal("read bad record ", r[1][1])
	}
	if r[2][1] != data[1][1] {
		t.Fatal("read bad record ", r[2][1])
	}

	// Test 2 - minimal quoting: plain values and the null token stay bare; commas are quoted.
	b, err := ioutil.ReadFile(fileName)
	if err != nil {
		t.Fatal(err)
	}
	content := string(b)
	if !strings.Contains(content, `Line3,\N`) {
		t.Fatalf("expected unquoted null token; got %v", content)
	}
	if !strings.Contains(content, `"value, with comma"`) {
		t.Fatalf("expected quoted comma value; got %v", content)
	}
	if strings.Contains(content, `"plain value"`) {
		t.Fatalf("expected plain value to be unquoted; got %v", content)
	}
}

func TestCsvFileWriterHeaderOnly(t *testing.T) {
	log := logger.NewLogger("csv test", "debug", true)

	// Test 1 - forcing file creation with zero data rows produces a header-only file.
	w := NewCSVFileWriter(log, "", "empty.csv")
	w.SetHeader(header)
	w.MustCreateFile()
	w.Cleanup()
	if w.TotalRowCount() != 0 {
		t.Fatalf("expected 0 data rows written; got %v", w.TotalRowCount())
	}
	b, err := ioutil.ReadFile(w.Name())
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "col1,col2\n" {
		t.Fatalf("expected header-only file; got %q", string(b))
	}

	// Test 2 - a second forced create is a no-op while the file is open.
	w2 := NewCSVFileWriter(log, "", "once.csv")
	w2.SetHeader(header)
	w2.MustCreateFile()
	w2.MustCreateFile()
	w2.MustWriteToCSV([]string{"a", "b"})
	w2.Cleanup()
	b, err = ioutil.ReadFile(w2.Name())
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "col1,col2\na,b\n" {
		t.Fatalf("expected single header; got %q", string(b))
	}
}
