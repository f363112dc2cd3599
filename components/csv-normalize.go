package components

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"sync/atomic"

	"github.com/relloyd/airpipe/file"
	"github.com/relloyd/airpipe/logger"
	s "github.com/relloyd/airpipe/stats"
)

type CsvNormalizeConfig struct {
	Log              logger.Logger
	Name             string
	Dates            []string       // snapshot dates formatted YYYY-MM-DD.
	Directory        string         // directory holding the raw files; processed files are written alongside.
	RawPattern       string         // input file name containing the ${date} token.
	ProcessedPattern string         // output file name containing the ${date} token.
	Columns          []string       // canonical column order expected by the destination table.
	NullToken        string         // written in place of empty input fields.
	StepWatcher      *s.StepWatcher // optional ptr to object that can gather step stats.
}

// RunCsvNormalize rewrites each raw snapshot file into the canonical encoding that
// the bulk loader expects: the canonical column order, empty fields replaced by the
// null token, minimal quoting and LF line endings. Values are otherwise passed
// through unmodified. Columns not in the canonical list are dropped; a canonical
// column missing from a raw file is an error.
// A missing raw file is also an error - snapshots skipped by the downloader surface here.
// It returns the full paths of the processed files written.
func RunCsvNormalize(cfg *CsvNormalizeConfig) ([]string, error) {
	cfg.Log.Info(cfg.Name, " is running")
	rowCount := int64(0)
	if cfg.StepWatcher != nil { // if we have been given a stepWatcher struct that can watch our rowCount...
		cfg.StepWatcher.StartWatching(&rowCount)
		defer cfg.StepWatcher.StopWatching()
	}
	files := make([]string, 0, len(cfg.Dates))
	for _, date := range cfg.Dates { // for each snapshot date...
		rawName := path.Join(cfg.Directory, strings.Replace(cfg.RawPattern, "${date}", date, -1))
		processedName := strings.Replace(cfg.ProcessedPattern, "${date}", date, -1)
		f, err := normalizeFile(cfg, rawName, processedName, &rowCount)
		if err != nil {
			return files, err
		}
		files = append(files, f)
	}
	cfg.Log.Info(cfg.Name, " complete")
	return files, nil
}

// normalizeFile rewrites one raw file to its processed equivalent.
func normalizeFile(cfg *CsvNormalizeConfig, rawName string, processedName string, rowCount *int64) (string, error) {
	f, err := os.Open(rawName)
	if err != nil {
		return "", fmt.Errorf("unable to open file %q: %v", rawName, err)
	}
	defer func() {
		_ = f.Close()
	}()
	r := csv.NewReader(f)
	// Read the raw header and find each canonical column in it.
	header, err := r.Read()
	if err != nil {
		return "", fmt.Errorf("unable to read CSV header from file %q: %v", rawName, err)
	}
	colIdx := make([]int, len(cfg.Columns))
	for idx, col := range cfg.Columns { // for each canonical column...
		found := -1
		for rawIdx, rawCol := range header {
			if rawCol == col {
				found = rawIdx
				break
			}
		}
		if found < 0 { // if the raw file does not supply this column...
			return "", fmt.Errorf("column %q not found in file %q", col, rawName)
		}
		colIdx[idx] = found
	}
	// Rewrite the rows in canonical order.
	w := file.NewCSVFileWriter(cfg.Log, cfg.Directory, processedName)
	defer w.Cleanup()
	w.SetHeader(cfg.Columns)
	w.MustCreateFile() // zero-row snapshots still produce a header-only file for the loader.
	record := make([]string, len(cfg.Columns))
	for {
		rawRecord, err := r.Read()
		if err == io.EOF { // if we have consumed the raw file...
			break
		}
		if err != nil {
			return "", fmt.Errorf("unable to read CSV record from file %q: %v", rawName, err)
		}
		for idx := range cfg.Columns {
			value := rawRecord[colIdx[idx]]
			if value == "" { // if the field is empty...
				value = cfg.NullToken
			}
			record[idx] = value
		}
		w.MustWriteToCSV(record)
		atomic.AddInt64(rowCount, 1) // increment the row count bearing in mind someone else is reporting on its values.
	}
	cfg.Log.Info(cfg.Name, " normalized '", rawName, "' to '", w.Name(), "'")
	return w.Name(), nil
}
