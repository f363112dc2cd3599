package file

import (
	"encoding/csv"
	"io/ioutil"
	"os"
	"path"

	"github.com/relloyd/airpipe/logger"
)

// CSVFileWriter is a Writer that outputs records to a single named CSV file.
type CSVFileWriter struct {
	csvWriter         *csv.Writer
	log               logger.Logger
	directory         string // set to empty string if you want to use OS temp space with system generated directory
	fileName          string
	headerRecord      []string
	currentName       string
	file              *os.File
	totalRowCount     int
	currentBytesCount int
	needNewCSVFile    bool
	needFileCleanup   bool
	needCSVCleanup    bool
	needHeaderRow     bool
}

// NewCSVFileWriter creates a new CSV file struct that writes to fileName in outputDirectory.
// Supply a valid directory or empty string to use default ioutil.TempDir().
// The file is created lazily upon the first write.
func NewCSVFileWriter(log logger.Logger, outputDirectory string, fileName string) CSVFileWriter {
	f := CSVFileWriter{}
	f.log = log
	// Create output directory using temp space if needed.
	if outputDirectory == "" {
		var err error
		f.directory, err = ioutil.TempDir("", "csv-output-")
		if err != nil {
			log.Panic("Error creating temp directory for CSV files.")
		}
	} else {
		f.directory = outputDirectory
	}
	// Save variables from input.
	f.fileName = fileName
	// Set defaults.
	f.headerRecord = nil
	f.totalRowCount = 0
	f.currentBytesCount = 0
	f.needNewCSVFile = true
	f.needHeaderRow = true
	f.needFileCleanup = false
	f.needCSVCleanup = false
	// Debug
	log.Debug("CSVFileWriter directory=", f.directory, "; fileName=", f.fileName)
	// Return new CSV file instance.
	return f
}

// Write uses os.File.Write to write to the file so this struct still implements the core io.Writer interface.
// Maintains a counter of the number of bytes written to the CSV file.
func (f *CSVFileWriter) Write(p []byte) (n int, err error) {
	f.log.Trace("Writing bytes...")
	n, err = f.file.Write(p)
	f.currentBytesCount += n
	f.log.Trace("currentBytesCount = ", f.currentBytesCount)
	return n, err
}

// SetHeader will store the supplied record for output at the top of the created CSV file.
func (f *CSVFileWriter) SetHeader(record []string) {
	f.headerRecord = record
}

// MustCreateFile forces creation of the output file and its header row without
// waiting for the first record, so zero-row inputs still produce a valid
// header-only file. Writes are lazy otherwise.
func (f *CSVFileWriter) MustCreateFile() {
	if f.needNewCSVFile {
		f.createNewCSVWriter()
		// Write new header row if required.
		if f.needHeaderRow && f.headerRecord != nil {
			f.log.Trace("Writing file header: ", f.headerRecord)
			err := f.csvWriter.Write(f.headerRecord)
			if err != nil {
				f.log.Panic("Unable to write header to CSV file.")
			}
		}
	}
}

// MustWriteToCSV writes record to the CSV file.
// Return fileName if a new file is created else empty string "".
func (f *CSVFileWriter) MustWriteToCSV(record []string) (fileName string) {
	f.log.Trace("Writing record...", record)

	if f.needNewCSVFile {
		f.MustCreateFile()
		fileName = f.file.Name()
	}

	err := f.csvWriter.Write(record)
	if err != nil {
		f.log.Panic("Unable to write to CSV file.")
	}
	f.totalRowCount++
	return
}

// Name returns the full path of the output file.
func (f *CSVFileWriter) Name() string {
	if f.currentName == "" {
		f.currentName = path.Join(f.directory, f.fileName)
	}
	return f.currentName
}

// TotalRowCount returns the number of data records written, excluding the header.
func (f *CSVFileWriter) TotalRowCount() int {
	return f.totalRowCount
}

// Cleanup can be deferred by the caller to flush the CSV Writer and close the OS file.
func (f *CSVFileWriter) Cleanup() {
	if f.needCSVCleanup {
		f.csvWriter.Flush()
		f.needCSVCleanup = false
	}
	if f.needFileCleanup {
		if err := f.file.Close(); err != nil { // if the file didn't close OK...
			f.log.Panic("unable to close OS file: ", f.currentName, "; ", err)
		}
		f.needFileCleanup = false
	}
	f.needNewCSVFile = true
}

func (f *CSVFileWriter) createNewCSVWriter() {
	f.log.Info("Creating new CSV file '", f.Name(), "'")
	// Create new OS file.
	var err error
	f.file, err = os.Create(f.Name())
	if err != nil {
		f.log.Panic("Unable to create OS file with name: ", f.currentName)
	}
	f.needFileCleanup = true
	// Create new CSV writer.
	f.csvWriter = csv.NewWriter(f)
	f.needCSVCleanup = true
	f.needHeaderRow = true
	f.needNewCSVFile = false
}
