package actions

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/ghodss/yaml"
	"github.com/relloyd/airpipe/constants"
	"github.com/relloyd/airpipe/helper"
	"github.com/relloyd/airpipe/logger"
	"github.com/relloyd/airpipe/pipeline"
	"golang.org/x/net/context"
)

// mustReplaceInStringUsingMapKeyVals will replace in string s (by reference)
// the old and new values found in the map, where:
// the map key is the old value; and
// the map value is the replacement/new value.
func mustReplaceInStringUsingMapKeyVals(s *string, m map[string]string) {
	replacements := make([]string, 0)
	for k, v := range m { // for each key-value (old, new values)...
		replacements = append(replacements, k, v) // save them
	}
	r := strings.NewReplacer(replacements...)
	*s = r.Replace(*s)
}

// parseSnapshotDates validates a CSV of snapshot dates, each formatted per
// constants.TimeFormatDate, and returns them as a slice.
func parseSnapshotDates(datesCsv string) ([]string, error) {
	dates := helper.CsvToStringSliceTrimSpaces(datesCsv)
	if len(dates) == 0 {
		return nil, fmt.Errorf("supply one or more snapshot dates")
	}
	for _, d := range dates { // for each supplied date...
		if _, err := time.Parse(constants.TimeFormatDate, d); err != nil {
			return nil, fmt.Errorf("bad snapshot date %q: expected format %v", d, constants.TimeFormatDate)
		}
	}
	return dates, nil
}

// getRunDateString returns today's date for use as the pipeline run date.
func getRunDateString() string {
	return time.Now().Format(constants.TimeFormatDate)
}

// resolveRunDate validates an override of the pipeline run date and defaults it
// to today when absent.
func resolveRunDate(runDate string) (string, error) {
	if runDate == "" {
		return getRunDateString(), nil
	}
	if _, err := time.Parse(constants.TimeFormatDate, runDate); err != nil {
		return "", fmt.Errorf("bad run date %q: expected format %v", runDate, constants.TimeFormatDate)
	}
	return runDate, nil
}

// getProcessedFileNames expands the processed-file pattern for each snapshot date
// producing the file names that the normalize step writes and the load step reads.
func getProcessedFileNames(directory string, pattern string, dates []string) []string {
	files := make([]string, 0, len(dates))
	for _, date := range dates { // for each snapshot date...
		files = append(files, path.Join(directory, strings.Replace(pattern, "${date}", date, -1)))
	}
	return files
}

// outputPipelinePlan prints the pipeline plan to STDOUT in the requested format.
func outputPipelinePlan(log logger.Logger, plan pipeline.Plan, yamlOrJson string) error {
	if yamlOrJson == "yaml" {
		writePlanConfig(log, plan, os.Stdout, true)
	} else if yamlOrJson == "json" {
		writePlanConfig(log, plan, os.Stdout, false)
	} else {
		return fmt.Errorf("unsupported output format %q", yamlOrJson)
	}
	return nil
}

func writePlanConfig(log logger.Logger, plan pipeline.Plan, f io.Writer, useYaml bool) {
	var err error
	var data []byte
	if useYaml {
		data, err = yaml.Marshal(plan)
	} else {
		data, err = json.MarshalIndent(plan, "", "  ")
	}
	if err != nil {
		log.Panic("unable to marshal the pipeline plan: ", err)
	}
	_, err = f.Write(data)
	if err != nil {
		log.Panic(err)
	}
}

// launchPipeline runs p to completion with an interrupt handler attached.
// CTRL-C and SIGTERM cancel the running step at its next context check. When the
// pipeline fails and stdout is an interactive terminal the handler exits the
// process directly, otherwise the error is returned for the caller to report.
func launchPipeline(log logger.Logger, p *pipeline.Pipeline, s pipeline.StatsManager) error {
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()
	pc := pipeline.NewPipelineCloser()
	cleanupHandler := pipeline.GetCleanupHandlerWithCloserFunc(log, p.Guid(), pc)
	chanHandlerDone := make(chan struct{})
	go func() { // listen for quit signals...
		cleanupHandler(log, p, s, cancelFunc)
		close(chanHandlerDone)
	}()
	err := p.Run(ctx)
	pc.Close(err)     // release the cleanup handler.
	<-chanHandlerDone // wait so a failure is reported exactly once.
	return err
}
