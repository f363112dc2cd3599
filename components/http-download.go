package components

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"sync/atomic"

	"github.com/relloyd/airpipe/logger"
	s "github.com/relloyd/airpipe/stats"
	"golang.org/x/net/context"
)

type HttpDownloadConfig struct {
	Log             logger.Logger
	Name            string
	UrlTemplate     string   // source URL containing the ${date} token.
	Dates           []string // snapshot dates formatted YYYY-MM-DD.
	OutputDirectory string   // created if missing.
	FilePattern     string   // output file name containing the ${date} token.
	Client          *http.Client
	StepWatcher     *s.StepWatcher // optional ptr to object that can gather step stats.
}

// RunHttpDownload fetches one snapshot file per date over HTTP into the output directory.
// Transport errors and non-200 responses are logged and the date is skipped so the
// remaining snapshots still download; a skipped date produces no file at all.
// Local file errors are not skippable and fail the step.
// It returns the full paths of the files written.
func RunHttpDownload(ctx context.Context, cfg *HttpDownloadConfig) ([]string, error) {
	cfg.Log.Info(cfg.Name, " is running")
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	rowCount := int64(0)
	if cfg.StepWatcher != nil { // if we have been given a stepWatcher struct that can watch our file count...
		cfg.StepWatcher.StartWatching(&rowCount)
		defer cfg.StepWatcher.StopWatching()
	}
	if err := os.MkdirAll(cfg.OutputDirectory, 0700); err != nil {
		return nil, fmt.Errorf("unable to create output directory %q: %v", cfg.OutputDirectory, err)
	}
	files := make([]string, 0, len(cfg.Dates))
	for _, date := range cfg.Dates { // for each snapshot date...
		select { // quit if asked to, else continue...
		case <-ctx.Done():
			return files, ctx.Err()
		default:
		}
		url := strings.Replace(cfg.UrlTemplate, "${date}", date, -1)
		fileName := path.Join(cfg.OutputDirectory, strings.Replace(cfg.FilePattern, "${date}", date, -1))
		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return files, fmt.Errorf("unable to build request for URL %q: %v", url, err)
		}
		resp, err := client.Do(req.WithContext(ctx))
		if err != nil { // if the download failed...
			cfg.Log.Error(cfg.Name, " failed to download ", url, ": ", err)
			continue // later snapshots may still be available.
		}
		if resp.StatusCode != http.StatusOK { // if the server would not serve the file...
			_ = resp.Body.Close()
			cfg.Log.Error(cfg.Name, " failed to download ", url, ": response status ", resp.StatusCode)
			continue
		}
		f, err := os.Create(fileName)
		if err != nil {
			_ = resp.Body.Close()
			return files, fmt.Errorf("unable to create file %q: %v", fileName, err)
		}
		_, err = io.Copy(f, resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			_ = f.Close()
			return files, fmt.Errorf("unable to write file %q: %v", fileName, err)
		}
		if err := f.Close(); err != nil {
			return files, fmt.Errorf("unable to close file %q: %v", fileName, err)
		}
		cfg.Log.Info(cfg.Name, " downloaded ", url, " to '", fileName, "'")
		files = append(files, fileName)
		atomic.AddInt64(&rowCount, 1) // increment the file count bearing in mind someone else is reporting on its values.
	}
	cfg.Log.Info(cfg.Name, " complete")
	return files, nil
}
