package pipeline

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/relloyd/airpipe/logger"
	"golang.org/x/net/context"
)

// CleanupHandlerDefault handles CTRL-C and SIGTERM.
// It cancels the pipeline context so the running step can stop at its next cancellation check.
func CleanupHandlerDefault(log logger.Logger, p PipelineManager, s StatsManager, cancelFunc context.CancelFunc) {
	guid := p.getPipelineGuid()
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	x := <-c                        // wait for interrupt.
	fmt.Println()                   // add new line char for clean CLI look n feel.
	log.Info("Caught ", x.String()) // log the interrupt.
	log.Info("Shutting down pipeline ", guid, "...")
	cancelFunc()    // stop the running step at its next context check.
	s.StopDumping() // turn off stats dumping.
	log.Info("Shutdown complete for pipeline ", guid)
}

// PipelineCloser carries the pipeline result to the cleanup handler.
type PipelineCloser struct {
	chanDone chan error
	once     sync.Once
}

func NewPipelineCloser() *PipelineCloser {
	return &PipelineCloser{chanDone: make(chan error, 1)}
}

// Close delivers the pipeline result exactly once and releases the cleanup handler.
func (pc *PipelineCloser) Close(err error) {
	pc.once.Do(func() {
		pc.chanDone <- err
		close(pc.chanDone)
	})
}

// GetCleanupHandlerWithCloserFunc returns a handler that waits for a CTRL-C etc
// and/or the pipeline result on pc. If the pipeline failed and stdout is an
// interactive terminal then it exits via log.Fatal; otherwise the caller is
// left to report the error it already holds.
func GetCleanupHandlerWithCloserFunc(log logger.Logger, pipelineGuid string, pc *PipelineCloser) CleanupHandlerFunc {
	return func(log logger.Logger, p PipelineManager, s StatsManager, cancelFunc context.CancelFunc) {
		var e error
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		select { // block until interrupt or pipeline completion...
		case x := <-c: // wait for interrupt...
			fmt.Println()                   // add return char for a clean CLI look n feel.
			log.Info("Caught ", x.String()) // log the interrupt.
			log.Info("Shutting down pipeline ", pipelineGuid, "...")
			cancelFunc()    // stop the running step at its next context check.
			s.StopDumping() // turn off stats output.
			log.Info("Shutdown complete for pipeline ", pipelineGuid)
		case e = <-pc.chanDone: // OR wait for the pipeline result (or channel closure)...
			// Continue to the final check below...
		}
		if e != nil && isatty.IsTerminal(os.Stdout.Fd()) { // if the pipeline failed AND the terminal is interactive...
			// Note that we could be running non-interactively as a scheduled task.
			log.Fatal(e) // exit(1) now; otherwise the caller reports the same error.
		}
	}
}
