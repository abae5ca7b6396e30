package service

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/Anorak001/cide/domain"
)

// ProgressReporterImpl implements the ProgressReporter interface with a
// terminal progress bar. Non-interactive environments stay silent.
type ProgressReporterImpl struct {
	mu          sync.Mutex
	writer      io.Writer
	progressBar *progressbar.ProgressBar
	interactive bool
	maxValue    int
}

// NewProgressReporter creates a new progress reporter writing to stderr
func NewProgressReporter() domain.ProgressReporter {
	return &ProgressReporterImpl{
		writer:      os.Stderr,
		interactive: IsInteractiveEnvironment(),
	}
}

// NewSilentProgressReporter creates a reporter that never draws anything
func NewSilentProgressReporter() domain.ProgressReporter {
	return &ProgressReporterImpl{
		writer:      io.Discard,
		interactive: false,
	}
}

// IsInteractiveEnvironment reports whether stderr is attached to a terminal
func IsInteractiveEnvironment() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// Initialize sets up progress tracking with the maximum value
func (pr *ProgressReporterImpl) Initialize(maxValue int) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	pr.maxValue = maxValue
}

// Start starts the progress bar
func (pr *ProgressReporterImpl) Start() {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if pr.interactive && pr.progressBar == nil {
		pr.progressBar = pr.createProgressBar("Comparing", pr.maxValue)
	}
}

// Update updates the progress
func (pr *ProgressReporterImpl) Update(processed, total int) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if pr.progressBar == nil && pr.interactive {
		pr.progressBar = pr.createProgressBar("Comparing", total)
	}

	if pr.progressBar != nil {
		_ = pr.progressBar.Set(processed)
	}
}

// Complete marks the progress as completed
func (pr *ProgressReporterImpl) Complete(success bool) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if pr.progressBar != nil {
		_ = pr.progressBar.Finish()
	}
}

// SetWriter sets the output writer for progress display
func (pr *ProgressReporterImpl) SetWriter(writer io.Writer) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	pr.writer = writer

	if file, ok := writer.(*os.File); ok {
		pr.interactive = term.IsTerminal(int(file.Fd()))
	} else {
		pr.interactive = false
	}
}

// IsInteractive returns true if progress should be shown
func (pr *ProgressReporterImpl) IsInteractive() bool {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	return pr.interactive
}

// Close cleans up any resources
func (pr *ProgressReporterImpl) Close() {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if pr.progressBar != nil {
		_ = pr.progressBar.Finish()
	}
}

// createProgressBar creates a new progress bar with consistent styling
func (pr *ProgressReporterImpl) createProgressBar(description string, max int) *progressbar.ProgressBar {
	writer := pr.writer
	if writer == nil {
		writer = io.Discard
	}

	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionSetWriter(writer),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(writer)
		}),
	)
}
