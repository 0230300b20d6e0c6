package adapters

import (
	"fmt"
	"io"
	"os"
	"sync"

	"jobportal-web/internal/logging/types"
)

// StdoutAdapter writes one line per entry to stdout, or to the writer given in its config
type StdoutAdapter struct {
	name      string
	format    string
	colorized bool
	out       io.Writer
	mu        sync.Mutex
}

// StdoutConfig represents configuration for the stdout adapter
type StdoutConfig struct {
	Format    string    `yaml:"format"`    // json or text
	Colorized bool      `yaml:"colorized"` // ANSI colours for text format
	Writer    io.Writer `yaml:"-"`
}

// NewStdoutAdapter creates a new stdout adapter
func NewStdoutAdapter(name string, config StdoutConfig) *StdoutAdapter {
	out := config.Writer
	if out == nil {
		out = os.Stdout
	}

	return &StdoutAdapter{
		name:      name,
		format:    config.Format,
		colorized: config.Colorized,
		out:       out,
	}
}

// Write writes a log entry
func (a *StdoutAdapter) Write(entry *types.LogEntry) error {
	output, err := formatEntry(entry, a.format, a.colorized)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	_, err = fmt.Fprintln(a.out, output)
	return err
}

func (a *StdoutAdapter) Close() error { return nil }

func (a *StdoutAdapter) Health() error { return nil }

func (a *StdoutAdapter) Name() string { return a.name }
