// Package printer handles output formatting and display
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
)

// Printer writes surfaced paths to the configured output destination. It
// is safe for concurrent use.
type Printer struct {
	mu             sync.Mutex
	output         io.Writer
	count          atomic.Int64
	useColors      bool
	jsonOutput     bool
	jsonStarted    bool
	markdownOutput bool
	dirStyle       *color.Color
	linkStyle      *color.Color
}

// New creates a new Printer with default settings
func New() *Printer {
	return &Printer{
		output:    os.Stdout,
		useColors: true,
		dirStyle:  color.New(color.FgBlue, color.Bold),
		linkStyle: color.New(color.FgCyan),
	}
}

// WithOutput sets the output destination
func (p *Printer) WithOutput(w io.Writer) *Printer {
	p.output = w
	return p
}

// WithColors enables or disables colored output
func (p *Printer) WithColors(enabled bool) *Printer {
	p.useColors = enabled
	return p
}

// WithJSON enables JSON output mode
func (p *Printer) WithJSON(enabled bool) *Printer {
	p.jsonOutput = enabled
	return p
}

// WithMarkdown enables Markdown output mode
func (p *Printer) WithMarkdown(enabled bool) *Printer {
	p.markdownOutput = enabled
	return p
}

// Entry is one surfaced path
type Entry struct {
	Path    string `json:"path"`
	Type    string `json:"type"`
	Depth   int    `json:"depth"`
	Symlink bool   `json:"symlink,omitempty"`
}

// Entry types
const (
	TypeFile  = "file"
	TypeDir   = "dir"
	TypeOther = "other"
)

// PrintEntry outputs one path
func (p *Printer) PrintEntry(entry Entry) {
	p.count.Add(1)

	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.jsonOutput:
		if !p.jsonStarted {
			fmt.Fprint(p.output, "[\n")
			p.jsonStarted = true
		} else {
			fmt.Fprint(p.output, ",\n")
		}

		jsonData, err := json.Marshal(entry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
			return
		}
		fmt.Fprintf(p.output, "  %s", jsonData)
	case p.markdownOutput:
		suffix := ""
		if entry.Type == TypeDir {
			suffix = "/"
		}
		fmt.Fprintf(p.output, "- `%s%s`\n", entry.Path, suffix)
	default:
		fmt.Fprintln(p.output, p.style(entry))
	}
}

func (p *Printer) style(entry Entry) string {
	if !p.useColors {
		return entry.Path
	}
	switch {
	case entry.Symlink:
		return p.linkStyle.Sprint(entry.Path)
	case entry.Type == TypeDir:
		return p.dirStyle.Sprint(entry.Path)
	default:
		return entry.Path
	}
}

// Finalize completes any pending operations (like closing JSON array)
func (p *Printer) Finalize() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.jsonOutput {
		return
	}
	if p.jsonStarted {
		fmt.Fprint(p.output, "\n]\n")
	} else {
		fmt.Fprint(p.output, "[]\n")
	}
}

// GetCount returns the number of entries printed
func (p *Printer) GetCount() int64 {
	return p.count.Load()
}
