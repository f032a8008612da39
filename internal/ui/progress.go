// Package ui provides the Bubbletea terminal interface for a trimming batch
package ui

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/jivetrim/internal/audio"
	"github.com/linuxmatters/jivetrim/internal/batch"
	"github.com/linuxmatters/jivetrim/internal/cli"
	"github.com/linuxmatters/jivetrim/internal/processor"
)

// FileStatus represents the processing state of a single file
type FileStatus int

const (
	StatusQueued FileStatus = iota
	StatusProcessing
	StatusDone
	StatusFailed
)

// FileProgress tracks one file in the batch
type FileProgress struct {
	Name    string
	Status  FileStatus
	Meta    *audio.Metadata
	Result  *processor.Result
	Err     error
	Started time.Time
	Elapsed time.Duration
}

// Model is the Bubbletea model for a batch run
type Model struct {
	progressBar progress.Model

	files     []FileProgress
	current   int
	finished  int
	failed    int
	outputDir string
	duration  float64

	summary *batch.Summary
	err     error

	startTime       time.Time
	width           int
	height          int
	completionDelay time.Duration
	done            bool
	interrupted     bool
}

// NewModel creates a model for the given input files
func NewModel(inputFiles []string, outputDir string, duration float64) *Model {
	p := progress.New(
		progress.WithGradient(string(cli.EdgeTeal), string(cli.EdgeMint)),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	files := make([]FileProgress, len(inputFiles))
	for i, path := range inputFiles {
		files[i] = FileProgress{Name: filepath.Base(path)}
	}

	return &Model{
		progressBar:     p,
		files:           files,
		current:         -1,
		outputDir:       outputDir,
		duration:        duration,
		startTime:       time.Now(),
		completionDelay: time.Second,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = max(10, min(msg.Width-30, 50))
		return m, nil

	case EventMsg:
		m.applyEvent(msg.Event)
		return m, nil

	case DoneMsg:
		m.summary = msg.Summary
		m.err = msg.Err
		m.done = true
		return m, tea.Tick(m.completionDelay, func(time.Time) tea.Msg {
			return quitMsg{}
		})

	case quitMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if m.done {
			return m, tea.Quit
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.interrupted = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *Model) applyEvent(e batch.Event) {
	if e.Index < 0 || e.Index >= len(m.files) {
		return
	}
	f := &m.files[e.Index]

	switch e.Kind {
	case batch.EventStart:
		m.current = e.Index
		f.Status = StatusProcessing
		f.Meta = e.Metadata
		f.Started = time.Now()

	case batch.EventDone:
		f.Status = StatusDone
		f.Result = e.Result
		f.Elapsed = e.Elapsed
		m.finished++

	case batch.EventFailed:
		f.Status = StatusFailed
		f.Err = e.Err
		f.Elapsed = e.Elapsed
		m.finished++
		m.failed++
	}
}

// Interrupted reports whether the user quit before the batch finished
func (m *Model) Interrupted() bool {
	return m.interrupted && !m.done
}

// Files returns the per-file state, in batch order
func (m *Model) Files() []FileProgress {
	return m.files
}

// View renders the UI
func (m *Model) View() string {
	if m.done {
		return m.renderComplete()
	}
	return m.renderProgress()
}
