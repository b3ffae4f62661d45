// Package tui renders live progress for long pipeline runs.
// A run executes in the caller's goroutine while the model polls a
// snapshot function on a timer, so the pipeline never blocks on the
// display. On non-TTY output the CLI skips this package entirely.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const pollInterval = 100 * time.Millisecond

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	detailStyle = lipgloss.NewStyle().Faint(true)
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
)

// Snapshot is one observation of a running pipeline.
type Snapshot struct {
	// Done and Total drive the progress bar. Total <= 0 renders a
	// spinner instead, for stages whose size is unknown up front.
	Done  int
	Total int

	// Detail is a short free-form line under the bar, e.g. per-counter
	// breakdowns.
	Detail string
}

// Poll returns the current snapshot of the monitored run.
type Poll func() Snapshot

type tickMsg time.Time

type finishedMsg struct{ err error }

// Model is the bubbletea model for a single pipeline run.
type Model struct {
	title    string
	poll     Poll
	done     <-chan error
	bar      progress.Model
	spin     spinner.Model
	snapshot Snapshot
	err      error
	finished bool
	width    int
}

// NewModel creates a progress model for a run whose completion is
// signalled on done.
func NewModel(title string, poll Poll, done <-chan error) *Model {
	bar := progress.New(progress.WithDefaultGradient())
	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	return &Model{
		title: title,
		poll:  poll,
		done:  done,
		bar:   bar,
		spin:  spin,
		width: 80,
	}
}

// Init starts the poll timer and the completion watcher.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.waitDone(), m.spin.Tick)
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) waitDone() tea.Cmd {
	return func() tea.Msg { return finishedMsg{err: <-m.done} }
}

// Update handles timer ticks, completion, resizing, and interrupts.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.snapshot = m.poll()
		return m, m.tick()

	case finishedMsg:
		m.snapshot = m.poll()
		m.err = msg.err
		m.finished = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 10
		if m.bar.Width > 60 {
			m.bar.Width = 60
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			// The pipeline goroutine keeps the context; the CLI cancels
			// it when the program returns.
			m.err = context.Canceled
			m.finished = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the title, bar or spinner, counters, and detail line.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	s := m.snapshot
	if s.Total > 0 {
		ratio := float64(s.Done) / float64(s.Total)
		if ratio > 1 {
			ratio = 1
		}
		b.WriteString(m.bar.ViewAs(ratio))
		b.WriteString(countStyle.Render(fmt.Sprintf("  %d/%d", s.Done, s.Total)))
	} else {
		b.WriteString(m.spin.View())
		b.WriteString(countStyle.Render(fmt.Sprintf(" %d processed", s.Done)))
	}
	b.WriteString("\n")

	if s.Detail != "" {
		b.WriteString(detailStyle.Render(s.Detail))
		b.WriteString("\n")
	}
	return b.String()
}

// Err returns the run's error after the program finishes.
func (m *Model) Err() error { return m.err }

// Run displays the progress UI until the run signalled on done
// completes, then returns the run's error.
func Run(title string, poll Poll, done <-chan error) error {
	model := NewModel(title, poll, done)
	prog := tea.NewProgram(model)
	final, err := prog.Run()
	if m, ok := final.(*Model); ok && m.finished {
		return m.Err()
	}
	if err != nil {
		// Display failure must not eat the pipeline result.
		return <-done
	}
	return model.Err()
}
