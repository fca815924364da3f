package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type clientCheckedMsg struct{}

type fetchDoneMsg struct {
	err error
}

// fetchSpinnerModel shows a spinner plus a checked-clients counter while the
// per-credential billing fetch walks the client list.
type fetchSpinnerModel struct {
	spinner spinner.Model
	label   string
	fetch   tea.Cmd
	checked int
	total   int
	err     error
	done    bool
}

func newFetchSpinnerModel(label string, total int, fetch tea.Cmd) fetchSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return fetchSpinnerModel{
		spinner: s,
		label:   label,
		fetch:   fetch,
		total:   total,
	}
}

func (m fetchSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch)
}

func (m fetchSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case clientCheckedMsg:
		m.checked++
		return m, nil
	case fetchDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m fetchSpinnerModel) View() string {
	if m.done {
		return ""
	}

	if m.total > 1 {
		return fmt.Sprintf("%s %s [%d/%d]", m.spinner.View(), m.label, m.checked, m.total)
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// runFetchSpinner runs fetch under a spinner; fetch reports each handled
// client through checked so the counter advances.
func runFetchSpinner(ctx context.Context, output io.Writer, label string, total int, fetch func(ctx context.Context, checked func()) error) error {
	var p *tea.Program

	fetchCmd := func() tea.Msg {
		return fetchDoneMsg{err: fetch(ctx, func() {
			p.Send(clientCheckedMsg{})
		})}
	}

	p = tea.NewProgram(
		newFetchSpinnerModel(label, total, fetchCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(fetchSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
