package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/rom-export/export"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err       error
	cancel    context.CancelFunc
	env       export.Env
	exporters []export.Exporter
	results   []export.Result
	spinner   spinner.Model
	done      bool
	aborted   bool
}

type resultMsg export.Result

type doneMsg struct {
	err error
}

func newInteractiveModel(env export.Env, exporters []export.Exporter, cancel context.CancelFunc) *interactiveModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = warnStyle
	return &interactiveModel{
		env:       env,
		exporters: exporters,
		cancel:    cancel,
		spinner:   sp,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if !m.done {
				m.aborted = true
			}
			m.cancel()
			return m, tea.Quit
		case "enter":
			if m.done {
				return m, tea.Quit
			}
		}

	case resultMsg:
		m.results = append(m.results, export.Result(msg))

	case doneMsg:
		m.done = true
		m.err = msg.err

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ROM Export"))
	b.WriteString(" ")
	b.WriteString(m.env.SourceRoot)
	b.WriteString("\n\n")

	p := printer{styled: true}
	for i, x := range m.exporters {
		switch {
		case i < len(m.results):
			b.WriteString(p.render(m.results[i]))
		case i == len(m.results) && !m.done:
			b.WriteString(m.spinner.View())
			b.WriteString(" ")
			b.WriteString(x.Name())
		default:
			b.WriteString(pendingStyle.Render("  " + x.Name()))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.done {
		fmt.Fprintf(&b, "Output: %s\n", pathStyle.Render(m.env.OutputDir))
		if m.err != nil {
			b.WriteString(errorStyle.Render("Export finished with errors"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter/q quit"))
	} else {
		b.WriteString(helpStyle.Render("q abort"))
	}

	return b.String()
}

func runInteractive(ctx context.Context, env export.Env, exporters []export.Exporter) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newInteractiveModel(env, exporters, cancel)
	p := tea.NewProgram(m)

	go func() {
		_, err := export.RunAll(ctx, env, exporters, func(r export.Result) {
			p.Send(resultMsg(r))
		})
		p.Send(doneMsg{err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}
	fm := final.(*interactiveModel)
	if fm.aborted {
		return context.Canceled
	}
	return fm.err
}
