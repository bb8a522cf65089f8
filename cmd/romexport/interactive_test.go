package main

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/rom-export/export"
)

func TestInteractiveModelUpdate(t *testing.T) {
	weight := resultMsg(export.Result{Exporter: "weight", OutputPath: "/tmp/run/weight.csv", Outputs: []string{"/tmp/run/weight.csv"}, Rows: 3})
	keyQ := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
	keyEnter := tea.KeyMsg{Type: tea.KeyEnter}
	keyCtrlC := tea.KeyMsg{Type: tea.KeyCtrlC}

	tests := []struct {
		name     string
		msgs     []tea.Msg
		done     bool
		aborted  bool
		canceled bool
		quit     bool
		view     []string
		notView  []string
	}{
		{
			name:    "running",
			msgs:    []tea.Msg{weight},
			view:    []string{"weight -> weight.csv (3 rows)", "moves", "q abort"},
			notView: []string{"Output:"},
		},
		{
			name:     "abort while running",
			msgs:     []tea.Msg{weight, keyQ},
			aborted:  true,
			canceled: true,
			quit:     true,
			view:     []string{"weight -> weight.csv (3 rows)", "q abort"},
		},
		{
			name:    "finished with errors",
			msgs:    []tea.Msg{weight, resultMsg(export.Result{Exporter: "moves", Err: errors.New("boom")}), doneMsg{err: errors.New("moves: boom")}},
			done:    true,
			view:    []string{"moves: boom", "Output: ", "/tmp/run", "Export finished with errors", "enter/q quit"},
			notView: []string{"q abort"},
		},
		{
			name:    "enter after success",
			msgs:    []tea.Msg{weight, doneMsg{}, keyEnter},
			done:    true,
			quit:    true,
			view:    []string{"Output: ", "enter/q quit"},
			notView: []string{"Export finished with errors"},
		},
		{
			name: "enter while running is ignored",
			msgs: []tea.Msg{keyEnter},
			view: []string{"q abort"},
		},
		{
			name:     "ctrl+c after done is not an abort",
			msgs:     []tea.Msg{weight, doneMsg{}, keyCtrlC},
			done:     true,
			canceled: true,
			quit:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporters, err := export.Lookup("weight", "moves")
			if err != nil {
				t.Fatal(err)
			}
			var canceled bool
			env := export.Env{SourceRoot: "/rom", OutputDir: "/tmp/run"}
			m := newInteractiveModel(env, exporters, func() { canceled = true })

			var cmd tea.Cmd
			for _, msg := range tt.msgs {
				_, cmd = m.Update(msg)
			}

			if m.done != tt.done || m.aborted != tt.aborted || canceled != tt.canceled {
				t.Errorf("done=%v aborted=%v canceled=%v, want %v %v %v",
					m.done, m.aborted, canceled, tt.done, tt.aborted, tt.canceled)
			}
			quit := false
			if cmd != nil {
				_, quit = cmd().(tea.QuitMsg)
			}
			if quit != tt.quit {
				t.Errorf("quit = %v, want %v", quit, tt.quit)
			}

			view := m.View()
			for _, want := range tt.view {
				if !strings.Contains(view, want) {
					t.Errorf("view missing %q:\n%s", want, view)
				}
			}
			for _, unwanted := range tt.notView {
				if strings.Contains(view, unwanted) {
					t.Errorf("view should not contain %q:\n%s", unwanted, view)
				}
			}
		})
	}
}

func TestInteractiveModelStopsSpinnerWhenDone(t *testing.T) {
	m := newInteractiveModel(export.Env{}, nil, func() {})
	m.Update(doneMsg{})
	if _, cmd := m.Update(m.spinner.Tick()); cmd != nil {
		t.Error("spinner should stop ticking once the run is done")
	}
}
