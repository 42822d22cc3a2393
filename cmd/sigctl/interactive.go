package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-signature/codec"
	"github.com/wippyai/wasm-signature/errors"
	"github.com/wippyai/wasm-signature/runtime"
	"github.com/wippyai/wasm-signature/schema"
	"github.com/wippyai/wasm-signature/signature"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	modelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	schema   *schema.Schema
	opts     options
	rt       *runtime.Runtime
	instance *runtime.Instance
	result   string
	fields   []fieldInfo
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

type fieldInfo struct {
	name    string
	typeStr string
}

type modelState int

const (
	stateSelectModel modelState = iota
	stateInputFields
	stateShowResult
)

func newInteractiveModel(s *schema.Schema, opts options) *interactiveModel {
	return &interactiveModel{
		schema: s,
		opts:   opts,
		state:  stateSelectModel,
	}
}

type loadedMsg struct {
	err  error
	rt   *runtime.Runtime
	inst *runtime.Instance
}

type sendResultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	if m.opts.wasm == "" {
		return nil
	}
	return m.loadGuest
}

func (m *interactiveModel) loadGuest() tea.Msg {
	ctx := context.Background()

	data, err := os.ReadFile(m.opts.wasm)
	if err != nil {
		return loadedMsg{err: err}
	}

	rt, err := runtime.New(ctx, runtime.Config{WASI: m.opts.wasi})
	if err != nil {
		return loadedMsg{err: err}
	}

	mod, err := rt.Load(ctx, data)
	if err != nil {
		rt.Close(ctx)
		return loadedMsg{err: err}
	}

	inst, err := mod.Instantiate(ctx)
	if err != nil {
		rt.Close(ctx)
		return loadedMsg{err: err}
	}

	return loadedMsg{rt: rt, inst: inst}
}

func (m *interactiveModel) model() *schema.Model {
	return m.schema.Models[m.selected]
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state == stateInputFields && msg.String() == "q" {
				break
			}
			ctx := context.Background()
			if m.instance != nil {
				m.instance.Close(ctx)
			}
			if m.rt != nil {
				m.rt.Close(ctx)
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectModel && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectModel && m.selected < len(m.schema.Models)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectModel:
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.send
				}
				m.state = stateInputFields

			case stateInputFields:
				return m, m.send

			case stateShowResult:
				m.state = stateSelectModel
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputFields && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputFields:
				m.state = stateSelectModel
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectModel
				m.result = ""
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.rt = msg.rt
		m.instance = msg.inst

	case sendResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputFields {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// settable reports whether a field can be entered as a single line of text.
func settable(f schema.Field) bool {
	switch f.Type {
	case schema.TypeModel:
		return false
	case schema.TypeArray, schema.TypeMap:
		return f.Elem != schema.TypeModel
	}
	return true
}

func (m *interactiveModel) prepareInputs() {
	m.fields = m.fields[:0]
	for _, f := range m.model().Fields() {
		if settable(f) {
			m.fields = append(m.fields, fieldInfo{name: f.Name, typeStr: witTypeStr(f.WIT())})
		}
	}

	m.inputs = make([]textinput.Model, len(m.fields))
	for i, f := range m.fields {
		ti := textinput.New()
		ti.Placeholder = "default"
		ti.Prompt = f.name + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) send() tea.Msg {
	rec := schema.New(m.model())
	for i, input := range m.inputs {
		if input.Value() == "" {
			continue
		}
		if err := assign(rec, m.fields[i].name+"="+input.Value()); err != nil {
			return sendResultMsg{err: err}
		}
	}

	e := codec.NewEncoder()
	rec.Encode(e)

	var b strings.Builder
	fmt.Fprintf(&b, "encoded: % x\n", e.Bytes())

	if m.instance == nil {
		printRecord(&b, rec, "  ")
		return sendResultMsg{result: b.String()}
	}

	sig := signature.ForModel(rec.Model())
	sig.Message = rec
	err := m.instance.Run(context.Background(), sig)
	if errors.IsProtocol(err) {
		fmt.Fprintf(&b, "guest error: %v\n", err)
		return sendResultMsg{result: b.String()}
	}
	if err != nil {
		return sendResultMsg{err: err}
	}
	b.WriteString("guest returned:\n")
	printRecord(&b, sig.Message, "  ")
	return sendResultMsg{result: b.String()}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.opts.wasm != "" && m.instance == nil {
		return "Loading guest..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Signature Console"))
	b.WriteString(" ")
	b.WriteString(m.schema.Name)
	if m.opts.wasm != "" {
		b.WriteString(" -> ")
		b.WriteString(m.opts.wasm)
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectModel:
		b.WriteString("Select a model:\n\n")
		for i, sm := range m.schema.Models {
			line := fmt.Sprintf("%s (%d fields)", modelStyle.Render(sm.Name), sm.NumFields())
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter edit • q quit"))

	case stateInputFields:
		b.WriteString(fmt.Sprintf("Editing %s\n\n", modelStyle.Render(m.model().Name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(m.fields[i].typeStr))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter send • esc back"))

	case stateShowResult:
		b.WriteString(fmt.Sprintf("Result for %s:\n\n", modelStyle.Render(m.model().Name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(s *schema.Schema, opts options) error {
	if len(s.Models) == 0 {
		return errors.InvalidInput(errors.PhaseSchema, "schema has no models")
	}
	p := tea.NewProgram(newInteractiveModel(s, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
