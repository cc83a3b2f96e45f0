package prompt

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/ghmm/internal/ui/styles"
)

// TextInputResult holds the result of a text input prompt.
type TextInputResult struct {
	Value     string
	Cancelled bool
}

type textInputModel struct {
	textInput textinput.Model
	prompt    string
	def       string
	required  bool
	errMsg    string
	done      bool
	cancelled bool
}

func (m textInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textInputModel) value() string {
	if v := strings.TrimSpace(m.textInput.Value()); v != "" {
		return v
	}
	return m.def
}

func (m textInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyPressMsg); ok {
		switch msg.String() {
		case "enter":
			if m.required && m.value() == "" {
				m.errMsg = "a value is required"
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
	}
	m.errMsg = ""
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m textInputModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	view := fmt.Sprintf("%s\n%s", m.prompt, m.textInput.View())
	if m.errMsg != "" {
		view += "\n" + styles.ErrorStyle.Render(m.errMsg)
	}
	return tea.NewView(view)
}

func newTextInputModel(prompt, def string, required bool) textInputModel {
	ti := textinput.New()
	ti.Placeholder = def
	ti.Focus()
	ti.CharLimit = 256
	ti.SetWidth(60)

	return textInputModel{
		textInput: ti,
		prompt:    prompt,
		def:       def,
		required:  required,
	}
}

// TextInput shows a text input prompt. An empty answer yields def, which is
// shown as placeholder. When required, an empty answer without def is
// rejected in place.
func TextInput(prompt, def string, required bool) (TextInputResult, error) {
	finalModel, err := run(newTextInputModel(prompt, def, required))
	if err != nil {
		return TextInputResult{}, err
	}
	m := finalModel.(textInputModel)
	return TextInputResult{
		Value:     m.value(),
		Cancelled: m.cancelled,
	}, nil
}
