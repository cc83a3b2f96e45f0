package prompt

import (
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/ghmm/internal/ui/styles"
)

// ConfirmResult holds the answer to a yes/no question.
type ConfirmResult struct {
	Confirmed bool
	Cancelled bool
}

type confirmModel struct {
	question string
	def      bool // answer for a bare enter
	answer   *bool
	quit     bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	yes, no := true, false
	switch key.String() {
	case "y", "Y":
		m.answer = &yes
	case "n", "N":
		m.answer = &no
	case "enter":
		m.answer = &m.def
	case "ctrl+c", "esc", "q":
		m.quit = true
	default:
		return m, nil
	}
	return m, tea.Quit
}

func (m confirmModel) finished() bool {
	return m.answer != nil || m.quit
}

func (m confirmModel) hint() string {
	if m.def {
		return "[Y/n]"
	}
	return "[y/N]"
}

func (m confirmModel) View() tea.View {
	if m.finished() {
		return tea.NewView("")
	}
	return tea.NewView(m.question + " " + styles.MutedStyle.Render(m.hint()) + " ")
}

func (m confirmModel) result() ConfirmResult {
	if m.quit || m.answer == nil {
		return ConfirmResult{Cancelled: m.quit}
	}
	return ConfirmResult{Confirmed: *m.answer}
}

// Confirm asks a yes/no question; a bare enter answers no.
func Confirm(question string) (ConfirmResult, error) {
	return ConfirmDefault(question, false)
}

// ConfirmDefault asks a yes/no question; a bare enter answers def.
func ConfirmDefault(question string, def bool) (ConfirmResult, error) {
	final, err := run(confirmModel{question: question, def: def})
	if err != nil {
		return ConfirmResult{}, err
	}
	return final.(confirmModel).result(), nil
}
