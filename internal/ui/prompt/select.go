package prompt

import (
	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/raphi011/ghmm/internal/ui/styles"
)

// Option is one entry of a selection list.
type Option struct {
	Label  string
	Detail string // second line, e.g. the account email
}

// SelectResult holds the chosen option index.
type SelectResult struct {
	Index     int
	Cancelled bool
}

type optionItem struct {
	Option
	index int
}

func (i optionItem) Title() string       { return i.Label }
func (i optionItem) Description() string { return i.Detail }
func (i optionItem) FilterValue() string { return i.Label }

type selectModel struct {
	list   list.Model
	chosen int
	quit   bool
}

func newSelectModel(title string, options []Option, initial int) selectModel {
	items := make([]list.Item, len(options))
	for i, opt := range options {
		items[i] = optionItem{Option: opt, index: i}
	}

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().Foreground(styles.Accent).Bold(true).PaddingLeft(2)
	delegate.Styles.SelectedDesc = styles.MutedStyle.PaddingLeft(2)

	l := list.New(items, delegate, 60, min(2*len(options)+6, 24))
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(len(options) > 5)
	l.DisableQuitKeybindings()
	if initial >= 0 && initial < len(options) {
		l.Select(initial)
	}
	return selectModel{list: l, chosen: -1}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	case tea.KeyPressMsg:
		filtering := m.list.FilterState() == list.Filtering
		switch {
		case msg.String() == "ctrl+c", msg.String() == "esc" && !filtering:
			m.quit = true
			return m, tea.Quit
		case msg.String() == "enter" && !filtering:
			if item, ok := m.list.SelectedItem().(optionItem); ok {
				m.chosen = item.index
			}
			m.quit = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() tea.View {
	if m.quit {
		return tea.NewView("")
	}
	return tea.NewView(m.list.View())
}

// Select lists options under title with initial preselected and returns
// the chosen index. Filtering is offered for long lists.
func Select(title string, options []Option, initial int) (SelectResult, error) {
	if len(options) == 0 {
		return SelectResult{Index: -1, Cancelled: true}, nil
	}
	final, err := run(newSelectModel(title, options, initial))
	if err != nil {
		return SelectResult{}, err
	}
	m := final.(selectModel)
	if m.chosen < 0 {
		return SelectResult{Index: -1, Cancelled: true}, nil
	}
	return SelectResult{Index: m.chosen}, nil
}
