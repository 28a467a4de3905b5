// Package tui is the interactive Bubble Tea front end. It owns no state
// of its own: every mutation goes through the store, and the list is
// rebuilt from a fresh snapshot whenever the store notifies.
package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lmeriaux/todo/internal/model"
	"github.com/lmeriaux/todo/internal/store"
)

// ------- minimal styling helpers (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

// storeChangedMsg arrives through the store subscription after any
// mutation, from this program or any other holder of the store.
type storeChangedMsg struct{}

// listItem adapts a model.Item to bubbles/list.Item.
type listItem struct {
	it model.Item
}

func (l listItem) Title() string       { return l.it.Title }
func (l listItem) Description() string { return "" }
func (l listItem) FilterValue() string { return l.it.Title }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	li, _ := item.(listItem)
	it := li.it

	box := mutedStyle.Render(boxUnchecked)
	text := it.Title
	if it.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}

	var tags []string
	if it.DueDate != nil {
		label := it.DueDate.Format("2006-01-02")
		if it.Overdue(time.Now()) {
			tags = append(tags, overdueStyle.Render("overdue "+label))
		} else {
			tags = append(tags, pendingStyle.Render("due "+label))
		}
	}
	if it.Category != nil {
		tags = append(tags, accentStyle.Render("@"+string(*it.Category)))
	}
	switch it.Priority {
	case model.PriorityHigh:
		tags = append(tags, errorStyle.Render("!high"))
	case model.PriorityLow:
		tags = append(tags, mutedStyle.Render("!low"))
	}

	line := fmt.Sprintf("%s %s", box, text)
	if len(tags) > 0 {
		line += "  " + strings.Join(tags, " ")
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type uiModel struct {
	st   *store.Store
	list list.Model

	// Derived-view selectors; they never touch the store.
	sortKey store.SortKey
	status  store.StatusFilter
	catIdx  int // -1 = all, else index into model.Categories()

	width  int
	height int

	// Inline add/edit share one text input.
	adding   bool
	editing  bool
	editID   string
	ti       textinput.Model
	inputErr string
}

// Run starts the interactive list over st. It returns when the user
// quits; all changes were already persisted per operation.
func Run(st *store.Store, defaultSort string) error {
	sortKey, err := store.ParseSortKey(defaultSort)
	if err != nil {
		sortKey = store.SortManual
	}

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")

	// Extend help with our bindings
	extra := []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("J", "K"), key.WithHelp("J/K", "move")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "status")),
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category")),
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return extra[:4] }
	l.AdditionalFullHelpKeys = func() []key.Binding { return extra }

	m := uiModel{
		st:      st,
		list:    l,
		sortKey: sortKey,
		status:  store.StatusAll,
		catIdx:  -1,
		width:   80,
		height:  24,
	}
	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.Placeholder = "New item title..."
	m.ti.CharLimit = 200
	m.reload()

	p := tea.NewProgram(m, tea.WithAltScreen())

	// The subscription fires synchronously inside store operations;
	// Send only queues a message, so re-entrancy is safe.
	cancel := st.Subscribe(func() {
		p.Send(storeChangedMsg{})
	})
	defer cancel()

	_, err = p.Run()
	return err
}

// visible returns the current derived view of the store.
func (m *uiModel) visible() []model.Item {
	items := m.st.Snapshot()
	var cat *model.Category
	if m.catIdx >= 0 {
		c := model.Categories()[m.catIdx]
		cat = &c
	}
	return store.SortBy(store.FilterByStatus(store.FilterByCategory(items, cat), m.status), m.sortKey)
}

// reload rebuilds the list from a fresh snapshot and refreshes the
// header counts.
func (m *uiModel) reload() {
	items := m.visible()
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{it: it})
	}
	idx := m.list.Index()
	m.list.SetItems(li)
	if idx >= len(li) {
		idx = len(li) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}

	all := m.st.Snapshot()
	var done, pending int
	for _, it := range all {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d   %s",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		accentStyle.Render("Total"), len(all),
		mutedStyle.Render(m.viewLabel()),
	)
}

func (m *uiModel) viewLabel() string {
	cat := "all"
	if m.catIdx >= 0 {
		cat = string(model.Categories()[m.catIdx])
	}
	return fmt.Sprintf("sort:%s status:%s cat:%s", m.sortKey, m.status, cat)
}

// selectedID returns the id of the highlighted row, or "".
func (m *uiModel) selectedID() string {
	if li, ok := m.list.SelectedItem().(listItem); ok {
		return li.it.ID
	}
	return ""
}

func (m uiModel) Init() tea.Cmd { return nil }

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case storeChangedMsg:
		m.reload()
		return m, nil
	}

	if m.adding || m.editing {
		return m.updateInput(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !m.list.SettingFilter() {
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case " ":
			if id := m.selectedID(); id != "" {
				m.st.ToggleComplete(id)
			}
			return m, nil
		case "d":
			if id := m.selectedID(); id != "" {
				m.st.Delete(id)
			}
			return m, nil
		case "a":
			m.adding = true
			m.inputErr = ""
			m.ti.SetValue("")
			m.ti.Placeholder = "New item title..."
			m.ti.Focus()
			return m, nil
		case "e":
			if li, ok := m.list.SelectedItem().(listItem); ok {
				m.editing = true
				m.editID = li.it.ID
				m.inputErr = ""
				m.ti.SetValue(li.it.Title)
				m.ti.CursorEnd()
				m.ti.Placeholder = "Edit item title..."
				m.ti.Focus()
			}
			return m, nil
		case "J":
			m.moveSelected(1)
			return m, nil
		case "K":
			m.moveSelected(-1)
			return m, nil
		case "s":
			m.sortKey = nextSortKey(m.sortKey)
			m.reload()
			return m, nil
		case "f":
			m.status = nextStatus(m.status)
			m.reload()
			return m, nil
		case "c":
			m.catIdx++
			if m.catIdx >= len(model.Categories()) {
				m.catIdx = -1
			}
			m.reload()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// moveSelected swaps the highlighted row with its neighbor. Manual
// reordering only makes sense under manual sort; other orderings are
// derived views the store must not rewrite.
func (m *uiModel) moveSelected(delta int) {
	if m.sortKey != store.SortManual {
		return
	}
	items := m.visible()
	i := m.list.Index()
	j := i + delta
	if i < 0 || i >= len(items) || j < 0 || j >= len(items) {
		return
	}
	m.st.Reorder(items[i].ID, items[j].ID)
	m.list.Select(j)
}

func (m uiModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			title := strings.TrimSpace(m.ti.Value())
			if title == "" {
				m.inputErr = "Title cannot be empty"
				return m, nil
			}
			if m.adding {
				if _, err := m.st.Create(title, nil, nil, ""); err != nil {
					m.inputErr = err.Error()
					return m, nil
				}
			} else {
				m.st.Update(m.editID, store.Patch{Title: &title})
			}
			m.closeInput()
			return m, nil
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *uiModel) closeInput() {
	m.adding = false
	m.editing = false
	m.editID = ""
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

func (m uiModel) View() string {
	listHeight := m.height - 4
	if m.adding || m.editing {
		listHeight = m.height - 6
	}
	m.list.SetSize(m.width-2, listHeight)

	content := m.list.View()
	if m.adding || m.editing {
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		title := "Add new item"
		if m.editing {
			title = "Edit item"
		}
		if m.inputErr != "" {
			title += " — " + errorStyle.Render(m.inputErr)
		}
		inputLine := title + "\n" + m.ti.View()
		content = content + "\n" + bar.Render(inputLine)
	}
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return border.Render(content)
}

func nextSortKey(k store.SortKey) store.SortKey {
	switch k {
	case store.SortManual:
		return store.SortDue
	case store.SortDue:
		return store.SortPriority
	case store.SortPriority:
		return store.SortCreated
	default:
		return store.SortManual
	}
}

func nextStatus(f store.StatusFilter) store.StatusFilter {
	switch f {
	case store.StatusAll:
		return store.StatusActive
	case store.StatusActive:
		return store.StatusCompleted
	default:
		return store.StatusAll
	}
}
