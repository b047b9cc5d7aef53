package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/gymlog/internal/pagination"
	"github.com/muurk/gymlog/internal/records"
	"github.com/muurk/gymlog/internal/state"
)

// panelMode is what the panel is currently doing
type panelMode int

const (
	modeList panelMode = iota
	modeSearchInput
	modeSearchResults
	modeForm
	modeConfirmDelete
)

func (m panelMode) String() string {
	switch m {
	case modeList:
		return "list"
	case modeSearchInput:
		return "search_input"
	case modeSearchResults:
		return "search_results"
	case modeForm:
		return "form"
	case modeConfirmDelete:
		return "confirm_delete"
	default:
		return "unknown"
	}
}

// requestKind is an action the panel asks the shell to carry out
type requestKind int

const (
	reqNone requestKind = iota
	reqPage
	reqRefresh
	reqCreate
	reqUpdate
	reqDelete
	reqSearchPage
	reqSearchClose
	reqQuit
)

// request carries the panel's intent to the shell. The panel never talks to
// the network or changes the state container itself.
type request struct {
	kind   requestKind
	page   int
	input  records.Input
	record records.Record
}

// searchRequestedMsg is what the search widget's function produces
type searchRequestedMsg struct {
	query string
}

// listKeyMap defines key bindings for the record list
type listKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Edit    key.Binding
	Add     key.Binding
	Delete  key.Binding
	Search  key.Binding
	Refresh key.Binding
	First   key.Binding
	Prev    key.Binding
	Next    key.Binding
	Last    key.Binding
	Slot    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k listKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Add, k.Delete, k.Search, k.Prev, k.Next, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k listKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Edit, k.Add, k.Delete},
		{k.First, k.Prev, k.Next, k.Last, k.Slot},
		{k.Search, k.Refresh, k.Help, k.Quit},
	}
}

// overlayKeyMap defines key bindings for the search results overlay
type overlayKeyMap struct {
	First  key.Binding
	Prev   key.Binding
	Next   key.Binding
	Last   key.Binding
	Slot   key.Binding
	Search key.Binding
	Close  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k overlayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Slot, k.Search, k.Close}
}

// FullHelp returns keybindings for the expanded help view
func (k overlayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.First, k.Prev, k.Next, k.Last, k.Slot},
		{k.Search, k.Close},
	}
}

// inputKeyMap defines key bindings while a text input has focus
type inputKeyMap struct {
	Submit key.Binding
	Switch key.Binding
	Cancel key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k inputKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Switch, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k inputKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit, k.Switch, k.Cancel}}
}

// confirmKeyMap defines key bindings for the delete confirmation
type confirmKeyMap struct {
	Yes key.Binding
	No  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k confirmKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No}
}

// FullHelp returns keybindings for the expanded help view
func (k confirmKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Yes, k.No}}
}

func newListKeyMap() listKeyMap {
	return listKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Edit:    key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter/e", "edit")),
		Add:     key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
		Delete:  key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		First:   key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first page")),
		Prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev page")),
		Next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next page")),
		Last:    key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last page")),
		Slot:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "pick page")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func newOverlayKeyMap() overlayKeyMap {
	return overlayKeyMap{
		First:  key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first page")),
		Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev page")),
		Next:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next page")),
		Last:   key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last page")),
		Slot:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "pick page")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "new search")),
		Close:  key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "close")),
	}
}

func newInputKeyMap() inputKeyMap {
	return inputKeyMap{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Switch: key.NewBinding(key.WithKeys("tab", "shift+tab", "up", "down"), key.WithHelp("tab", "next field")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func newConfirmKeyMap() confirmKeyMap {
	return confirmKeyMap{
		Yes: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "delete")),
		No:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n/esc", "keep")),
	}
}

// pageAction maps a navigation key to a pagination action
func pageAction(msg tea.KeyMsg, first, prev, next, last key.Binding) (pagination.Action, bool) {
	switch {
	case key.Matches(msg, first):
		return pagination.First, true
	case key.Matches(msg, prev):
		return pagination.Previous, true
	case key.Matches(msg, next):
		return pagination.Next, true
	case key.Matches(msg, last):
		return pagination.Last, true
	}
	return 0, false
}

// pageForKey resolves a navigation or slot key against the controls.
// Disabled buttons and empty slots resolve to nothing.
func pageForKey(msg tea.KeyMsg, c pagination.Control, first, prev, next, last, slot key.Binding) (int, bool) {
	if a, ok := pageAction(msg, first, prev, next, last); ok {
		var page int
		pressed := c.Press(a, func(p int) { page = p })
		return page, pressed
	}
	if key.Matches(msg, slot) {
		i, err := strconv.Atoi(msg.String())
		if err != nil {
			return 0, false
		}
		p, ok := c.Slot(i)
		if !ok {
			return 0, false
		}
		var page int
		requested := c.Request(p, func(p int) { page = p })
		return page, requested
	}
	return 0, false
}

const (
	fieldExercise = iota
	fieldWeight
	fieldCount
)

// editForm edits exercise and weight. original is nil when creating.
type editForm struct {
	inputs   [fieldCount]textinput.Model
	focus    int
	original *records.Record
	err      string
}

func newEditForm(original *records.Record) editForm {
	f := editForm{original: original}

	exercise := textinput.New()
	exercise.Prompt = "Exercise: "
	exercise.Placeholder = "Squat"
	exercise.CharLimit = records.MaxExerciseLength
	exercise.Width = 30

	weight := textinput.New()
	weight.Prompt = "Weight (kg): "
	weight.Placeholder = "100"
	weight.CharLimit = 6
	weight.Width = 8

	if original != nil {
		exercise.SetValue(original.Exercise)
		weight.SetValue(strconv.Itoa(original.Weight))
	}

	f.inputs[fieldExercise] = exercise
	f.inputs[fieldWeight] = weight
	return f
}

func (f *editForm) focusField(i int) tea.Cmd {
	f.focus = (i + fieldCount) % fieldCount
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].PromptStyle = FocusedInputStyle
			continue
		}
		f.inputs[j].Blur()
		f.inputs[j].PromptStyle = BlurredInputStyle
	}
	return f.inputs[f.focus].Focus()
}

// submit validates the fields. It returns the body to send, or records the
// problem in f.err.
func (f *editForm) submit() (records.Input, bool) {
	in := records.Input{Exercise: strings.TrimSpace(f.inputs[fieldExercise].Value())}

	weight, err := records.ParseWeight(f.inputs[fieldWeight].Value())
	if err != nil {
		f.err = err.Error()
		return in, false
	}
	in.Weight = weight

	if err := records.JoinValidationErrors(records.ValidateInput(in)); err != nil {
		f.err = err.Error()
		return in, false
	}
	f.err = ""
	return in, true
}

func (f editForm) title() string {
	if f.original == nil {
		return "New record"
	}
	return fmt.Sprintf("Edit record #%d", f.original.SequenceNumber)
}

func (f editForm) view() string {
	var b strings.Builder
	b.WriteString(RenderTitle(f.title()))
	b.WriteString("\n")
	for i := range f.inputs {
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(FormErrorStyle.Render("✗ " + f.err))
		b.WriteString("\n")
	}
	return b.String()
}

// Panel renders the current page and runs the edit, delete and search flows
type Panel struct {
	mode       panelMode
	table      table.Model
	form       editForm
	search     SearchWidget
	target     records.Record // row awaiting delete confirmation
	dateLayout string
	width      int

	help        help.Model
	listKeys    listKeyMap
	overlayKeys overlayKeyMap
	inputKeys   inputKeyMap
	confirmKeys confirmKeyMap
}

// NewPanel creates the panel for pages of rowsPerPage records
func NewPanel(rowsPerPage int, dateLayout string) Panel {
	columns := []table.Column{
		{Title: records.Columns[0], Width: 5},
		{Title: records.Columns[1], Width: 28},
		{Title: records.Columns[2], Width: 12},
		{Title: records.Columns[3], Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(rowsPerPage+1),
	)
	// Only row movement belongs to the table; home/end page the list
	t.KeyMap = table.KeyMap{
		LineUp:   key.NewBinding(key.WithKeys("up", "k")),
		LineDown: key.NewBinding(key.WithKeys("down", "j")),
	}

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(TextColor).
		Background(PrimaryColor).
		Bold(false)
	t.SetStyles(s)

	return Panel{
		mode:        modeList,
		table:       t,
		search:      NewSearchWidget(requestSearch),
		dateLayout:  dateLayout,
		help:        help.New(),
		listKeys:    newListKeyMap(),
		overlayKeys: newOverlayKeyMap(),
		inputKeys:   newInputKeyMap(),
		confirmKeys: newConfirmKeyMap(),
	}
}

// requestSearch hands the query to the shell, which owns paging
func requestSearch(query string) tea.Cmd {
	return func() tea.Msg {
		return searchRequestedMsg{query: query}
	}
}

// SetWidth adapts the panel to the terminal width
func (p *Panel) SetWidth(width int) {
	p.width = width
	p.help.Width = width
}

// SetRecords replaces the table rows with a freshly fetched page
func (p *Panel) SetRecords(recs []records.Record) {
	rows := make([]table.Row, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, recordRow(r, p.dateLayout))
	}
	p.table.SetRows(rows)
	if c := p.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		p.table.SetCursor(len(rows) - 1)
	}
}

// selected returns the record under the cursor
func (p Panel) selected(st *state.State) (records.Record, bool) {
	i := p.table.Cursor()
	if i < 0 || i >= len(st.Records) {
		return records.Record{}, false
	}
	return st.Records[i], true
}

// Update handles a message for the current mode and reports what the shell
// should do next
func (p Panel) Update(msg tea.Msg, st *state.State) (Panel, request, tea.Cmd) {
	km, isKey := msg.(tea.KeyMsg)

	switch p.mode {
	case modeForm:
		return p.updateForm(msg, km, isKey)
	case modeSearchInput:
		return p.updateSearchInput(msg, km, isKey)
	}

	if !isKey {
		return p, request{}, nil
	}

	switch p.mode {
	case modeConfirmDelete:
		return p.updateConfirm(km)
	case modeSearchResults:
		return p.updateOverlay(km, st)
	default:
		return p.updateList(km, st)
	}
}

func (p Panel) updateList(msg tea.KeyMsg, st *state.State) (Panel, request, tea.Cmd) {
	k := p.listKeys

	if page, ok := pageForKey(msg, st.Pagination(), k.First, k.Prev, k.Next, k.Last, k.Slot); ok {
		return p, request{kind: reqPage, page: page}, nil
	}

	switch {
	case key.Matches(msg, k.Quit):
		return p, request{kind: reqQuit}, nil

	case key.Matches(msg, k.Help):
		p.help.ShowAll = !p.help.ShowAll
		return p, request{}, nil

	case key.Matches(msg, k.Refresh):
		return p, request{kind: reqRefresh}, nil

	case key.Matches(msg, k.Edit):
		rec, ok := p.selected(st)
		if !ok {
			return p, request{}, nil
		}
		p.form = newEditForm(&rec)
		p.mode = modeForm
		return p, request{}, p.form.focusField(fieldExercise)

	case key.Matches(msg, k.Add):
		p.form = newEditForm(nil)
		p.mode = modeForm
		return p, request{}, p.form.focusField(fieldExercise)

	case key.Matches(msg, k.Delete):
		rec, ok := p.selected(st)
		if !ok {
			return p, request{}, nil
		}
		p.target = rec
		p.mode = modeConfirmDelete
		return p, request{}, nil

	case key.Matches(msg, k.Search):
		p.mode = modeSearchInput
		return p, request{}, p.search.Focus()
	}

	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return p, request{}, cmd
}

func (p Panel) updateForm(msg tea.Msg, km tea.KeyMsg, isKey bool) (Panel, request, tea.Cmd) {
	if isKey {
		switch km.String() {
		case "esc":
			p.mode = modeList
			return p, request{}, nil
		case "tab", "down":
			return p, request{}, p.form.focusField(p.form.focus + 1)
		case "shift+tab", "up":
			return p, request{}, p.form.focusField(p.form.focus - 1)
		case "enter":
			in, ok := p.form.submit()
			if !ok {
				return p, request{}, nil
			}
			p.mode = modeList
			if p.form.original == nil {
				return p, request{kind: reqCreate, input: in}, nil
			}
			return p, request{kind: reqUpdate, input: in, record: *p.form.original}, nil
		}
	}

	var cmd tea.Cmd
	p.form.inputs[p.form.focus], cmd = p.form.inputs[p.form.focus].Update(msg)
	return p, request{}, cmd
}

func (p Panel) updateSearchInput(msg tea.Msg, km tea.KeyMsg, isKey bool) (Panel, request, tea.Cmd) {
	if isKey {
		switch km.Type {
		case tea.KeyEsc:
			p.search.Blur()
			p.mode = modeList
			return p, request{kind: reqSearchClose}, nil
		case tea.KeyEnter:
			p.search.Blur()
			p.mode = modeSearchResults
		}
	}

	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	return p, request{}, cmd
}

func (p Panel) updateOverlay(msg tea.KeyMsg, st *state.State) (Panel, request, tea.Cmd) {
	k := p.overlayKeys

	if page, ok := pageForKey(msg, st.Search.Pagination(), k.First, k.Prev, k.Next, k.Last, k.Slot); ok {
		return p, request{kind: reqSearchPage, page: page}, nil
	}

	switch {
	case key.Matches(msg, k.Close):
		p.mode = modeList
		return p, request{kind: reqSearchClose}, nil
	case key.Matches(msg, k.Search):
		p.mode = modeSearchInput
		return p, request{}, p.search.Focus()
	}
	return p, request{}, nil
}

func (p Panel) updateConfirm(msg tea.KeyMsg) (Panel, request, tea.Cmd) {
	switch {
	case key.Matches(msg, p.confirmKeys.Yes):
		p.mode = modeList
		return p, request{kind: reqDelete, record: p.target}, nil
	case key.Matches(msg, p.confirmKeys.No):
		p.mode = modeList
	}
	return p, request{}, nil
}

// HelpView renders the key help for the current mode
func (p Panel) HelpView() string {
	switch p.mode {
	case modeForm, modeSearchInput:
		return p.help.View(p.inputKeys)
	case modeConfirmDelete:
		return p.help.View(p.confirmKeys)
	case modeSearchResults:
		return p.help.View(p.overlayKeys)
	default:
		return p.help.View(p.listKeys)
	}
}

// View renders the panel body
func (p Panel) View(st *state.State) string {
	var b strings.Builder

	if len(st.Records) == 0 {
		b.WriteString(SubtitleStyle.Render(records.EmptyMessage))
		b.WriteString("\n")
	} else {
		b.WriteString(p.table.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(RenderPagination(st.Pagination()))
	b.WriteString("\n")

	switch p.mode {
	case modeForm:
		b.WriteString("\n")
		b.WriteString(p.form.view())
	case modeSearchInput:
		b.WriteString("\n")
		b.WriteString(p.search.View())
		b.WriteString("\n")
	case modeSearchResults:
		b.WriteString("\n")
		b.WriteString(renderSearchOverlay(st.Search, p.dateLayout, p.width))
		b.WriteString("\n")
	}

	return b.String()
}

// ConfirmView renders the delete confirmation modal
func (p Panel) ConfirmView() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		RenderTitle("Delete record?"),
		p.target.Summary(),
		"",
		RenderHelp("y delete • n keep"),
	)
	return ModalStyle.Width(SafeModalWidth(50, p.width)).Render(body)
}

// recordRow returns the table cells for r with dates in layout
func recordRow(r records.Record, layout string) []string {
	row := r.Row()
	row[len(row)-1] = r.FormatDateLayout(layout)
	return row
}

// renderStaticTable draws rows without selection, for the search overlay
func renderStaticTable(rows [][]string) string {
	t := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(SubtleColor)).
		Headers(records.Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.Render()
}
