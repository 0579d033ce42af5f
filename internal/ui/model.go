// Package ui is the interactive catalog browser: a Bubble Tea model over
// the browse state, painting rendered pages as cards or a compact table.
package ui

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/showroom/internal/browse"
	"github.com/oakwood-commons/showroom/internal/catalog"
	"github.com/oakwood-commons/showroom/internal/formatter"
	"github.com/oakwood-commons/showroom/internal/pager"
	"github.com/oakwood-commons/showroom/internal/render"
	"github.com/oakwood-commons/showroom/internal/ui/table"
	"github.com/oakwood-commons/showroom/pkg/logger"
)

// probeResultMsg carries the broken thumbnails found by a probe command.
type probeResultMsg struct {
	failures []render.Failure
	err      error
}

// Model is the browser state. Every input goes through browse.State.Reduce;
// the derived sequence, page and rendered node tree are recomputed from it.
type Model struct {
	Records    []*catalog.Record
	Engine     *browse.Engine
	Renderer   *render.Renderer
	Prober     render.Prober
	ProbeLimit int

	State    browse.State
	Derived  []*catalog.Record
	Page     pager.Page
	PageNode *render.Node

	SearchInput textinput.Model
	Viewport    viewport.Model
	Table       *table.Model[*catalog.Record]
	Status      StatusModel
	Footer      FooterModel
	Help        HelpModel

	TableView bool
	NoColor   bool
	AppName   string
	WinWidth  int
	WinHeight int
	LastKey   string

	ctx    context.Context
	probed map[string]bool
}

// Option configures a Model.
type Option func(*Model)

// WithEngine sets the filter/sort engine.
func WithEngine(e *browse.Engine) Option {
	return func(m *Model) { m.Engine = e }
}

// WithRenderer sets the page renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(m *Model) { m.Renderer = r }
}

// WithProber enables thumbnail probing with at most limit probes in flight.
func WithProber(p render.Prober, limit int) Option {
	return func(m *Model) {
		m.Prober = p
		m.ProbeLimit = limit
	}
}

// WithState sets the initial view state.
func WithState(s browse.State) Option {
	return func(m *Model) { m.State = s }
}

// WithNoColor disables styling.
func WithNoColor(noColor bool) Option {
	return func(m *Model) { m.NoColor = noColor }
}

// WithAppName sets the title shown in the header.
func WithAppName(name string) Option {
	return func(m *Model) {
		if strings.TrimSpace(name) != "" {
			m.AppName = strings.TrimSpace(name)
		}
	}
}

// WithSize sets the initial window size.
func WithSize(width, height int) Option {
	return func(m *Model) {
		if width > 0 {
			m.WinWidth = width
		}
		if height > 0 {
			m.WinHeight = height
		}
	}
}

// WithContext sets the context probe commands run under.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// NewModel builds a browser over records and renders the first page.
func NewModel(records []*catalog.Record, opts ...Option) *Model {
	m := &Model{
		Records:    records,
		Engine:     browse.NewEngine(),
		Renderer:   render.New(catalog.DefaultSchema()),
		ProbeLimit: render.DefaultProbeLimit,
		State:      browse.NewState(),
		AppName:    "showroom",
		WinWidth:   80,
		WinHeight:  24,
		ctx:        context.Background(),
		probed:     map[string]bool{},
	}
	for _, opt := range opts {
		opt(m)
	}

	si := textinput.New()
	si.Prompt = "/"
	si.Placeholder = "name"
	si.CharLimit = 200
	si.SetValue(m.State.Search)
	m.SearchInput = si

	m.Viewport = viewport.New(viewport.WithWidth(m.WinWidth), viewport.WithHeight(m.WinHeight))

	columns := make([]table.Column, len(formatter.Columns))
	for i, name := range formatter.Columns {
		columns[i] = table.Column{Title: name, Width: len(name)}
	}
	m.Table = table.NewModel(columns,
		func(r *catalog.Record) table.Row { return formatter.TableRow(r, m.Renderer) },
	)

	m.Status = NewStatusModel(m.AppName)
	m.Footer = NewFooterModel()
	m.Help = NewHelpModel()

	m.ApplyColorScheme()
	m.refresh(true)
	return m
}

// ApplyColorScheme pushes the current theme into the components.
func (m *Model) ApplyColorScheme() {
	th := CurrentTheme()
	m.Table.SetNoColor(m.NoColor)
	if !m.NoColor {
		m.Table.SetColors(th.Heading, th.HeaderBG, th.Accent)
	}
}

// Init starts probing the thumbnails of the first page.
func (m *Model) Init() tea.Cmd {
	return m.probeCmd()
}

// refresh re-derives the sequence from the state and re-renders the page.
func (m *Model) refresh(resetScroll bool) {
	m.Derived = m.Engine.Derive(m.Records, m.State)
	m.Page = pager.Paginate(len(m.Derived), m.State.Page, pager.DefaultSize)
	m.State.Page = m.Page.Number
	m.Table.SetRows(pager.Slice(m.Derived, m.Page))
	m.render()
	if resetScroll {
		m.Viewport.GotoTop()
	}
}

// render rebuilds the node tree of the current page and the components
// showing it, keeping the scroll position.
func (m *Model) render() {
	m.PageNode = m.Renderer.Page(m.Derived, m.Page)
	m.syncComponents()
	m.applyLayout()
	m.Viewport.SetContent(m.cardsView())
}

func (m *Model) cardsView() string {
	return strings.TrimRight(m.cardsText(-1), "\n")
}

// cardsText renders the first n cards of the page, or all of them when n
// is negative.
func (m *Model) cardsText(n int) string {
	cards := &render.Node{Kind: render.KindPage}
	for _, c := range m.PageNode.Children {
		if c.Kind != render.KindCard {
			continue
		}
		if n >= 0 && len(cards.Children) == n {
			break
		}
		cards.Add(c)
	}
	return formatter.FormatText(cards, formatter.TextOptions{NoColor: m.NoColor, Width: m.WinWidth})
}

// openSelected leaves the table view with the card of the selected row
// scrolled to the top.
func (m *Model) openSelected() {
	m.TableView = false
	m.Table.Blur()
	sel := m.Table.SelectedRow()
	if sel == nil {
		return
	}
	for i, rec := range pager.Slice(m.Derived, m.Page) {
		if rec == *sel {
			m.Viewport.SetYOffset(strings.Count(m.cardsText(i), "\n"))
			return
		}
	}
}

func (m *Model) syncComponents() {
	m.Status.AppName = m.AppName
	m.Status.Search = m.State.Search
	m.Status.Editing = m.SearchInput.Focused()
	m.Status.SearchView = m.SearchInput.View()
	m.Status.Filter = m.State.Filter
	m.Status.Sort = m.State.Sort
	m.Status.NoColor = m.NoColor
	m.Status.Width = m.WinWidth

	m.Footer.Controls = m.PageNode.Find(render.KindControls)
	if st := m.PageNode.Find(render.KindStatus); st != nil {
		m.Footer.Status = st.Text
	}
	m.Footer.NoColor = m.NoColor
	m.Footer.Width = m.WinWidth

	m.Help.NoColor = m.NoColor
	m.Help.Width = m.WinWidth
}

// applyLayout gives the body whatever the header, footer and the two
// rules leave of the window.
func (m *Model) applyLayout() {
	used := lipgloss.Height(m.Status.View()) + lipgloss.Height(m.Footer.View()) + 2
	body := max(m.WinHeight-used, 1)
	m.Viewport.SetWidth(m.WinWidth)
	m.Viewport.SetHeight(body)
	m.Table.SetSize(m.WinWidth, body)
	m.Table.FitColumns(m.WinWidth)
}

// dispatch reduces a into the state and re-renders when it changed.
func (m *Model) dispatch(a browse.Action) tea.Cmd {
	before := m.State
	m.State = m.State.Reduce(a, len(m.Derived))
	if m.State == before {
		return nil
	}
	m.refresh(true)
	return m.probeCmd()
}

// probeCmd probes the thumbnails of the current page that were not probed
// before. Each source is probed at most once per session.
func (m *Model) probeCmd() tea.Cmd {
	if m.Prober == nil {
		return nil
	}
	var srcs []string
	for _, src := range m.Renderer.Sources(pager.Slice(m.Derived, m.Page)) {
		if m.probed[src] {
			continue
		}
		m.probed[src] = true
		srcs = append(srcs, src)
	}
	if len(srcs) == 0 {
		return nil
	}
	ctx, prober, limit := m.ctx, m.Prober, m.ProbeLimit
	return func() tea.Msg {
		failures, err := render.ProbeAll(ctx, prober, srcs, limit)
		return probeResultMsg{failures: failures, err: err}
	}
}

// Update handles one message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width == m.WinWidth && msg.Height == m.WinHeight {
			return m, nil
		}
		m.WinWidth = msg.Width
		m.WinHeight = msg.Height
		m.render()
		return m, nil

	case probeResultMsg:
		if msg.err != nil {
			logger.FromContext(m.ctx).V(1).Info("thumbnail probe stopped", "error", msg.err.Error())
			return m, nil
		}
		if m.Renderer.Fallbacks.MarkFailures(msg.failures) > 0 {
			m.render()
		}
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	m.LastKey = key

	if m.Help.Visible {
		switch key {
		case "?", "esc", "q":
			m.Help.Visible = false
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	if m.SearchInput.Focused() {
		switch key {
		case "ctrl+c":
			return m, tea.Quit
		case "enter", "esc":
			m.SearchInput.Blur()
			m.syncComponents()
			return m, nil
		}
		var cmd tea.Cmd
		m.SearchInput, cmd = m.SearchInput.Update(msg)
		var probe tea.Cmd
		if v := m.SearchInput.Value(); v != m.State.Search {
			probe = m.dispatch(browse.SetSearch(v))
		} else {
			m.syncComponents()
		}
		return m, tea.Batch(cmd, probe)
	}

	action, n := ActionFor(key)
	switch action {
	case ActionSearch:
		cmd := m.SearchInput.Focus()
		m.SearchInput.CursorEnd()
		m.syncComponents()
		return m, cmd
	case ActionFilter:
		return m, m.dispatch(browse.SetFilter(m.State.Filter.Next()))
	case ActionSort:
		return m, m.dispatch(browse.SetSort(m.State.Sort.Next()))
	case ActionPrev:
		return m, m.dispatch(browse.PrevPage())
	case ActionNext:
		return m, m.dispatch(browse.NextPage())
	case ActionFirst:
		return m, m.dispatch(browse.FirstPage())
	case ActionLast:
		return m, m.dispatch(browse.LastPage())
	case ActionButton:
		buttons := render.PageButtons(m.PageNode.Find(render.KindControls))
		if n <= len(buttons) {
			return m, m.dispatch(browse.GotoPage(buttons[n-1].Page))
		}
	case ActionTable:
		m.TableView = !m.TableView
		if m.TableView {
			m.Table.Focus()
		} else {
			m.Table.Blur()
		}
	case ActionOpen:
		if m.TableView {
			m.openSelected()
		}
	case ActionScrollUp, ActionScrollDown, ActionPageUp, ActionPageDown:
		return m, m.scroll(action, msg)
	case ActionHelp:
		m.Help.Visible = true
	case ActionQuit:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) scroll(action Action, msg tea.KeyPressMsg) tea.Cmd {
	if m.TableView {
		var cmd tea.Cmd
		m.Table, cmd = m.Table.Update(msg)
		return cmd
	}
	switch action {
	case ActionScrollUp:
		m.Viewport.ScrollUp(1)
	case ActionScrollDown:
		m.Viewport.ScrollDown(1)
	case ActionPageUp:
		m.Viewport.PageUp()
	case ActionPageDown:
		m.Viewport.PageDown()
	}
	return nil
}

// View renders the full screen.
func (m *Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	return v
}

// Render returns the screen as a string: header, body, footer.
func (m *Model) Render() string {
	m.syncComponents()
	var body string
	switch {
	case m.Help.Visible:
		body = m.Help.View()
	case m.TableView:
		body = m.Table.View()
	default:
		body = m.Viewport.View()
	}
	rule := strings.Repeat("─", max(m.WinWidth, 1))
	if !m.NoColor {
		rule = lipgloss.NewStyle().Foreground(CurrentTheme().Separator).Render(rule)
	}
	return strings.Join([]string{m.Status.View(), rule, body, rule, m.Footer.View()}, "\n")
}
