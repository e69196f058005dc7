package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/flix/internal/events"
	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/pages"
	"github.com/desertthunder/flix/internal/router"
	"github.com/desertthunder/flix/internal/services"
	"github.com/desertthunder/flix/internal/shared"
	"github.com/desertthunder/flix/internal/storage"
	"github.com/desertthunder/flix/internal/tasks"
	"github.com/desertthunder/flix/internal/views"
	"golang.org/x/time/rate"
)

const (
	defaultSearchDebounce = 300 * time.Millisecond
	navbarDebounce        = 100 * time.Millisecond
	wheelInterval         = 80 * time.Millisecond
	defaultWidth          = 100

	heroSectionHeight = 13
	rowSectionHeight  = 7
	headerHeight      = 2
)

// Options are the dependencies of [Model].
type Options struct {
	Router    *router.Router[pages.Content]
	Store     *storage.Adapter
	Catalog   services.Catalog
	Bus       *events.Bus
	Engine    tasks.Engine
	Config    shared.UIConfig
	ImageBase string
	Route     string // initial URL fragment, e.g. "#/movies"
	Logger    *log.Logger
	Now       func() time.Time
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	router  *router.Router[pages.Content]
	store   *storage.Adapter
	catalog services.Catalog
	engine  tasks.Engine
	logger  *log.Logger
	now     func() time.Time

	route        string
	imageBase    string
	heroSlides   int
	heroInterval time.Duration
	debounce     time.Duration
	searchLimit  int

	width   int
	height  int
	palette *views.Palette
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	input   textinput.Model
	wheel   *rate.Sometimes

	autoplay bool
	quality  string

	content      pages.Content
	err          error
	hero         *views.Hero
	heroHover    bool
	rows         []views.Row
	focus        int
	scroll       int
	gridSel      int
	confirmClear bool

	collapsed   bool
	collapseTag int

	modal    *views.Modal
	modalSeq int

	searching bool
	search    views.SearchPanel
	searchTag int

	toast    views.Toast
	toastTag int
	badge    int

	refreshing   bool
	progress     tasks.ProgressUpdate
	progressChan chan tasks.ProgressUpdate
	refreshDone  chan Msg

	unsubs []func()
	after  []tea.Cmd
}

// NewModel creates a new TUI model with the provided dependencies.
//
// The model subscribes to watchlist and preference events on opts.Bus; call [Model.Close] when
// the program exits.
func NewModel(ctx context.Context, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	bus := opts.Bus
	if bus == nil {
		bus = events.NewBus()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	m := &Model{
		ctx:          ctx,
		router:       opts.Router,
		store:        opts.Store,
		catalog:      opts.Catalog,
		engine:       opts.Engine,
		logger:       logger.WithPrefix("ui"),
		now:          now,
		route:        opts.Route,
		imageBase:    opts.ImageBase,
		heroSlides:   opts.Config.HeroSlides,
		heroInterval: opts.Config.HeroInterval.Duration,
		debounce:     opts.Config.SearchDebounce.Duration,
		searchLimit:  opts.Config.SearchLimit,
		keys:         newKeyMap(),
		help:         help.New(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		wheel:        &rate.Sometimes{Interval: wheelInterval},
		badge:        opts.Store.Count(),
	}
	if m.heroInterval <= 0 {
		m.heroInterval = views.DefaultHeroInterval
	}
	if m.debounce <= 0 {
		m.debounce = defaultSearchDebounce
	}

	m.input = textinput.New()
	m.input.Placeholder = "Search movies and TV shows"
	m.input.Prompt = "⌕ "
	m.input.CharLimit = 100

	m.applyPreferences(opts.Store.Preferences())

	m.unsubs = append(m.unsubs,
		events.Subscribe(bus, func(ev events.WatchlistChanged) { m.badge = ev.Count }),
		events.Subscribe(bus, func(ev events.WatchlistChanged) {
			m.after = append(m.after, m.showToast(views.ToastMessage(ev)))
		}),
		events.Subscribe(bus, func(events.WatchlistChanged) { m.syncSaved() }),
		events.Subscribe(bus, func(ev events.PreferencesChanged) { m.applyPreferences(ev.Preferences) }),
	)
	return m
}

// Close drops event subscriptions and cancels the in-flight page render.
func (m *Model) Close() {
	for _, cancel := range m.unsubs {
		cancel()
	}
	m.unsubs = nil
	m.router.Close()
}

// Init renders the initial route.
func (m *Model) Init() tea.Cmd {
	return m.navigate(m.route)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	if len(m.after) > 0 {
		cmd = tea.Batch(append([]tea.Cmd{cmd}, m.after...)...)
		m.after = nil
	}
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(20, min(60, msg.Width-12))
		return nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case spinner.TickMsg:
		if !m.router.Loading() {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case Msg:
		return m.handleMsg(msg)
	}
	return nil
}

func (m *Model) handleMsg(msg Msg) tea.Cmd {
	switch msg.kind {
	case MsgPageLoaded:
		res := msg.data.(router.Result[pages.Content])
		if !m.router.Accept(res) {
			return nil
		}
		if res.Err != nil {
			m.err = res.Err
			m.logger.Error("page failed", "path", res.Path, "error", res.Err)
			return nil
		}
		m.setContent(res.Value)
		m.syncHero()
		return m.scheduleHero()

	case MsgHeroTick:
		tick := msg.data.(heroTick)
		if tick.hero != m.hero || !m.autoplay {
			return nil
		}
		if m.hero.Advance(tick.tag) {
			return m.scheduleHero()
		}
		return nil

	case MsgDetailsLoaded:
		res := msg.data.(detailsResult)
		if m.modal == nil || res.seq != m.modal.Seq {
			return nil
		}
		m.modal.Loading = false
		m.modal.Err = res.err
		m.modal.Details = res.details
		if res.details != nil {
			m.modal.PosterURL = services.ImageURL(m.imageBase, res.details.PosterPath, services.SizeForQuality(m.quality), services.AssetPoster)
		}
		return nil

	case MsgSearchDebounce:
		tag := msg.data.(int)
		if !m.searching || tag != m.searchTag {
			return nil
		}
		return m.runSearch(tag, m.search.Query)

	case MsgSearchResults:
		res := msg.data.(searchResult)
		if !m.searching || res.tag != m.searchTag {
			return nil
		}
		m.search.Loading = false
		m.search.Err = res.err
		m.search.Results = views.FilterResults(res.items, m.searchLimit)
		m.search.Selected = 0
		return nil

	case MsgToastExpired:
		if msg.data.(int) == m.toast.Tag {
			m.toast = views.Toast{}
		}
		return nil

	case MsgNavbarCollapse:
		if msg.data.(int) == m.collapseTag {
			m.collapsed = m.scroll > 0
		}
		return nil

	case MsgBrowserOpened:
		if err, _ := msg.data.(error); err != nil {
			m.logger.Warn("could not open browser", "error", err)
			return m.showToast("Could not open a browser")
		}
		return nil

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m.waitForProgress()

	case MsgRefreshComplete:
		res := msg.data.(refreshResult)
		m.refreshing = false
		m.progressChan, m.refreshDone = nil, nil
		if res.err != nil {
			m.logger.Error("watchlist refresh failed", "error", res.err)
			return m.showToast("Refresh failed")
		}
		return tea.Batch(
			m.showToast(fmt.Sprintf("Refreshed %d of %d titles", res.result.Refreshed, res.result.Total)),
			m.reload(),
		)
	}
	return nil
}

// navigate starts rendering fragment. Results from earlier navigations are discarded on arrival.
func (m *Model) navigate(fragment string) tea.Cmd {
	ctx, nav := m.router.Navigate(m.ctx, fragment)

	m.content = pages.Content{}
	m.err = nil
	m.hero = nil
	m.heroHover = false
	m.rows = nil
	m.focus = 0
	m.gridSel = 0
	m.confirmClear = false

	render := func() tea.Msg { return pageLoadedMsg(m.router.Render(ctx, nav)) }
	return tea.Batch(m.spinner.Tick, render, m.setScroll(0))
}

// reload re-renders the current route keeping the watchlist selection.
func (m *Model) reload() tea.Cmd {
	sel := m.gridSel
	cmd := m.navigate(m.router.Current())
	m.gridSel = sel
	return cmd
}

func (m *Model) setContent(c pages.Content) {
	m.content = c
	if len(c.Hero) > 0 {
		m.hero = views.NewHero(c.Hero, m.heroSlides)
	}
	m.rows = make([]views.Row, len(c.Rows))
	for i, r := range c.Rows {
		m.rows[i] = views.NewRow(r.Title, r.Items, m.store.Contains)
	}
	if m.hero != nil && len(m.rows) > 0 {
		m.focus = 1
	}
	m.gridSel = shared.Clamp(m.gridSel, 0, max(0, len(c.Watchlist)-1))
}

func (m *Model) applyPreferences(prefs models.Preferences) {
	m.palette = views.NewPalette(prefs.String("theme", views.ThemeDark))
	m.quality = prefs.String("quality", "auto")

	was := m.autoplay
	m.autoplay = prefs.Bool("autoplay", true)
	if m.hero == nil || was == m.autoplay {
		return
	}
	m.hero.Reset()
	if m.autoplay {
		m.after = append(m.after, m.scheduleHero())
	}
}

// syncSaved refreshes watchlist markers after a mutation.
func (m *Model) syncSaved() {
	for i := range m.rows {
		for j := range m.rows[i].Cards {
			m.rows[i].Cards[j].Saved = m.store.Contains(m.rows[i].Cards[j].Item)
		}
	}
	if m.modal != nil {
		m.modal.Saved = m.store.Contains(m.modal.Item)
	}
	if m.router.Current() == router.WatchlistPath {
		m.after = append(m.after, m.reload())
	}
}

func (m *Model) showToast(message string) tea.Cmd {
	m.toastTag++
	tag := m.toastTag
	m.toast = views.Toast{Message: message, Tag: tag}
	return tea.Tick(views.DefaultToastDuration, func(time.Time) tea.Msg { return toastExpiredMsg(tag) })
}

// scheduleHero arms the rotation timer for the current hero and tag.
func (m *Model) scheduleHero() tea.Cmd {
	if m.hero == nil || m.hero.Len() < 2 || !m.autoplay || m.hero.Paused() {
		return nil
	}
	hero, tag := m.hero, m.hero.Tag()
	return tea.Tick(m.heroInterval, func(time.Time) tea.Msg { return heroTickMsg(hero, tag) })
}

func (m *Model) heroFocused() bool {
	return m.hero != nil && m.focus == 0
}

// syncHero pauses rotation while the hero is hovered or focused.
func (m *Model) syncHero() tea.Cmd {
	if m.hero == nil {
		return nil
	}
	if m.heroFocused() || m.heroHover {
		m.hero.Pause()
		return nil
	}
	if m.hero.Resume() {
		return m.scheduleHero()
	}
	return nil
}

func (m *Model) setScroll(n int) tea.Cmd {
	if n == m.scroll {
		return nil
	}
	m.scroll = n
	m.collapseTag++
	tag := m.collapseTag
	return tea.Tick(navbarDebounce, func(time.Time) tea.Msg { return navbarCollapseMsg(tag) })
}

func (m *Model) sections() int {
	n := len(m.rows)
	if m.hero != nil {
		n++
	}
	return n
}

func (m *Model) sectionHeight(i int) int {
	if m.hero != nil && i == 0 {
		return heroSectionHeight
	}
	return rowSectionHeight
}

// moveFocus shifts keyboard focus between the hero and rows, scrolling to keep it visible.
func (m *Model) moveFocus(delta int) tea.Cmd {
	n := m.sections()
	if n == 0 {
		return nil
	}
	m.focus = shared.Clamp(m.focus+delta, 0, n-1)

	scroll := min(m.scroll, m.focus)
	avail := max(rowSectionHeight, m.height-headerHeight-3)
	for scroll < m.focus {
		used := 0
		for i := scroll; i <= m.focus; i++ {
			used += m.sectionHeight(i)
		}
		if used <= avail {
			break
		}
		scroll++
	}
	return tea.Batch(m.syncHero(), m.setScroll(scroll))
}

func (m *Model) focusedRow() *views.Row {
	i := m.focus
	if m.hero != nil {
		i--
	}
	if i < 0 || i >= len(m.rows) {
		return nil
	}
	return &m.rows[i]
}

// selectedItem is the title under keyboard focus.
func (m *Model) selectedItem() (models.MediaItem, bool) {
	if m.router.Current() == router.WatchlistPath {
		if m.gridSel < len(m.content.Watchlist) {
			return m.content.Watchlist[m.gridSel].MediaItem, true
		}
		return models.MediaItem{}, false
	}
	if m.heroFocused() {
		return m.hero.Current()
	}
	if row := m.focusedRow(); row != nil {
		return row.SelectedItem()
	}
	return models.MediaItem{}, false
}

func (m *Model) viewWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m *Model) handleKeys(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.forceQuit) {
		return tea.Quit
	}
	switch {
	case m.searching:
		return m.handleSearchKeys(msg)
	case m.modal != nil:
		return m.handleModalKeys(msg)
	case m.confirmClear:
		return m.handleConfirmKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.search):
		return m.openSearch()
	case key.Matches(msg, m.keys.nextTab):
		return m.navigate(m.nextRoute())
	case key.Matches(msg, m.keys.theme):
		next := views.ThemeLight
		if m.palette.Theme == views.ThemeLight {
			next = views.ThemeDark
		}
		m.store.SetPreference("theme", next)
		return m.showToast(shared.Capitalize(next) + " theme")
	case key.Matches(msg, m.keys.autoplay):
		m.store.SetPreference("autoplay", !m.autoplay)
		if m.autoplay {
			return m.showToast("Autoplay on")
		}
		return m.showToast("Autoplay off")
	case key.Matches(msg, m.keys.retry) && m.err != nil:
		return m.navigate(m.router.Current())
	}
	for i, b := range m.keys.tabs {
		if key.Matches(msg, b) {
			if routes := m.router.Routes(); i < len(routes) {
				return m.navigate(routes[i].Path)
			}
			return nil
		}
	}

	if m.router.Loading() || m.err != nil {
		return nil
	}
	if m.router.Current() == router.WatchlistPath {
		return m.handleWatchlistKeys(msg)
	}
	return m.handleBrowseKeys(msg)
}

func (m *Model) nextRoute() string {
	routes := m.router.Routes()
	for i, r := range routes {
		if m.router.IsActive(r.Path) {
			return routes[(i+1)%len(routes)].Path
		}
	}
	return router.HomePath
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) tea.Cmd {
	width := m.viewWidth()
	switch {
	case key.Matches(msg, m.keys.up):
		return m.moveFocus(-1)
	case key.Matches(msg, m.keys.down):
		return m.moveFocus(1)
	case key.Matches(msg, m.keys.heroPrev), key.Matches(msg, m.keys.left) && m.heroFocused():
		if m.hero != nil && m.hero.Prev() {
			return m.scheduleHero()
		}
	case key.Matches(msg, m.keys.heroNext), key.Matches(msg, m.keys.right) && m.heroFocused():
		if m.hero != nil && m.hero.Next() {
			return m.scheduleHero()
		}
	case key.Matches(msg, m.keys.pageLeft):
		if row := m.focusedRow(); row != nil {
			row.Scroll(-1, width)
		}
	case key.Matches(msg, m.keys.pageRight):
		if row := m.focusedRow(); row != nil {
			row.Scroll(1, width)
		}
	case key.Matches(msg, m.keys.left):
		if row := m.focusedRow(); row != nil {
			row.Select(row.Selected-1, width)
		}
	case key.Matches(msg, m.keys.right):
		if row := m.focusedRow(); row != nil {
			row.Select(row.Selected+1, width)
		}
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.selectedItem(); ok {
			return m.openModal(item)
		}
	case key.Matches(msg, m.keys.toggle):
		if item, ok := m.selectedItem(); ok {
			m.store.Toggle(item)
		}
	}
	return nil
}

func (m *Model) handleWatchlistKeys(msg tea.KeyMsg) tea.Cmd {
	n := len(m.content.Watchlist)
	per := views.PerPage(m.viewWidth())
	move := func(delta int) {
		if n > 0 {
			m.gridSel = shared.Clamp(m.gridSel+delta, 0, n-1)
		}
	}

	switch {
	case key.Matches(msg, m.keys.left):
		move(-1)
	case key.Matches(msg, m.keys.right):
		move(1)
	case key.Matches(msg, m.keys.up):
		move(-per)
	case key.Matches(msg, m.keys.down):
		move(per)
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.selectedItem(); ok {
			return m.openModal(item)
		}
	case key.Matches(msg, m.keys.toggle):
		if item, ok := m.selectedItem(); ok {
			m.store.Remove(item)
		}
	case key.Matches(msg, m.keys.clear):
		m.confirmClear = n > 0
	case key.Matches(msg, m.keys.browse):
		return m.navigate(router.HomePath)
	case key.Matches(msg, m.keys.refresh):
		return m.startRefresh()
	}
	return nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.confirmClear = false
		m.store.ClearWatchlist()
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.confirmClear = false
	}
	return nil
}

func (m *Model) handleModalKeys(msg tea.KeyMsg) tea.Cmd {
	item := m.modal.Item
	switch {
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.modal = nil
	case key.Matches(msg, m.keys.toggle):
		m.store.Toggle(item)
	case key.Matches(msg, m.keys.open):
		url := shared.TitleURL(string(item.Kind()), item.ID)
		return func() tea.Msg { return browserOpenedMsg(shared.OpenBrowser(url)) }
	case key.Matches(msg, m.keys.retry) && m.modal.Err != nil:
		return m.openModal(item)
	}
	return nil
}

// openModal shows item and loads its details. Responses for an earlier modal are dropped.
func (m *Model) openModal(item models.MediaItem) tea.Cmd {
	m.modalSeq++
	seq := m.modalSeq
	m.modal = &views.Modal{Item: item, Loading: true, Seq: seq, Saved: m.store.Contains(item)}

	ctx, catalog := m.ctx, m.catalog
	kind, id := item.Kind(), item.ID
	return func() tea.Msg {
		details, err := catalog.Details(ctx, kind, id)
		return detailsLoadedMsg(seq, details, err)
	}
}

func (m *Model) openSearch() tea.Cmd {
	m.searching = true
	m.searchTag++
	m.input.SetValue("")
	m.search = views.SearchPanel{History: m.store.SearchHistory()}
	return m.input.Focus()
}

func (m *Model) closeSearch() {
	m.searching = false
	m.searchTag++
	m.input.Blur()
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.closeSearch()
		return nil
	case "up":
		m.search.Selected = max(0, m.search.Selected-1)
		return nil
	case "down":
		m.search.Selected = shared.Clamp(m.search.Selected+1, 0, max(0, m.search.Options()-1))
		return nil
	case "enter":
		return m.submitSearch()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return cmd
	}

	m.searchTag++
	tag := m.searchTag
	m.search.Query = m.input.Value()
	m.search.Selected = 0
	m.search.Err = nil
	if m.search.ShowingHistory() {
		m.search.Results = nil
		m.search.Loading = false
		m.search.History = m.store.SearchHistory()
		return cmd
	}
	m.search.Loading = true
	return tea.Batch(cmd, tea.Tick(m.debounce, func(time.Time) tea.Msg { return searchDebounceMsg(tag) }))
}

// submitSearch records the query and opens the selected result, or runs the selected past search.
func (m *Model) submitSearch() tea.Cmd {
	if m.search.ShowingHistory() {
		if m.search.Selected >= len(m.search.History) {
			return nil
		}
		query := m.search.History[m.search.Selected]
		m.input.SetValue(query)
		m.input.CursorEnd()
		m.search.Query = query
	}

	query := strings.TrimSpace(m.search.Query)
	m.store.RecordSearch(query)

	if m.search.Selected < len(m.search.Results) && !m.search.Loading {
		item := m.search.Results[m.search.Selected]
		m.closeSearch()
		return m.openModal(item)
	}

	m.searchTag++
	m.search.Loading = true
	m.search.Selected = 0
	return m.runSearch(m.searchTag, query)
}

func (m *Model) runSearch(tag int, query string) tea.Cmd {
	ctx, catalog := m.ctx, m.catalog
	return func() tea.Msg {
		page, err := catalog.Search(ctx, query, 1)
		var items []models.MediaItem
		if page != nil {
			items = page.Results
		}
		return searchResultsMsg(tag, query, items, err)
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.searching || m.modal != nil || m.router.Current() == router.WatchlistPath {
		return nil
	}

	if msg.Action == tea.MouseActionMotion {
		if hover := m.inHero(msg.Y); hover != m.heroHover {
			m.heroHover = hover
			return m.syncHero()
		}
		return nil
	}

	var delta int
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		delta = -1
	case tea.MouseButtonWheelDown:
		delta = 1
	default:
		return nil
	}
	var cmd tea.Cmd
	m.wheel.Do(func() { cmd = m.moveFocus(delta) })
	return cmd
}

// inHero reports whether screen row y falls on the hero banner.
func (m *Model) inHero(y int) bool {
	if m.hero == nil || m.scroll > 0 {
		return false
	}
	h := lipgloss.Height(m.hero.Render(m.palette, m.viewWidth(), false, false))
	return y >= headerHeight && y < headerHeight+h
}

// startRefresh re-fetches every saved title in the background, streaming progress.
func (m *Model) startRefresh() tea.Cmd {
	if m.engine == nil || m.refreshing || len(m.content.Watchlist) == 0 {
		return nil
	}
	m.refreshing = true
	m.progress = tasks.ProgressUpdate{}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.progressChan, m.refreshDone = progress, done

	ctx, engine := m.ctx, m.engine
	go func() {
		result, err := engine.Refresh(ctx, progress, tasks.RefreshOpts{})
		done <- refreshCompleteMsg(result, err)
		close(progress)
	}()
	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.refreshDone
	if progress == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

// View renders the UI based on the current state.
func (m *Model) View() string {
	p, width := m.palette, m.viewWidth()

	navbar := views.Navbar{Routes: m.router.Routes(), Active: m.router.Current(), Count: m.badge, Collapsed: m.collapsed}
	header := navbar.Render(p, width) + "\n"

	var body string
	switch {
	case m.searching:
		m.search.Input = m.input.View()
		body = m.search.Render(p, width)
	case m.modal != nil:
		body = m.modal.Render(p, width)
	case m.router.Loading():
		body = m.spinner.View() + " Loading...\n\n" + views.LoadingRow("", 0).Render(p, width, false)
	case m.err != nil:
		body = views.ErrorPanel(p, m.err, width)
	case m.router.Current() == router.WatchlistPath:
		body = m.renderWatchlist()
	default:
		body = m.renderBrowse()
	}

	footer := m.help.ShortHelpView(m.helpKeys())
	if toast := m.toast.Render(p); toast != "" {
		footer = toast + "\n" + footer
	}

	if m.height > 0 {
		body = clip(body, m.height-headerHeight-lipgloss.Height(footer)-1)
	}
	return header + "\n" + body + "\n" + footer
}

func (m *Model) renderBrowse() string {
	p, width := m.palette, m.viewWidth()
	var parts []string
	if m.content.Path != router.HomePath && m.content.Title != "" {
		parts = append(parts, p.Title(m.content.Title)+"\n"+p.Subtitle(m.content.Subtitle))
	}
	if m.content.Empty() {
		return strings.Join(append(parts, p.Muted("Nothing to show here right now.")), "\n\n")
	}

	for i := m.scroll; i < m.sections(); i++ {
		if m.hero != nil && i == 0 {
			item, _ := m.hero.Current()
			parts = append(parts, m.hero.Render(p, width, m.store.Contains(item), m.heroFocused()))
			continue
		}
		r := i
		if m.hero != nil {
			r--
		}
		parts = append(parts, m.rows[r].Render(p, width, i == m.focus))
	}
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderWatchlist() string {
	p, width := m.palette, m.viewWidth()
	head := p.Title(m.content.Title) + "\n" + p.Subtitle(m.content.Subtitle)

	switch {
	case len(m.content.Watchlist) == 0:
		return head + "\n\n" + views.EmptyWatchlistPanel(p, width)
	case m.confirmClear:
		return head + "\n\n" + views.ConfirmPanel(p, fmt.Sprintf("Remove all %d titles from your list?", len(m.content.Watchlist)), width)
	}

	body := views.WatchlistGrid(p, m.content.Watchlist, m.gridSel, width, m.now())
	if m.refreshing {
		body = p.Muted(fmt.Sprintf("%s Refreshing %d/%d %s", m.spinner.View(), m.progress.Step, m.progress.Total, m.progress.Message)) + "\n\n" + body
	}
	return head + "\n\n" + body
}

func (m *Model) helpKeys() []key.Binding {
	k := m.keys
	switch {
	case m.searching:
		return []key.Binding{k.enter, k.back}
	case m.modal != nil:
		if m.modal.Err != nil {
			return []key.Binding{k.retry, k.back}
		}
		return []key.Binding{k.toggle, k.open, k.back}
	case m.confirmClear:
		return []key.Binding{k.yes, k.no}
	case m.err != nil:
		return []key.Binding{k.retry, k.nextTab, k.quit}
	case m.router.Current() == router.WatchlistPath:
		return []key.Binding{k.enter, k.toggle, k.clear, k.refresh, k.search, k.quit}
	}
	return []key.Binding{k.enter, k.toggle, k.heroPrev, k.heroNext, k.search, k.nextTab, k.quit}
}

func clip(s string, lines int) string {
	if lines <= 0 {
		return ""
	}
	parts := strings.Split(s, "\n")
	if len(parts) <= lines {
		return s
	}
	return strings.Join(parts[:lines], "\n")
}
