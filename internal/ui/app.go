package ui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/oophub/internal/api"
	"github.com/gravitrone/oophub/internal/appdata"
	"github.com/gravitrone/oophub/internal/search"
	"github.com/gravitrone/oophub/internal/ui/components"
)

type focusArea int

const (
	focusTopics focusArea = iota
	focusContent
	focusTags
	focusSearch
)

// HealthChecker probes the backend at startup. *api.Client satisfies it.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Options wires the UI to its data sources.
type Options struct {
	Source appdata.Source
	// Searcher serves remote search; nil forces local search.
	Searcher search.Searcher
	Health   HealthChecker
	Mode     search.Mode
	Debounce time.Duration
	Limit    int
	Logger   *slog.Logger
	VimKeys  bool
	// APIURL is shown in the status line.
	APIURL string
}

// --- Messages ---

// changedMsg reports that a coordinator changed state in the background.
type changedMsg struct{}

type dataStateMsg struct {
	state appdata.State
}

type healthMsg struct {
	err error
}

type allTopicsMsg struct {
	topics []api.Topic
	err    error
}

type clearToastMsg struct{}

type appToast struct {
	level string
	text  string
}

// App is the root bubbletea model.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	src     appdata.Source
	health  HealthChecker
	data    *appdata.Coordinator
	search  *search.Coordinator
	changes chan struct{}

	dataState   appdata.State
	searchState search.State
	allTopics   []api.Topic

	focus       focusArea
	tagsOpen    bool
	helpOpen    bool
	quitConfirm bool
	vim         bool
	apiURL      string
	apiStatus   string

	topics       *components.List[api.Topic]
	tags         *components.List[api.Tag]
	input        textinput.Model
	spinner      spinner.Model
	content      viewport.Model
	contentTopic api.ID

	toast  *appToast
	width  int
	height int
}

// New builds the app and its coordinators. Coordinator changes made outside
// a command, such as debounced search results, reach the model as changedMsg.
func New(opts Options) App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())

	changes := make(chan struct{}, 1)
	signal := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}

	data := appdata.New(opts.Source,
		appdata.WithLogger(logger),
		appdata.WithNotify(func(appdata.State) { signal() }),
	)
	srch := search.New(opts.Searcher,
		search.WithMode(opts.Mode),
		search.WithDebounce(opts.Debounce),
		search.WithLimit(opts.Limit),
		search.WithLogger(logger),
		search.WithNotify(func(search.State) { signal() }),
	)

	ti := textinput.New()
	ti.Placeholder = "Search topics, sections, categories..."
	ti.Prompt = "⌕ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(ColorText)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(ColorPrimary)
	ti.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorSecondary)

	return App{
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
		src:         opts.Source,
		health:      opts.Health,
		data:        data,
		search:      srch,
		changes:     changes,
		dataState:   data.State(),
		searchState: srch.State(),
		vim:         opts.VimKeys,
		apiURL:      opts.APIURL,
		topics:      components.NewList(10, func(t api.Topic) string { return string(t.ID) }),
		tags:        components.NewList(10, func(t api.Tag) string { return string(t.ID) }),
		input:       ti,
		spinner:     sp,
		content:     viewport.New(60, 20),
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.waitForChange(), a.spinner.Tick, a.initCmd()}
	if a.health != nil {
		cmds = append(cmds, a.healthCmd())
	}
	if a.search.Mode() == search.ModeLocal {
		cmds = append(cmds, a.allTopicsCmd())
	}
	return tea.Batch(cmds...)
}

// --- Commands ---

func (a App) waitForChange() tea.Cmd {
	ctx, changes := a.ctx, a.changes
	return func() tea.Msg {
		select {
		case <-changes:
			return changedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (a App) initCmd() tea.Cmd {
	ctx, data := a.ctx, a.data
	return func() tea.Msg {
		_ = data.Init(ctx)
		return dataStateMsg{state: data.State()}
	}
}

func (a App) selectCategoryCmd(id api.ID) tea.Cmd {
	ctx, data := a.ctx, a.data
	return func() tea.Msg {
		data.SelectCategory(ctx, id)
		return dataStateMsg{state: data.State()}
	}
}

func (a App) selectTopicCmd(id api.ID) tea.Cmd {
	ctx, data := a.ctx, a.data
	return func() tea.Msg {
		data.SelectTopic(ctx, id)
		return dataStateMsg{state: data.State()}
	}
}

func (a App) selectFromSearchCmd(sel search.Selection) tea.Cmd {
	ctx, data := a.ctx, a.data
	return func() tea.Msg {
		data.SelectTopicFromSearch(ctx, sel.Topic, sel.Category)
		return dataStateMsg{state: data.State()}
	}
}

func (a App) healthCmd() tea.Cmd {
	ctx, health := a.ctx, a.health
	return func() tea.Msg {
		return healthMsg{err: health.Health(ctx)}
	}
}

func (a App) allTopicsCmd() tea.Cmd {
	ctx, src := a.ctx, a.src
	return func() tea.Msg {
		topics, err := src.GetAllTopics(ctx)
		return allTopicsMsg{topics: topics, err: err}
	}
}

// --- Update ---

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case changedMsg:
		a.applyData(a.data.State())
		a.applySearch(a.search.State())
		return a, a.waitForChange()

	case dataStateMsg:
		a.applyData(msg.state)
		return a, nil

	case healthMsg:
		if msg.err != nil {
			a.apiStatus = "offline"
			a.logger.Warn("health check failed", "err", msg.err)
			return a, a.setToast("warning", api.UserMessage(msg.err))
		}
		a.apiStatus = "online"
		return a, nil

	case allTopicsMsg:
		if msg.err != nil {
			if !api.IsCancelled(msg.err) {
				a.logger.Warn("load all topics", "err", msg.err)
			}
			return a, nil
		}
		a.allTopics = msg.topics
		a.syncDataset()
		a.applySearch(a.search.State())
		return a, nil

	case clearToastMsg:
		a.toast = nil
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if a.focus == focusSearch {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

// applyData adopts state unless it is older than the one shown.
func (a *App) applyData(state appdata.State) {
	if state.Version <= a.dataState.Version && a.dataState.Version != 0 {
		return
	}
	prevTopic := selectedTopicID(a.dataState)
	a.dataState = state

	a.syncTopicList(prevTopic)
	a.syncTagList()
	a.resize()
	a.syncDataset()
}

func (a *App) applySearch(state search.State) {
	if state.Version < a.searchState.Version {
		return
	}
	a.searchState = state
}

func selectedTopicID(s appdata.State) api.ID {
	if s.SelectedTopic == nil {
		return ""
	}
	return s.SelectedTopic.ID
}

// syncTopicList rebuilds the sidebar from the visible topics and moves the
// cursor onto a newly selected topic.
func (a *App) syncTopicList(prevTopic api.ID) {
	a.topics.SetItems(a.dataState.FilteredTopics)
	if current := selectedTopicID(a.dataState); current != "" && current != prevTopic {
		a.topics.SelectKey(string(current))
	}
}

func (a *App) syncTagList() {
	a.tags.SetItems(a.dataState.AvailableTags)
	if a.tags.Len() == 0 && a.tagsOpen {
		a.closeTags()
	}
}

// syncDataset feeds local search with the catalog loaded so far.
func (a *App) syncDataset() {
	if a.search.Mode() != search.ModeLocal {
		return
	}
	topics := a.allTopics
	if len(topics) == 0 {
		topics = a.dataState.Topics
	}
	a.search.SetDataset(search.Dataset{
		Categories: a.dataState.Categories,
		Topics:     topics,
		Sections:   a.dataState.Sections,
	})
}

func (a *App) resize() {
	bodyHeight := a.bodyHeight()
	a.topics.PageSize = max(1, bodyHeight-4)
	a.topics.Select(a.topics.Cursor)
	a.tags.PageSize = max(1, bodyHeight-6)
	a.tags.Select(a.tags.Cursor)

	a.content.Width = max(10, a.contentWidth()-4)
	a.content.Height = max(3, bodyHeight-2)
	a.input.Width = max(10, components.BoxContentWidth(a.width)-4)
	a.refreshContent()
}

// bodyHeight is the height left for the sidebar and content panel.
func (a App) bodyHeight() int {
	if a.height <= 0 {
		return 20
	}
	return max(6, a.height-lipgloss.Height(a.renderHeader())-6)
}

func (a App) sidebarWidth() int {
	if a.width <= 0 {
		return 30
	}
	return min(36, max(24, a.width/4))
}

func (a App) contentWidth() int {
	if a.width <= 0 {
		return 80
	}
	return max(20, a.width-a.sidebarWidth()-2)
}

func (a *App) refreshContent() {
	topic := selectedTopicID(a.dataState)
	a.content.SetContent(renderTopic(a.dataState, a.content.Width))
	if topic != a.contentTopic {
		a.contentTopic = topic
		a.content.GotoTop()
	}
}

// --- Keys ---

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if isForceQuit(msg) {
		a.cancel()
		return a, tea.Quit
	}
	if a.quitConfirm {
		switch {
		case isKey(msg, "y", "Y"):
			a.cancel()
			return a, tea.Quit
		case isKey(msg, "n", "N") || isBack(msg):
			a.quitConfirm = false
		}
		return a, nil
	}
	if a.helpOpen {
		if isBack(msg) || isKey(msg, "?") {
			a.helpOpen = false
		}
		return a, nil
	}
	if a.focus == focusSearch {
		return a.handleSearchKey(msg)
	}
	if isSearchFocus(msg) {
		return a.openSearch()
	}
	if a.tagsOpen {
		return a.handleTagKey(msg)
	}

	switch {
	case isQuit(msg):
		a.quitConfirm = true
		return a, nil
	case isKey(msg, "?"):
		a.helpOpen = true
		return a, nil
	case isKey(msg, "r") && a.dataState.Err != nil:
		return a, tea.Batch(a.initCmd(), a.spinner.Tick)
	case isKey(msg, "t"):
		if len(a.dataState.AvailableTags) > 0 {
			a.tagsOpen = true
			a.focus = focusTags
		}
		return a, nil
	case isFocusSwitch(msg):
		if a.focus == focusTopics {
			a.focus = focusContent
		} else {
			a.focus = focusTopics
		}
		return a, nil
	case isLeft(msg, a.vim):
		return a.stepCategory(-1)
	case isRight(msg, a.vim):
		return a.stepCategory(1)
	}

	if idx, ok := categoryIndex(msg); ok {
		if idx < len(a.dataState.Categories) {
			return a.switchCategory(a.dataState.Categories[idx].ID)
		}
		return a, nil
	}

	if a.focus == focusContent {
		var cmd tea.Cmd
		a.content, cmd = a.content.Update(msg)
		return a, cmd
	}

	switch {
	case isUp(msg, a.vim):
		a.topics.Up()
	case isDown(msg, a.vim):
		a.topics.Down()
	case isEnter(msg):
		return a.openTopicAtCursor()
	}
	return a, nil
}

func (a App) stepCategory(delta int) (tea.Model, tea.Cmd) {
	cats := a.dataState.Categories
	if len(cats) == 0 {
		return a, nil
	}
	idx := slices.IndexFunc(cats, func(c api.Category) bool { return c.ID == a.dataState.SelectedCategory })
	next := idx + delta
	if next < 0 || next >= len(cats) {
		return a, nil
	}
	return a.switchCategory(cats[next].ID)
}

func (a App) switchCategory(id api.ID) (tea.Model, tea.Cmd) {
	if id == a.dataState.SelectedCategory {
		return a, nil
	}
	a.focus = focusTopics
	return a, tea.Batch(a.selectCategoryCmd(id), a.spinner.Tick)
}

func (a App) openTopicAtCursor() (tea.Model, tea.Cmd) {
	topic, ok := a.topics.Current()
	if !ok {
		return a, nil
	}
	id := topic.ID
	if id == selectedTopicID(a.dataState) {
		a.focus = focusContent
		return a, nil
	}
	return a, tea.Batch(a.selectTopicCmd(id), a.spinner.Tick)
}

// --- Toasts ---

func (a *App) setToast(level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	title := "Info"
	switch a.toast.level {
	case "success":
		title = "Success"
	case "warning":
		title = "Warning"
	case "error":
		return components.ErrorBox("Error", a.toast.text, a.width)
	}
	return components.TitledBox(title, a.toast.text, a.width)
}

func (a App) statusLine() string {
	mode := MutedStyle.Render(fmt.Sprintf("search: %s", a.search.Mode()))
	url := MutedStyle.Render(a.apiURL)
	switch a.apiStatus {
	case "online":
		url = SuccessStyle.Render("● ") + url
	case "offline":
		url = WarningStyle.Render("● ") + url
	}
	return components.StatusLine(" "+url, mode+" ", a.width)
}
