package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/pr8x/hadeck/internal/climate"
	"github.com/pr8x/hadeck/internal/config"
	"github.com/pr8x/hadeck/internal/hass"
	"github.com/pr8x/hadeck/internal/logging"
)

// Messages for async operations
type entitiesLoadedMsg struct {
	entities []hass.Entity
	err      error
}

type snapshotMsg struct {
	entityID string
	snapshot climate.Snapshot
}

type refreshTickMsg time.Time

type socketClosedMsg struct {
	err error
}

// appKeyMap defines key bindings for the dashboard
type appKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Adjust key.Binding
	Mode   key.Binding
	Expand key.Binding
	Reload key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k appKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Adjust, k.Mode, k.Expand, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k appKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Adjust, k.Mode},
		{k.Expand, k.Reload, k.Quit},
	}
}

// AppModel is the top-level dashboard model. It owns one ClimateWidget per
// climate entity, feeds them snapshots from the poll loop and the websocket,
// and routes input to the focused widget.
type AppModel struct {
	Client     *hass.Client
	Registry   *config.Registry
	ServerName string

	Widgets []ClimateWidget
	Cursor  int

	// Loading state for the initial fetch
	Loading  bool
	LoadErr  error
	Spinner  spinner.Model
	LastSync time.Time

	// UI state
	Width  int
	Height int

	// RefreshInterval is the poll fallback cadence
	RefreshInterval time.Duration

	// events carries snapshots produced outside the Bubble Tea loop: the
	// websocket listener and the dispatcher refetch path both land here.
	events chan tea.Msg

	Help help.Model
	Keys appKeyMap
}

// NewAppModel creates the dashboard model.
func NewAppModel(client *hass.Client, registry *config.Registry) AppModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	keys := appKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next"),
		),
		Adjust: key.NewBinding(
			key.WithKeys("left", "right"),
			key.WithHelp("←/→/wheel", "temperature"),
		),
		Mode: key.NewBinding(
			key.WithKeys("[", "]"),
			key.WithHelp("[/]/1-9", "mode"),
		),
		Expand: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	refresh := 30 * time.Second
	serverName := ""
	if registry != nil {
		if registry.Preferences != nil && registry.Preferences.RefreshInterval > 0 {
			refresh = time.Duration(registry.Preferences.RefreshInterval) * time.Second
		}
		if registry.Server != nil {
			serverName = registry.Server.Name
		}
	}

	return AppModel{
		Client:          client,
		Registry:        registry,
		ServerName:      serverName,
		Loading:         true,
		Spinner:         s,
		RefreshInterval: refresh,
		events:          make(chan tea.Msg, 32),
		Help:            help.New(),
		Keys:            keys,
	}
}

// Init starts the initial load, the websocket listener and the poll ticker.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.Spinner.Tick,
		m.loadEntitiesCmd(),
		m.listenSocketCmd(),
		m.waitForEventCmd(),
		m.refreshTickCmd(),
	)
}

// loadEntitiesCmd fetches all climate entities from the server.
func (m AppModel) loadEntitiesCmd() tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		entities, err := client.ClimateStates(context.Background())
		return entitiesLoadedMsg{entities: entities, err: err}
	}
}

// listenSocketCmd runs the websocket listener, forwarding state_changed
// events into the event channel until the connection drops.
func (m AppModel) listenSocketCmd() tea.Cmd {
	client := m.Client
	events := m.events
	return func() tea.Msg {
		err := client.Listen(context.Background(), func(e hass.Entity) {
			if !e.IsClimate() {
				return
			}
			events <- snapshotMsg{entityID: e.EntityID, snapshot: e.ClimateSnapshot()}
		})
		return socketClosedMsg{err: err}
	}
}

// waitForEventCmd delivers the next out-of-loop event to the program.
func (m AppModel) waitForEventCmd() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return <-events
	}
}

func (m AppModel) refreshTickCmd() tea.Cmd {
	return tea.Tick(m.RefreshInterval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

// newDispatcher wires the debounced command path for one entity. The refetch
// closure fetches fresh state after a successful command and feeds it back
// through the event channel.
func (m AppModel) newDispatcher(entityID string) *climate.Dispatcher {
	client := m.Client
	events := m.events

	refetch := func() {
		entity, err := client.State(context.Background(), entityID)
		if err != nil {
			logging.Warn("post-command refresh failed",
				zap.String("entity_id", entityID),
				zap.Error(err),
			)
			return
		}
		events <- snapshotMsg{entityID: entityID, snapshot: entity.ClimateSnapshot()}
	}

	return climate.NewDispatcher(entityID, client, refetch)
}

// Update handles all messages.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		for i := range m.Widgets {
			m.Widgets[i].Width = msg.Width - 6
		}
		return m, nil

	case spinner.TickMsg:
		if !m.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case entitiesLoadedMsg:
		return m.handleEntitiesLoaded(msg)

	case snapshotMsg:
		return m.handleSnapshot(msg)

	case heightChangedMsg:
		// Recorded for layout; widget heights are recomputed on render
		logging.Debug("widget height changed",
			zap.String("entity_id", msg.entityID),
			zap.Bool("expanded", msg.expanded),
		)
		return m, nil

	case refreshTickMsg:
		return m, tea.Batch(m.loadEntitiesCmd(), m.refreshTickCmd())

	case socketClosedMsg:
		if msg.err != nil {
			logging.Warn("websocket listener stopped", zap.Error(msg.err))
		}
		// Fall back to polling; retry the socket on the next tick cycle
		return m, tea.Tick(m.RefreshInterval, func(time.Time) tea.Msg {
			return retrySocketMsg{}
		})

	case retrySocketMsg:
		return m, m.listenSocketCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.routeToFocused(msg)
	}

	return m, nil
}

type retrySocketMsg struct{}

// handleEntitiesLoaded reconciles the widget list against a full fetch.
func (m AppModel) handleEntitiesLoaded(msg entitiesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if m.Loading {
			m.Loading = false
			m.LoadErr = msg.err
		} else {
			// Background refresh failure: keep showing last known state
			logging.Warn("refresh failed", zap.Error(msg.err))
		}
		return m, nil
	}

	m.Loading = false
	m.LoadErr = nil
	m.LastSync = time.Now()

	for _, entity := range msg.entities {
		if m.isHidden(entity.EntityID) {
			continue
		}

		snap := entity.ClimateSnapshot()
		if i := m.widgetIndex(entity.EntityID); i >= 0 {
			m.Widgets[i].ApplySnapshot(snap)
			continue
		}

		widget := NewClimateWidget(entity.EntityID, m.displayName(entity), snap, m.newDispatcher(entity.EntityID))
		widget.Icon = m.entityIcon(entity.EntityID)
		widget.Width = m.Width - 6
		m.Widgets = append(m.Widgets, widget)
	}

	m.clampCursor()
	return m, nil
}

// handleSnapshot applies a single-entity update from the websocket or the
// post-command refetch.
func (m AppModel) handleSnapshot(msg snapshotMsg) (tea.Model, tea.Cmd) {
	if i := m.widgetIndex(msg.entityID); i >= 0 {
		m.Widgets[i].ApplySnapshot(msg.snapshot)
		m.LastSync = time.Now()
	}
	// Keep draining the event channel
	return m, m.waitForEventCmd()
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		for i := range m.Widgets {
			m.Widgets[i].Dispatcher.Close()
		}
		return m, tea.Quit

	case "up", "k":
		m.Cursor--
		if m.Cursor < 0 {
			m.Cursor = len(m.Widgets) - 1
		}
		m.clampCursor()
		return m, nil

	case "down", "j", "tab":
		m.Cursor++
		if m.Cursor >= len(m.Widgets) {
			m.Cursor = 0
		}
		m.clampCursor()
		return m, nil

	case "r":
		return m, m.loadEntitiesCmd()
	}

	return m.routeToFocused(msg)
}

// routeToFocused forwards a message to the focused widget.
func (m AppModel) routeToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.Cursor < 0 || m.Cursor >= len(m.Widgets) {
		return m, nil
	}

	widget, cmd := m.Widgets[m.Cursor].Update(msg)
	m.Widgets[m.Cursor] = widget
	return m, cmd
}

func (m *AppModel) clampCursor() {
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	if m.Cursor >= len(m.Widgets) && len(m.Widgets) > 0 {
		m.Cursor = len(m.Widgets) - 1
	}
}

func (m AppModel) widgetIndex(entityID string) int {
	for i := range m.Widgets {
		if m.Widgets[i].EntityID == entityID {
			return i
		}
	}
	return -1
}

func (m AppModel) isHidden(entityID string) bool {
	if m.Registry == nil {
		return false
	}
	meta := m.Registry.GetEntity(entityID)
	return meta != nil && meta.Hidden
}

func (m AppModel) displayName(entity hass.Entity) string {
	if m.Registry != nil {
		if meta := m.Registry.GetEntity(entity.EntityID); meta != nil && meta.Nickname != "" {
			return meta.Nickname
		}
	}
	return entity.FriendlyName()
}

func (m AppModel) entityIcon(entityID string) string {
	if m.Registry == nil {
		return ""
	}
	if meta := m.Registry.GetEntity(entityID); meta != nil {
		return meta.Icon
	}
	return ""
}

// View renders the dashboard.
func (m AppModel) View() string {
	content := m.buildContent()
	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(content, helpText, m.ServerName, m.Width, m.Height)
}

func (m AppModel) buildContent() string {
	if m.Loading {
		return fmt.Sprintf("\n %s Loading climate entities...\n", m.Spinner.View())
	}

	if m.LoadErr != nil {
		var b strings.Builder
		b.WriteString(ErrorStyle.Render("✗ " + hass.ShortErrorMessage(m.LoadErr)))
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render(hass.TroubleshootingHint(m.LoadErr)))
		return b.String()
	}

	if len(m.Widgets) == 0 {
		return SubtitleStyle.Render("\n No climate entities found on this server.\n")
	}

	var b strings.Builder
	for i := range m.Widgets {
		m.Widgets[i].Focused = i == m.Cursor
		b.WriteString(m.Widgets[i].View())
		b.WriteString("\n")
	}

	if !m.LastSync.IsZero() {
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf(" synced %s ago", time.Since(m.LastSync).Round(time.Second))))
	}

	return b.String()
}
