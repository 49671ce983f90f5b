package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pr8x/hadeck/internal/climate"
	"github.com/pr8x/hadeck/internal/config"
)

// wheelNotch is the scroll amount one mouse wheel notch maps to. A notch
// scrolling down is +100, up is -100; climate.WheelDelta inverts the sign so
// scrolling up raises the target.
const wheelNotch = 100

// heightChangedMsg notifies the host model that a widget's rendered height
// changed (expand/collapse). Sent once per visibility change.
type heightChangedMsg struct {
	entityID string
	expanded bool
}

// ClimateWidget is the interactive control panel for a single climate entity.
//
// It owns the reconciliation store and the debounced command dispatcher for
// its entity; the host model feeds it snapshots and routes input to the
// focused widget.
type ClimateWidget struct {
	EntityID string
	Name     string
	Icon     string

	Snapshot   climate.Snapshot
	Limits     climate.Limits
	Store      *climate.Store
	Dispatcher *climate.Dispatcher

	// Focused is whether keyboard input is routed to this widget
	Focused bool

	// Width is the usable content width, set by the host on resize
	Width int
}

// NewClimateWidget creates a widget from the first snapshot of an entity.
func NewClimateWidget(entityID, name string, snap climate.Snapshot, dispatcher *climate.Dispatcher) ClimateWidget {
	return ClimateWidget{
		EntityID:   entityID,
		Name:       name,
		Snapshot:   snap,
		Limits:     climate.DeriveLimits(snap),
		Store:      climate.NewStore(snap),
		Dispatcher: dispatcher,
	}
}

// ApplySnapshot replaces the widget's authoritative state. Local edits are
// overwritten unconditionally; the expanded flag is untouched.
func (w *ClimateWidget) ApplySnapshot(snap climate.Snapshot) {
	w.Snapshot = snap
	w.Limits = climate.DeriveLimits(snap)
	w.Store.ApplySnapshot(snap)
}

// Unavailable reports whether the entity is currently unreachable. All
// interaction is disabled while unavailable; the widget keeps rendering the
// last known values read-only.
func (w ClimateWidget) Unavailable() bool {
	return w.Snapshot.Unavailable()
}

// Height returns the widget's rendered line count, for host layout.
func (w ClimateWidget) Height() int {
	// name row + temperature row + slider row + borders
	h := 5
	if w.Store.Expanded && !w.Unavailable() {
		// mode chips + limits line
		h += 2
	}
	return h
}

// Update handles input routed to this widget.
func (w ClimateWidget) Update(msg tea.Msg) (ClimateWidget, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return w.handleKey(msg)
	case tea.MouseMsg:
		return w.handleMouse(msg)
	}
	return w, nil
}

func (w ClimateWidget) handleKey(msg tea.KeyMsg) (ClimateWidget, tea.Cmd) {
	if w.Unavailable() {
		return w, nil
	}

	switch msg.String() {
	case "left", "h":
		w.stepTarget(-1)
	case "right", "l":
		w.stepTarget(+1)
	case "[":
		w.cycleMode(-1)
	case "]":
		w.cycleMode(+1)
	case "enter", " ":
		return w.toggleExpanded()
	default:
		// Digit keys select a mode directly from the available list
		if len(msg.String()) == 1 && msg.String() >= "1" && msg.String() <= "9" {
			idx := int(msg.String()[0] - '1')
			if idx < len(w.Snapshot.AvailableModes) {
				w.selectMode(w.Snapshot.AvailableModes[idx])
			}
		}
	}
	return w, nil
}

func (w ClimateWidget) handleMouse(msg tea.MouseMsg) (ClimateWidget, tea.Cmd) {
	if w.Unavailable() {
		return w, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		w.handleWheel(-wheelNotch)
	case tea.MouseButtonWheelDown:
		w.handleWheel(+wheelNotch)
	}
	return w, nil
}

// handleWheel maps a scroll amount onto a step-scaled temperature delta and
// arms the clamped candidate.
func (w *ClimateWidget) handleWheel(scrollY float64) {
	delta := climate.WheelDelta(scrollY, w.Limits.Step)
	candidate := climate.Clamp(w.Store.TargetTemperature+delta, w.Limits.Min, w.Limits.Max)
	w.Store.SetTarget(candidate)
	w.Dispatcher.ArmTemperature(candidate)
}

// stepTarget moves the slider one step in the given direction. The candidate
// is clamped so the control enforces the entity's bounds.
func (w *ClimateWidget) stepTarget(direction int) {
	candidate := climate.Clamp(
		w.Store.TargetTemperature+float64(direction)*w.Limits.Step,
		w.Limits.Min, w.Limits.Max,
	)
	w.Store.SetTarget(candidate)
	w.Dispatcher.ArmTemperature(candidate)
}

// selectMode applies a mode optimistically and arms the mode pipeline.
func (w *ClimateWidget) selectMode(mode string) {
	w.Store.SetMode(mode)
	w.Dispatcher.ArmMode(mode)
}

// cycleMode moves through AvailableModes relative to the current mode,
// wrapping at either end.
func (w *ClimateWidget) cycleMode(direction int) {
	modes := w.Snapshot.AvailableModes
	if len(modes) == 0 {
		return
	}

	current := 0
	for i, m := range modes {
		if m == w.Store.CurrentMode {
			current = i
			break
		}
	}

	next := (current + direction + len(modes)) % len(modes)
	w.selectMode(modes[next])
}

// toggleExpanded flips the detail panel and notifies the host of the height
// change. Unavailable entities keep the panel suppressed.
func (w ClimateWidget) toggleExpanded() (ClimateWidget, tea.Cmd) {
	expanded := w.Store.ToggleExpanded()

	entityID := w.EntityID
	return w, func() tea.Msg {
		return heightChangedMsg{entityID: entityID, expanded: expanded}
	}
}

// View renders the widget panel.
func (w ClimateWidget) View() string {
	var b strings.Builder

	b.WriteString(w.renderNameRow())
	b.WriteString("\n")
	b.WriteString(w.renderTemperatureRow())
	b.WriteString("\n")
	b.WriteString(w.renderSlider())

	if w.Store.Expanded && !w.Unavailable() {
		b.WriteString("\n")
		b.WriteString(w.renderModeChips())
		b.WriteString("\n")
		b.WriteString(w.renderLimits())
	}

	style := WidgetStyle
	if w.Focused {
		style = FocusedWidgetStyle
	}
	if w.Width > 4 {
		style = style.Width(w.Width - 2)
	}
	return style.Render(b.String())
}

func (w ClimateWidget) renderNameRow() string {
	name := w.Name
	if name == "" {
		name = w.EntityID
	}
	if w.Icon != "" {
		name = w.Icon + " " + name
	}

	mode := w.Store.CurrentMode
	label := config.ModeLabels[mode]
	if label == "" {
		label = mode
	}

	status := lipgloss.NewStyle().Foreground(ModeColor(mode)).Render(label)
	if w.Unavailable() {
		status = UnavailableStyle.Render("unavailable")
	}

	return EntityNameStyle.Render(name) + "  " + status
}

func (w ClimateWidget) renderTemperatureRow() string {
	target := TargetTempStyle.Render(fmt.Sprintf("%.1f%s", w.Store.TargetTemperature, w.Limits.Unit))

	current := ""
	if w.Snapshot.CurrentTemperature != nil {
		current = CurrentTempStyle.Render(fmt.Sprintf("  now %.1f%s", *w.Snapshot.CurrentTemperature, w.Limits.Unit))
	}

	action := ""
	if w.Snapshot.Action != "" && !w.Unavailable() {
		action = SubtitleStyle.Render("  " + w.Snapshot.Action)
	}

	return target + current + action
}

// renderSlider draws the target position within [min, max] as a filled bar.
func (w ClimateWidget) renderSlider() string {
	span := w.Limits.Max - w.Limits.Min
	if span <= 0 {
		span = 1
	}

	frac := (w.Store.TargetTemperature - w.Limits.Min) / span
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	filled := int(frac * float64(SliderWidth))
	bar := SliderFillStyle.Render(strings.Repeat("━", filled)) +
		SliderTrackStyle.Render(strings.Repeat("─", SliderWidth-filled))

	if w.Unavailable() {
		return UnavailableStyle.Render(strings.Repeat("─", SliderWidth))
	}
	return bar
}

func (w ClimateWidget) renderModeChips() string {
	chips := make([]string, 0, len(w.Snapshot.AvailableModes))
	for i, mode := range w.Snapshot.AvailableModes {
		label := config.ModeLabels[mode]
		if label == "" {
			label = mode
		}
		chip := fmt.Sprintf("%d:%s", i+1, label)

		if mode == w.Store.CurrentMode {
			chips = append(chips, SelectedModeChipStyle.Render(chip))
		} else {
			chips = append(chips, ModeChipStyle.Render(chip))
		}
	}
	return strings.Join(chips, " ")
}

func (w ClimateWidget) renderLimits() string {
	return SubtitleStyle.Render(fmt.Sprintf("range %.1f to %.1f%s · step %.1f",
		w.Limits.Min, w.Limits.Max, w.Limits.Unit, w.Limits.Step))
}
