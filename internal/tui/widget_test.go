package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pr8x/hadeck/internal/climate"
)

func f64(v float64) *float64 { return &v }

// recordingCommander captures dispatched commands for assertions.
type recordingCommander struct {
	mu        sync.Mutex
	tempCalls []float64
	modeCalls []string
}

func (c *recordingCommander) SetTemperature(_ context.Context, _ string, temperature float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tempCalls = append(c.tempCalls, temperature)
	return nil
}

func (c *recordingCommander) SetHVACMode(_ context.Context, _ string, mode string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modeCalls = append(c.modeCalls, mode)
	return nil
}

func (c *recordingCommander) lastTemp() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tempCalls) == 0 {
		return 0, false
	}
	return c.tempCalls[len(c.tempCalls)-1], true
}

func (c *recordingCommander) lastMode() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.modeCalls) == 0 {
		return "", false
	}
	return c.modeCalls[len(c.modeCalls)-1], true
}

func testSnapshot() climate.Snapshot {
	return climate.Snapshot{
		Status:             climate.StatusNormal,
		CurrentTemperature: f64(19.5),
		TargetTemperature:  f64(21.0),
		Mode:               "heat",
		MinTemp:            f64(7),
		MaxTemp:            f64(30),
		Step:               f64(0.5),
		AvailableModes:     []string{"off", "heat", "cool"},
	}
}

// newTestWidget wires a widget to a recording commander with a short
// debounce window so dispatch assertions stay fast.
func newTestWidget(t *testing.T, snap climate.Snapshot) (ClimateWidget, *recordingCommander) {
	t.Helper()
	commander := &recordingCommander{}
	dispatcher := climate.NewDispatcher("climate.test", commander, nil)
	dispatcher.SetWindow(10 * time.Millisecond)
	t.Cleanup(dispatcher.Close)

	return NewClimateWidget("climate.test", "Test", snap, dispatcher), commander
}

func waitForDispatch(t *testing.T, check func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("command was not dispatched in time")
}

func keyMsg(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	if s == "left" {
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	if s == "right" {
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWheelUpRaisesTargetByOneStep(t *testing.T) {
	widget, commander := newTestWidget(t, testSnapshot())

	widget, _ = widget.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})

	if widget.Store.TargetTemperature != 21.5 {
		t.Errorf("target = %v, want 21.5 (one step up)", widget.Store.TargetTemperature)
	}

	waitForDispatch(t, func() bool { _, ok := commander.lastTemp(); return ok })
	if v, _ := commander.lastTemp(); v != 21.5 {
		t.Errorf("dispatched temperature = %v, want 21.5", v)
	}
}

func TestWheelDownLowersTarget(t *testing.T) {
	widget, _ := newTestWidget(t, testSnapshot())

	widget, _ = widget.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})

	if widget.Store.TargetTemperature != 20.5 {
		t.Errorf("target = %v, want 20.5 (one step down)", widget.Store.TargetTemperature)
	}
}

func TestWheelClampsAtMax(t *testing.T) {
	snap := testSnapshot()
	snap.TargetTemperature = f64(30.0)
	widget, _ := newTestWidget(t, snap)

	widget, _ = widget.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})

	if widget.Store.TargetTemperature != 30.0 {
		t.Errorf("target = %v, want clamped to max 30", widget.Store.TargetTemperature)
	}
}

func TestSliderKeysMoveOneStep(t *testing.T) {
	widget, _ := newTestWidget(t, testSnapshot())

	widget, _ = widget.Update(keyMsg("right"))
	if widget.Store.TargetTemperature != 21.5 {
		t.Errorf("target after right = %v, want 21.5", widget.Store.TargetTemperature)
	}

	widget, _ = widget.Update(keyMsg("left"))
	widget, _ = widget.Update(keyMsg("left"))
	if widget.Store.TargetTemperature != 20.5 {
		t.Errorf("target after two lefts = %v, want 20.5", widget.Store.TargetTemperature)
	}
}

func TestSliderClampsAtMin(t *testing.T) {
	snap := testSnapshot()
	snap.TargetTemperature = f64(7.0)
	widget, _ := newTestWidget(t, snap)

	widget, _ = widget.Update(keyMsg("left"))
	if widget.Store.TargetTemperature != 7.0 {
		t.Errorf("target = %v, want clamped to min 7", widget.Store.TargetTemperature)
	}
}

func TestDigitKeySelectsMode(t *testing.T) {
	widget, commander := newTestWidget(t, testSnapshot())

	// "3" selects the third available mode
	widget, _ = widget.Update(keyMsg("3"))

	if widget.Store.CurrentMode != "cool" {
		t.Errorf("mode = %q, want cool", widget.Store.CurrentMode)
	}

	waitForDispatch(t, func() bool { _, ok := commander.lastMode(); return ok })
	if v, _ := commander.lastMode(); v != "cool" {
		t.Errorf("dispatched mode = %q, want cool", v)
	}
}

func TestDigitKeyOutOfRangeIgnored(t *testing.T) {
	widget, _ := newTestWidget(t, testSnapshot())

	widget, _ = widget.Update(keyMsg("9"))
	if widget.Store.CurrentMode != "heat" {
		t.Errorf("mode = %q, want unchanged heat", widget.Store.CurrentMode)
	}
}

func TestBracketKeysCycleModes(t *testing.T) {
	widget, _ := newTestWidget(t, testSnapshot())

	// heat -> cool
	widget, _ = widget.Update(keyMsg("]"))
	if widget.Store.CurrentMode != "cool" {
		t.Errorf("mode = %q, want cool", widget.Store.CurrentMode)
	}

	// cool -> off (wraps)
	widget, _ = widget.Update(keyMsg("]"))
	if widget.Store.CurrentMode != "off" {
		t.Errorf("mode = %q, want off", widget.Store.CurrentMode)
	}

	// off -> cool (wraps backwards)
	widget, _ = widget.Update(keyMsg("["))
	if widget.Store.CurrentMode != "cool" {
		t.Errorf("mode = %q, want cool", widget.Store.CurrentMode)
	}
}

func TestEnterTogglesExpandedAndNotifiesHost(t *testing.T) {
	widget, _ := newTestWidget(t, testSnapshot())

	collapsed := widget.Height()

	widget, cmd := widget.Update(keyMsg("enter"))
	if !widget.Store.Expanded {
		t.Fatal("widget should be expanded after enter")
	}
	if cmd == nil {
		t.Fatal("expand should emit a height notification")
	}

	msg, ok := cmd().(heightChangedMsg)
	if !ok {
		t.Fatalf("cmd produced %T, want heightChangedMsg", cmd())
	}
	if !msg.expanded || msg.entityID != "climate.test" {
		t.Errorf("heightChangedMsg = %+v", msg)
	}

	if widget.Height() <= collapsed {
		t.Errorf("expanded height %d should exceed collapsed height %d", widget.Height(), collapsed)
	}

	// Collapse notifies again
	widget, cmd = widget.Update(keyMsg("enter"))
	if widget.Store.Expanded {
		t.Fatal("widget should be collapsed after second enter")
	}
	if cmd == nil {
		t.Fatal("collapse should emit a height notification")
	}
	if msg := cmd().(heightChangedMsg); msg.expanded {
		t.Error("collapse notification should report expanded=false")
	}
}

func TestSnapshotOverwritesLocalEdit(t *testing.T) {
	widget, _ := newTestWidget(t, testSnapshot())

	widget, _ = widget.Update(keyMsg("right"))
	if widget.Store.TargetTemperature != 21.5 {
		t.Fatalf("target = %v after edit", widget.Store.TargetTemperature)
	}

	snap := testSnapshot()
	snap.TargetTemperature = f64(22.0)
	widget.ApplySnapshot(snap)

	if widget.Store.TargetTemperature != 22.0 {
		t.Errorf("target = %v, snapshot must overwrite the local edit", widget.Store.TargetTemperature)
	}
}

func TestSnapshotPreservesExpanded(t *testing.T) {
	widget, _ := newTestWidget(t, testSnapshot())

	widget, _ = widget.Update(keyMsg("enter"))
	widget.ApplySnapshot(testSnapshot())

	if !widget.Store.Expanded {
		t.Error("snapshots must not collapse the detail panel")
	}
}

func TestUnavailableDisablesInteraction(t *testing.T) {
	snap := testSnapshot()
	snap.Status = climate.StatusUnavailable
	widget, commander := newTestWidget(t, snap)

	before := widget.Store.TargetTemperature

	widget, _ = widget.Update(keyMsg("right"))
	widget, _ = widget.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	widget, cmd := widget.Update(keyMsg("enter"))

	if widget.Store.TargetTemperature != before {
		t.Error("unavailable widget must not accept temperature edits")
	}
	if widget.Store.Expanded {
		t.Error("unavailable widget must not expand")
	}
	if cmd != nil {
		t.Error("unavailable widget must not emit height notifications")
	}

	time.Sleep(30 * time.Millisecond)
	if _, ok := commander.lastTemp(); ok {
		t.Error("unavailable widget must not dispatch commands")
	}
}

func TestUnavailableHeightExcludesDetailPanel(t *testing.T) {
	widget, _ := newTestWidget(t, testSnapshot())
	widget, _ = widget.Update(keyMsg("enter"))
	expanded := widget.Height()

	// Entity drops out while the panel is open: the panel is suppressed
	snap := testSnapshot()
	snap.Status = climate.StatusUnavailable
	widget.ApplySnapshot(snap)

	if widget.Height() >= expanded {
		t.Errorf("unavailable height %d should drop below expanded height %d", widget.Height(), expanded)
	}
}
