package climate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// testWindow keeps debounce tests fast while staying well above scheduler
// jitter on loaded CI machines.
const testWindow = 25 * time.Millisecond

type tempCall struct {
	entityID    string
	temperature float64
}

type modeCall struct {
	entityID string
	mode     string
}

// recordingCommander records calls and can simulate failures or slow sends.
type recordingCommander struct {
	mu        sync.Mutex
	tempCalls []tempCall
	modeCalls []modeCall
	tempErr   error
	inUse     int
	maxInUse  int
	blockTemp chan struct{} // when non-nil, SetTemperature waits for close
}

func (c *recordingCommander) SetTemperature(_ context.Context, entityID string, temperature float64) error {
	c.mu.Lock()
	c.inUse++
	if c.inUse > c.maxInUse {
		c.maxInUse = c.inUse
	}
	block := c.blockTemp
	c.mu.Unlock()

	if block != nil {
		<-block
	}

	c.mu.Lock()
	c.tempCalls = append(c.tempCalls, tempCall{entityID, temperature})
	c.inUse--
	err := c.tempErr
	c.mu.Unlock()
	return err
}

func (c *recordingCommander) SetHVACMode(_ context.Context, entityID string, mode string) error {
	c.mu.Lock()
	c.modeCalls = append(c.modeCalls, modeCall{entityID, mode})
	c.mu.Unlock()
	return nil
}

func (c *recordingCommander) temperatureCalls() []tempCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]tempCall(nil), c.tempCalls...)
}

func (c *recordingCommander) hvacModeCalls() []modeCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]modeCall(nil), c.modeCalls...)
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}

func newTestDispatcher(commander Commander, refetch func()) *Dispatcher {
	d := NewDispatcher("climate.living_room", commander, refetch)
	d.SetWindow(testWindow)
	return d
}

func TestDispatcherCoalescesRapidTemperatureEdits(t *testing.T) {
	commander := &recordingCommander{}
	d := newTestDispatcher(commander, nil)
	defer d.Close()

	// Three edits inside one debounce window: only the last survives
	d.ArmTemperature(20)
	d.ArmTemperature(21)
	d.ArmTemperature(23)

	if !waitFor(t, time.Second, func() bool { return len(commander.temperatureCalls()) == 1 }) {
		t.Fatalf("temperature calls = %d, want 1", len(commander.temperatureCalls()))
	}

	// Give a late duplicate a chance to show up before asserting
	time.Sleep(3 * testWindow)

	calls := commander.temperatureCalls()
	if len(calls) != 1 {
		t.Fatalf("temperature calls = %d, want exactly 1", len(calls))
	}
	if calls[0].temperature != 23 {
		t.Errorf("temperature = %v, want last armed value 23", calls[0].temperature)
	}
	if calls[0].entityID != "climate.living_room" {
		t.Errorf("entityID = %q, want climate.living_room", calls[0].entityID)
	}
}

func TestDispatcherCoalescesRapidModeClicks(t *testing.T) {
	commander := &recordingCommander{}
	d := newTestDispatcher(commander, nil)
	defer d.Close()

	// "heat" then "cool" in quick succession
	d.ArmMode("heat")
	d.ArmMode("cool")

	if !waitFor(t, time.Second, func() bool { return len(commander.hvacModeCalls()) == 1 }) {
		t.Fatalf("mode calls = %d, want 1", len(commander.hvacModeCalls()))
	}
	time.Sleep(3 * testWindow)

	calls := commander.hvacModeCalls()
	if len(calls) != 1 {
		t.Fatalf("mode calls = %d, want exactly 1", len(calls))
	}
	if calls[0].mode != "cool" {
		t.Errorf("mode = %q, want cool", calls[0].mode)
	}
}

func TestDispatcherRearmResetsWindow(t *testing.T) {
	commander := &recordingCommander{}
	d := newTestDispatcher(commander, nil)
	defer d.Close()

	d.ArmTemperature(20)
	// Keep re-arming faster than the window expires
	for i := 0; i < 5; i++ {
		time.Sleep(testWindow / 3)
		d.ArmTemperature(20 + float64(i))
	}

	if len(commander.temperatureCalls()) != 0 {
		t.Fatal("command fired while edits were still arriving")
	}

	if !waitFor(t, time.Second, func() bool { return len(commander.temperatureCalls()) == 1 }) {
		t.Fatalf("temperature calls = %d, want 1 after quiet period", len(commander.temperatureCalls()))
	}
	if got := commander.temperatureCalls()[0].temperature; got != 24 {
		t.Errorf("temperature = %v, want 24", got)
	}
}

func TestDispatcherRefetchesAfterSuccess(t *testing.T) {
	commander := &recordingCommander{}

	var mu sync.Mutex
	refetches := 0
	d := newTestDispatcher(commander, func() {
		mu.Lock()
		refetches++
		mu.Unlock()
	})
	defer d.Close()

	d.ArmTemperature(22)

	if !waitFor(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return refetches == 1
	}) {
		t.Fatal("refetch not triggered after successful command")
	}
}

func TestDispatcherSkipsRefetchOnFailure(t *testing.T) {
	commander := &recordingCommander{tempErr: errors.New("service call failed")}

	var mu sync.Mutex
	refetches := 0
	d := newTestDispatcher(commander, func() {
		mu.Lock()
		refetches++
		mu.Unlock()
	})
	defer d.Close()

	d.ArmTemperature(22)

	if !waitFor(t, time.Second, func() bool { return len(commander.temperatureCalls()) == 1 }) {
		t.Fatal("command never sent")
	}
	time.Sleep(3 * testWindow)

	mu.Lock()
	defer mu.Unlock()
	if refetches != 0 {
		t.Errorf("refetches = %d, want 0 after a failed command", refetches)
	}
}

func TestDispatcherSerializesPerField(t *testing.T) {
	release := make(chan struct{})
	commander := &recordingCommander{blockTemp: release}
	d := newTestDispatcher(commander, nil)
	defer d.Close()

	// First command starts and blocks inside the commander
	d.ArmTemperature(21)
	if !waitFor(t, time.Second, func() bool {
		commander.mu.Lock()
		defer commander.mu.Unlock()
		return commander.inUse == 1
	}) {
		t.Fatal("first command never started")
	}

	// Second edit expires while the first call is still in flight: it must
	// queue, not start a concurrent send
	d.ArmTemperature(25)
	time.Sleep(3 * testWindow)

	if got := len(commander.temperatureCalls()); got != 0 {
		t.Fatalf("completed calls = %d, want 0 while first is blocked", got)
	}

	close(release)

	if !waitFor(t, time.Second, func() bool { return len(commander.temperatureCalls()) == 2 }) {
		t.Fatalf("completed calls = %d, want 2 after release", len(commander.temperatureCalls()))
	}

	commander.mu.Lock()
	maxInUse := commander.maxInUse
	commander.mu.Unlock()
	if maxInUse > 1 {
		t.Errorf("maxInUse = %d, want 1 (sends must not overlap per field)", maxInUse)
	}

	calls := commander.temperatureCalls()
	if calls[1].temperature != 25 {
		t.Errorf("queued send temperature = %v, want 25", calls[1].temperature)
	}
}

func TestDispatcherFieldsAreIndependent(t *testing.T) {
	release := make(chan struct{})
	commander := &recordingCommander{blockTemp: release}
	d := newTestDispatcher(commander, nil)
	defer d.Close()

	d.ArmTemperature(21)
	d.ArmMode("cool")

	// The mode pipeline completes even while temperature is blocked
	if !waitFor(t, time.Second, func() bool { return len(commander.hvacModeCalls()) == 1 }) {
		t.Fatal("mode command blocked behind temperature pipeline")
	}

	close(release)
	if !waitFor(t, time.Second, func() bool { return len(commander.temperatureCalls()) == 1 }) {
		t.Fatal("temperature command never completed")
	}
}

func TestDispatcherCloseCancelsArmedTimer(t *testing.T) {
	commander := &recordingCommander{}
	d := newTestDispatcher(commander, nil)

	d.ArmTemperature(22)
	d.Close()

	time.Sleep(3 * testWindow)
	if got := len(commander.temperatureCalls()); got != 0 {
		t.Errorf("temperature calls = %d, want 0 after Close", got)
	}
}
