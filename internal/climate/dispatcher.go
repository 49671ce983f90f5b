package climate

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pr8x/hadeck/internal/logging"
)

// DefaultDebounceWindow is the quiet period after the last edit before a
// command is sent.
const DefaultDebounceWindow = 500 * time.Millisecond

// Commander sends climate commands to the backing service. Implementations
// must be safe for concurrent use; calls for the same entity and field are
// serialized by the dispatcher, calls across fields may overlap.
type Commander interface {
	SetTemperature(ctx context.Context, entityID string, temperature float64) error
	SetHVACMode(ctx context.Context, entityID string, mode string) error
}

// Dispatcher coalesces rapid local edits into at most one outbound command
// per field per quiet period. Temperature and mode run through independent
// pipelines keyed to their own timers.
//
// Arming a pipeline records the value as the latest candidate and restarts
// the countdown; re-arming before expiry replaces the timer, it does not
// queue. On expiry exactly one command is sent with the newest value. A
// successful command triggers the refetch callback so the UI re-syncs
// against fresh authoritative state; a failed command is logged, swallowed,
// and skips the refetch. The optimistic local value is never rolled back.
type Dispatcher struct {
	entityID string

	temperature *pipeline[float64]
	mode        *pipeline[string]
}

// NewDispatcher wires a dispatcher for one entity. refetch may be nil when
// no state provider is attached (e.g. one-shot CLI commands).
func NewDispatcher(entityID string, commander Commander, refetch func()) *Dispatcher {
	d := &Dispatcher{entityID: entityID}

	d.temperature = newPipeline("temperature", entityID, DefaultDebounceWindow, refetch,
		func(v float64) error {
			return commander.SetTemperature(context.Background(), entityID, v)
		})
	d.mode = newPipeline("mode", entityID, DefaultDebounceWindow, refetch,
		func(v string) error {
			return commander.SetHVACMode(context.Background(), entityID, v)
		})

	return d
}

// ArmTemperature schedules a set-temperature command with the given value.
func (d *Dispatcher) ArmTemperature(v float64) {
	d.temperature.arm(v)
}

// ArmMode schedules a set-mode command with the given mode.
func (d *Dispatcher) ArmMode(mode string) {
	d.mode.arm(mode)
}

// SetWindow overrides the debounce window for both pipelines. Mainly useful
// in tests; production code keeps DefaultDebounceWindow.
func (d *Dispatcher) SetWindow(w time.Duration) {
	d.temperature.setWindow(w)
	d.mode.setWindow(w)
}

// Close cancels any armed timers. In-flight sends run to completion but no
// new ones start.
func (d *Dispatcher) Close() {
	d.temperature.close()
	d.mode.close()
}

// pipeline is a single-slot debounce: one pending value, one resettable
// timer, strictly serialized sends.
type pipeline[T any] struct {
	name     string
	entityID string
	send     func(T) error
	refetch  func()

	mu       sync.Mutex
	window   time.Duration
	timer    *time.Timer
	latest   T
	inflight bool
	queued   bool
	closed   bool
}

func newPipeline[T any](name, entityID string, window time.Duration, refetch func(), send func(T) error) *pipeline[T] {
	return &pipeline[T]{
		name:     name,
		entityID: entityID,
		window:   window,
		send:     send,
		refetch:  refetch,
	}
}

// arm records v as the newest candidate and restarts the countdown.
func (p *pipeline[T]) arm(v T) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	p.latest = v
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.window, p.fire)
}

// fire runs on timer expiry. If a send is still in flight the expiry is
// queued and the follow-up picks up the latest value once the prior call
// settles; sends never overlap within a pipeline.
func (p *pipeline[T]) fire() {
	p.mu.Lock()
	p.timer = nil
	if p.closed {
		p.mu.Unlock()
		return
	}
	if p.inflight {
		p.queued = true
		p.mu.Unlock()
		return
	}
	p.inflight = true
	v := p.latest
	p.mu.Unlock()

	go p.run(v)
}

// run performs sends serially until no expiry is queued.
func (p *pipeline[T]) run(v T) {
	for {
		if err := p.send(v); err != nil {
			// Swallowed: no retry, no rollback of the optimistic
			// value, and no refetch against possibly stale state.
			logging.Warn("climate command failed",
				zap.String("entity_id", p.entityID),
				zap.String("field", p.name),
				zap.Error(err),
			)
		} else if p.refetch != nil {
			p.refetch()
		}

		p.mu.Lock()
		if !p.queued {
			p.inflight = false
			p.mu.Unlock()
			return
		}
		p.queued = false
		v = p.latest
		p.mu.Unlock()
	}
}

func (p *pipeline[T]) setWindow(w time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.window = w
}

func (p *pipeline[T]) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}
