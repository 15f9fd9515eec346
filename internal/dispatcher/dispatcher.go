package dispatcher

import (
	"context"
	"sync"
	"time"

	"github.com/dshills/keyfocus/internal/action"
	"github.com/dshills/keyfocus/internal/gesture"
	"github.com/dshills/keyfocus/internal/hook"
	"github.com/dshills/keyfocus/internal/input/key"
	"github.com/dshills/keyfocus/internal/input/keystate"
	"github.com/dshills/keyfocus/internal/logging"
)

// Mapper converts native key codes to portable codes.
type Mapper interface {
	Lookup(native uint16) (key.Code, bool)
}

// Dispatcher recognizes gestures in a stream of hook events.
type Dispatcher struct {
	// mu serializes state update, rule evaluation and action hand-off.
	mu     sync.Mutex
	state  *keystate.State
	rules  []gesture.Rule
	mapper Mapper
	exec   action.Executor
	ctx    context.Context

	logger  *logging.Logger
	config  Config
	metrics *Metrics
	now     func() time.Time

	// Async dispatch
	eventChan chan request
	done      chan struct{}
	stopOnce  sync.Once
	startOnce sync.Once
	wg        sync.WaitGroup
}

type request struct {
	ev    hook.Event
	reply chan bool
}

// New creates a dispatcher. Rules are evaluated in the given order.
func New(config Config, mapper Mapper, exec action.Executor, rules []gesture.Rule) *Dispatcher {
	d := &Dispatcher{
		state:  keystate.New(),
		rules:  append([]gesture.Rule(nil), rules...),
		mapper: mapper,
		exec:   exec,
		ctx:    context.Background(),
		logger: logging.Discard(),
		config: config,
		now:    time.Now,
		done:   make(chan struct{}),
	}

	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}

	if config.AsyncDispatch {
		bufSize := config.EventBufferSize
		if bufSize <= 0 {
			bufSize = DefaultConfig().EventBufferSize
		}
		d.eventChan = make(chan request, bufSize)
	}

	return d
}

// SetLogger sets the logger.
func (d *Dispatcher) SetLogger(l *logging.Logger) {
	if l == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logger = l.WithComponent("dispatcher")
}

// SetExecutor replaces the executor that receives fired actions.
func (d *Dispatcher) SetExecutor(exec action.Executor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.exec = exec
}

// SetContext sets the context passed to the executor.
func (d *Dispatcher) SetContext(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ctx = ctx
}

// SetClock replaces the clock used for events without a timestamp.
func (d *Dispatcher) SetClock(now func() time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.now = now
}

// Handle processes one hook event and reports whether it was captured.
// It implements hook.Handler.
func (d *Dispatcher) Handle(ev hook.Event) bool {
	start := time.Now()
	captured := d.handle(ev)
	if d.metrics != nil {
		d.metrics.RecordEvent(ev.Type, captured, time.Since(start))
	}
	return captured
}

func (d *Dispatcher) handle(ev hook.Event) bool {
	if ev.Type != key.Press && ev.Type != key.Release {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	code, ok := d.mapper.Lookup(ev.Native)
	if !ok {
		d.logger.Warn("%v", &KeyError{Native: ev.Native})
		if d.metrics != nil {
			d.metrics.RecordUnmappable()
		}
		return false
	}

	at := ev.Time
	if at.IsZero() {
		at = d.now()
	}
	kev := key.Event{Type: ev.Type, Code: code, Time: at}

	d.state.Apply(kev)

	if kev.Type == key.Release && d.config.EvaluateOn != EvaluateOnAny {
		return false
	}

	captured := false
	for _, r := range d.rules {
		if !r.Evaluate(kev, d.state) {
			continue
		}
		captured = true
		d.fire(r, kev)
	}
	return captured
}

// fire hands a fired rule's action to the executor. Failures are logged and
// do not change the capture decision.
func (d *Dispatcher) fire(r gesture.Rule, ev key.Event) {
	act := r.Action()
	d.logger.Info("%s on %s: %s", r.Kind(), ev, act)

	if d.exec == nil {
		d.logger.Warn("no executor for %q", act)
		return
	}

	req := action.Request{Action: act, Held: key.Chord(d.state.Codes())}
	err := d.exec.Execute(d.ctx, req)
	if err != nil {
		d.logger.Error("%v", err)
	}
	if d.metrics != nil {
		d.metrics.RecordFire(act, ev.Time, err != nil)
	}
}

// Reload replaces the rule list. Held keys are kept.
func (d *Dispatcher) Reload(rules []gesture.Rule) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rules = append([]gesture.Rule(nil), rules...)
	d.logger.Info("loaded %d gestures", len(rules))
}

// Reset forgets held keys and disarms every sequence.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.state.Reset()
	for _, r := range d.rules {
		if s, ok := r.(*gesture.Sequence); ok {
			s.Reset()
		}
	}
}

// Held returns the currently held keys in ascending code order.
func (d *Dispatcher) Held() key.Chord {
	d.mu.Lock()
	defer d.mu.Unlock()
	return key.Chord(d.state.Codes())
}

// Rules returns a copy of the rule list.
func (d *Dispatcher) Rules() []gesture.Rule {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]gesture.Rule(nil), d.rules...)
}

// Start starts the async recognition loop (if enabled).
func (d *Dispatcher) Start() {
	if !d.config.AsyncDispatch {
		return
	}

	d.startOnce.Do(func() {
		d.wg.Add(1)
		go d.dispatchLoop()
	})
}

// Stop stops the async recognition loop and waits for it to exit.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.done)
	})
	d.wg.Wait()
}

// dispatchLoop processes events sent by Submit.
func (d *Dispatcher) dispatchLoop() {
	defer d.wg.Done()

	for {
		select {
		case req := <-d.eventChan:
			req.reply <- d.Handle(req.ev)
		case <-d.done:
			return
		}
	}
}

// Submit sends an event to the async recognition loop and waits for the
// capture decision.
func (d *Dispatcher) Submit(ev hook.Event) (bool, error) {
	if !d.config.AsyncDispatch {
		return false, ErrAsyncNotEnabled
	}

	req := request{ev: ev, reply: make(chan bool, 1)}
	select {
	case d.eventChan <- req:
	case <-d.done:
		return false, ErrDispatcherStopped
	}

	select {
	case captured := <-req.reply:
		return captured, nil
	case <-d.done:
		return false, ErrDispatcherStopped
	}
}

// Handler returns the hook handler for this dispatcher. In async mode
// events go through Submit and any error passes the event through.
func (d *Dispatcher) Handler() hook.Handler {
	if !d.config.AsyncDispatch {
		return d.Handle
	}
	return func(ev hook.Event) bool {
		captured, err := d.Submit(ev)
		if err != nil {
			d.logger.Warn("%v", err)
			return false
		}
		return captured
	}
}

// Metrics returns the metrics collector, or nil if metrics are disabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}
