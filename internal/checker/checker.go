package checker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pingcheck/internal/apperr"
	"pingcheck/internal/appwrite"
	"pingcheck/internal/history"
	"pingcheck/internal/metrics"
	"pingcheck/internal/models"
)

// ErrPingInFlight is returned when a ping is requested while another one is
// still outstanding.
var ErrPingInFlight = errors.New("ping already in flight")

// Pinger is the vendor capability the checker depends on.
type Pinger interface {
	Ping(ctx context.Context) (any, error)
}

// Option customises a Checker.
type Option func(*Checker)

// WithLogger sets the logger used for attempt outcomes.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithProject sets the project block included in snapshots.
func WithProject(project models.Project) Option {
	return func(c *Checker) {
		c.project = project
	}
}

// WithPanelOpen sets the initial panel visibility.
func WithPanelOpen(open bool) Option {
	return func(c *Checker) {
		c.panelOpen = open
	}
}

// WithClock replaces time.Now for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Checker) {
		if now != nil {
			c.now = now
		}
	}
}

// Checker owns the connection status, the attempt log and the panel state.
// At most one ping is outstanding at a time.
type Checker struct {
	client  Pinger
	logs    *history.Log
	project models.Project
	logger  *zap.Logger
	now     func() time.Time

	mu        sync.Mutex
	status    models.Status
	panelOpen bool

	subMu   sync.Mutex
	nextSub int
	subs    map[int]chan struct{}

	wg sync.WaitGroup
}

// New creates an idle checker around client.
func New(client Pinger, opts ...Option) *Checker {
	c := &Checker{
		client: client,
		logs:   history.New(),
		logger: zap.NewNop(),
		now:    time.Now,
		status: models.StatusIdle,
		subs:   make(map[int]chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendPing runs one attempt and blocks until the vendor call settles. The
// only error it returns is ErrPingInFlight; vendor failures are recorded in
// the log and reflected in the status.
func (c *Checker) SendPing(ctx context.Context) (models.LogEntry, error) {
	if err := c.begin(); err != nil {
		return models.LogEntry{}, err
	}
	return c.settle(ctx), nil
}

// Start begins an attempt in the background and returns once the status is
// loading. The attempt is not tied to ctx cancellation.
func (c *Checker) Start(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.settle(context.WithoutCancel(ctx))
	}()
	return nil
}

// Wait blocks until every attempt started with Start has settled.
func (c *Checker) Wait() {
	c.wg.Wait()
}

// SetPanelOpen sets the panel visibility.
func (c *Checker) SetPanelOpen(open bool) {
	c.mu.Lock()
	changed := c.panelOpen != open
	c.panelOpen = open
	c.mu.Unlock()
	if changed {
		c.notify()
	}
}

// TogglePanel flips the panel visibility and returns the new value.
func (c *Checker) TogglePanel() bool {
	c.mu.Lock()
	c.panelOpen = !c.panelOpen
	open := c.panelOpen
	c.mu.Unlock()
	c.notify()
	return open
}

// Status returns the current connection status.
func (c *Checker) Status() models.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Snapshot returns a consistent copy of the checker state.
func (c *Checker) Snapshot() models.Snapshot {
	c.mu.Lock()
	status := c.status
	open := c.panelOpen
	logs := c.logs.Entries()
	c.mu.Unlock()

	return models.Snapshot{
		Status:      status,
		View:        ViewFor(status),
		PanelOpen:   open,
		Logs:        logs,
		Summary:     metrics.Summarize(logs),
		Project:     c.project,
		GeneratedAt: c.now().UTC(),
	}
}

// Subscribe returns a channel that receives a value after state changes.
// Notifications coalesce; receivers should read a fresh Snapshot.
func (c *Checker) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			close(ch)
			c.subMu.Unlock()
		})
	}
	return ch, cancel
}

func (c *Checker) begin() error {
	c.mu.Lock()
	if c.status == models.StatusLoading {
		c.mu.Unlock()
		return apperr.Wrap(ErrPingInFlight, apperr.CodeCheckerPingInFlight, "send ping")
	}
	c.status = models.StatusLoading
	c.mu.Unlock()

	c.notify()
	return nil
}

func (c *Checker) settle(ctx context.Context) models.LogEntry {
	started := time.Now()
	result, err := c.callPing(ctx)

	entry := models.LogEntry{
		ID:     uuid.NewString(),
		Date:   c.now(),
		Method: models.PingMethod,
		Path:   models.PingPath,
	}
	next := models.StatusSuccess
	if err != nil {
		entry.Status, entry.Response = appwrite.Classify(err)
		next = models.StatusError
		c.logger.Warn("ping failed",
			zap.Int("code", entry.Status),
			zap.Duration("latency", time.Since(started)),
			zap.Error(err))
	} else {
		entry.Status = http.StatusOK
		entry.Response = serialize(result)
		c.logger.Info("ping succeeded",
			zap.Duration("latency", time.Since(started)),
			zap.String("response", entry.Response))
	}

	c.mu.Lock()
	c.logs.Prepend(entry)
	c.status = next
	c.panelOpen = true
	c.mu.Unlock()

	c.notify()
	return entry
}

// callPing converts a panicking client into an unknown failure so the status
// always leaves loading.
func (c *Checker) callPing(ctx context.Context) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &appwrite.UnknownError{Err: fmt.Errorf("ping panicked: %v", r)}
		}
	}()
	return c.client.Ping(ctx)
}

func (c *Checker) notify() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// serialize renders a ping result the way it is shown in the log table.
func serialize(result any) string {
	if raw, ok := result.(json.RawMessage); ok {
		return string(raw)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return fmt.Sprintf("%v", result)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
