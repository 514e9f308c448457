package chart

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/examcoach/examcoach/internal/log"
)

// ErrCanvasBusy is returned when a chart is attached to a canvas that
// already has a live chart.
var ErrCanvasBusy = errors.New("canvas already has a live chart")

// Canvas is the drawing surface behind one chart slot.
type Canvas struct {
	key      string
	attached bool
}

// Key returns the slot key the canvas belongs to.
func (c *Canvas) Key() string { return c.key }

// Busy reports whether a live chart is attached.
func (c *Canvas) Busy() bool { return c.attached }

// Attach claims the canvas for a new chart.
func (c *Canvas) Attach() error {
	if c.attached {
		return fmt.Errorf("%s: %w", c.key, ErrCanvasBusy)
	}
	c.attached = true
	return nil
}

// Release frees the canvas. Releasing a free canvas is a no-op.
func (c *Canvas) Release() { c.attached = false }

// Chart is a live chart instance bound to a canvas.
type Chart interface {
	Config() Config
	// Dispose releases the canvas. It is safe to call more than once.
	Dispose()
}

// Builder constructs a chart bound to canvas.
type Builder func(canvas *Canvas) (Chart, error)

// Manager keeps at most one live chart per key.
type Manager struct {
	mu       sync.Mutex
	canvases map[string]*Canvas
	charts   map[string]Chart
	logger   *zap.Logger
}

// NewManager creates an empty manager. A nil logger discards events.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = log.Nop()
	}
	return &Manager{
		canvases: make(map[string]*Canvas),
		charts:   make(map[string]Chart),
		logger:   logger,
	}
}

// Bind replaces the chart under key. Any existing chart is disposed before
// build runs. If build fails the slot is left empty.
func (m *Manager) Bind(key string, build Builder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.charts[key]; ok {
		old.Dispose()
		delete(m.charts, key)
		m.logger.Debug("chart disposed", log.Event(log.EventChartDisposed), zap.String("key", key))
	}

	canvas, ok := m.canvases[key]
	if !ok {
		canvas = &Canvas{key: key}
		m.canvases[key] = canvas
	}

	ch, err := build(canvas)
	if err != nil {
		canvas.Release()
		m.logger.Warn("chart build failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("bind chart %s: %w", key, err)
	}
	m.charts[key] = ch
	m.logger.Debug("chart bound", log.Event(log.EventChartBound),
		zap.String("key", key), zap.Stringer("kind", ch.Config().Kind))
	return nil
}

// Get returns the live chart under key.
func (m *Manager) Get(key string) (Chart, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.charts[key]
	return ch, ok
}

// Keys returns the keys with a live chart, sorted.
func (m *Manager) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.charts))
	for k := range m.charts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DisposeAll disposes every live chart.
func (m *Manager) DisposeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, ch := range m.charts {
		ch.Dispose()
		delete(m.charts, key)
		m.logger.Debug("chart disposed", log.Event(log.EventChartDisposed), zap.String("key", key))
	}
}
