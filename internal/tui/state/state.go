package state

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/examcoach/examcoach/internal/api"
	"github.com/examcoach/examcoach/internal/chart"
	"github.com/examcoach/examcoach/internal/log"
)

// Op is the blocking part of an operation. It runs off the update loop and
// must not touch State.
type Op func(ctx context.Context) (any, error)

// OperationDoneMsg carries the outcome of an operation started with Begin.
type OperationDoneMsg struct {
	ID     uint64
	Panel  Panel
	Gen    uint64 // per-panel generation at Begin time
	Label  string
	Result any
	Err    error
}

// State is the application state object.
type State struct {
	Registry *Registry
	Notifier *Notifier
	Busy     *Busy
	Charts   *chart.Manager

	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
	nextID uint64
	gens   map[Panel]uint64
	now    func() time.Time
}

// New creates the application state. Operations run under a context derived
// from ctx and are cancelled by Close.
func New(ctx context.Context, notificationTTL time.Duration, logger *zap.Logger) *State {
	if logger == nil {
		logger = log.Nop()
	}
	ctx, cancel := context.WithCancel(ctx)
	return &State{
		Registry: NewRegistry(logger),
		Notifier: NewNotifier(notificationTTL),
		Busy:     &Busy{},
		Charts:   chart.NewManager(logger),
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger,
		gens:     make(map[Panel]uint64),
		now:      time.Now,
	}
}

// Begin shows the busy overlay with label and returns the command running
// op. The command always yields an OperationDoneMsg, even if op panics.
// Starting an operation makes earlier operations for the same panel stale.
func (s *State) Begin(panel Panel, label string, op Op) tea.Cmd {
	s.Busy.Begin(label)
	s.nextID++
	s.gens[panel]++
	id, gen, ctx := s.nextID, s.gens[panel], s.ctx

	s.logger.Debug("operation begin", log.Event(log.EventOperationBegin),
		zap.Uint64("op", id), zap.Stringer("panel", panel), zap.String("label", label))

	return func() tea.Msg {
		return run(ctx, OperationDoneMsg{ID: id, Panel: panel, Gen: gen, Label: label}, op)
	}
}

func run(ctx context.Context, msg OperationDoneMsg, op Op) (done OperationDoneMsg) {
	done = msg
	defer func() {
		if r := recover(); r != nil {
			done.Result = nil
			done.Err = fmt.Errorf("%s: unexpected failure: %v", msg.Label, r)
		}
	}()
	done.Result, done.Err = op(ctx)
	return done
}

// Finish hides the busy overlay for a completed operation and reports
// whether its result is still current for its panel. Every OperationDoneMsg
// must pass through Finish exactly once.
func (s *State) Finish(msg OperationDoneMsg) (current bool) {
	s.Busy.End()
	current = msg.Gen == s.gens[msg.Panel]

	fields := []zap.Field{
		log.Event(log.EventOperationEnd),
		zap.Uint64("op", msg.ID),
		zap.Stringer("panel", msg.Panel),
		zap.Bool("current", current),
	}
	if msg.Err != nil {
		s.logger.Info("operation failed", append(fields, zap.Error(msg.Err))...)
	} else {
		s.logger.Debug("operation end", fields...)
	}
	return current
}

// Notify shows a message with the given severity.
func (s *State) Notify(message string, sev Severity) tea.Cmd {
	return s.Notifier.Notify(message, sev, s.now())
}

// NotifyError shows the user-facing text of err.
func (s *State) NotifyError(err error) tea.Cmd {
	return s.Notify(api.Message(err), SeverityError)
}

// Notification returns the currently visible notification.
func (s *State) Notification() (Notification, bool) {
	return s.Notifier.Current(s.now())
}

// Close cancels in-flight operations and disposes every chart.
func (s *State) Close() {
	s.cancel()
	s.Charts.DisposeAll()
}
