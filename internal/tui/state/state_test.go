package state

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNotifier_SecondNotificationWins(t *testing.T) {
	n := NewNotifier(0)
	t1 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(2 * time.Second)

	_ = n.Notify("first", SeveritySuccess, t1)
	gen1 := n.Gen()
	_ = n.Notify("second", SeverityError, t2)
	gen2 := n.Gen()

	cur, ok := n.Current(t2)
	if !ok || cur.Message != "second" || cur.Severity != SeverityError {
		t.Fatalf("Current() = %+v, %v; want second/error", cur, ok)
	}

	// The first timer fires at t1+4s and must not clear the second message.
	if n.Expire(gen1) {
		t.Error("Expire(first generation) cleared the surface")
	}
	if _, ok := n.Current(t1.Add(4 * time.Second)); !ok {
		t.Error("surface empty at t1+4s, want second message visible")
	}
	if _, ok := n.Current(t2.Add(4*time.Second - time.Millisecond)); !ok {
		t.Error("surface empty just before t2+4s")
	}
	if _, ok := n.Current(t2.Add(4 * time.Second)); ok {
		t.Error("surface visible at t2+4s, want cleared")
	}

	if !n.Expire(gen2) {
		t.Error("Expire(second generation) did not clear the surface")
	}
	if _, ok := n.Current(t2); ok {
		t.Error("surface visible after expiry")
	}
}

func TestNotifier_DefaultTTL(t *testing.T) {
	if got := NewNotifier(0).TTL(); got != 4*time.Second {
		t.Errorf("TTL() = %v, want 4s", got)
	}
	if got := NewNotifier(time.Second).TTL(); got != time.Second {
		t.Errorf("TTL() = %v, want 1s", got)
	}
}

func TestNotify_ReturnsExpiryCommand(t *testing.T) {
	n := NewNotifier(time.Millisecond)
	cmd := n.Notify("hello", SeveritySuccess, time.Now())
	if cmd == nil {
		t.Fatal("Notify() returned nil command")
	}
	msg, ok := cmd().(NotificationExpiredMsg)
	if !ok {
		t.Fatalf("command produced %T, want NotificationExpiredMsg", msg)
	}
	if msg.Gen != n.Gen() {
		t.Errorf("Gen = %d, want %d", msg.Gen, n.Gen())
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(nil)
	if r.Active() != PanelSubmit {
		t.Fatalf("initial panel = %s, want submit", r.Active())
	}

	eff, err := r.Activate(PanelAnalysis)
	if err != nil || eff != EffectNone {
		t.Errorf("Activate(analysis) = %v, %v", eff, err)
	}
	if r.Active() != PanelAnalysis {
		t.Errorf("Active() = %s, want analysis", r.Active())
	}

	eff, _ = r.ActivateID("dashboard")
	if eff != EffectRefreshProgress {
		t.Errorf("entering dashboard effect = %v, want refresh", eff)
	}
	// Re-entering the active panel runs the effect again.
	eff, _ = r.Activate(PanelDashboard)
	if eff != EffectRefreshProgress || r.Active() != PanelDashboard {
		t.Errorf("re-activate dashboard = %v, active %s", eff, r.Active())
	}

	if _, err := r.ActivateID("settings"); !errors.Is(err, ErrUnknownPanel) {
		t.Errorf("ActivateID(settings) error = %v, want ErrUnknownPanel", err)
	}
	if _, err := r.Activate(Panel(42)); !errors.Is(err, ErrUnknownPanel) {
		t.Errorf("Activate(42) error = %v, want ErrUnknownPanel", err)
	}
	if r.Active() != PanelDashboard {
		t.Errorf("failed activation changed panel to %s", r.Active())
	}
}

func TestRegistry_Cycle(t *testing.T) {
	r := NewRegistry(nil)
	r.Prev()
	if r.Active() != PanelDashboard {
		t.Errorf("Prev() from submit = %s, want dashboard", r.Active())
	}
	if eff := r.Next(); eff != EffectNone || r.Active() != PanelSubmit {
		t.Errorf("Next() from dashboard = %s (%v), want submit", r.Active(), eff)
	}
	for i := 0; i < 4; i++ {
		r.Next()
	}
	if r.Active() != PanelDashboard {
		t.Errorf("after four Next() = %s, want dashboard", r.Active())
	}
}

func TestBeginFinish_BusyLifecycle(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		op      func() (any, error)
		wantErr bool
	}{
		{"success", func() (any, error) { return 42, nil }, false},
		{"failure", func() (any, error) { return nil, boom }, true},
		{"panic", func() (any, error) { panic("kaboom") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(context.Background(), 0, nil)
			defer s.Close()

			var visibleDuring bool
			var messageDuring string
			cmd := s.Begin(PanelAnalysis, "Loading analysis…", func(context.Context) (any, error) {
				visibleDuring = s.Busy.Visible()
				messageDuring = s.Busy.Message()
				return tt.op()
			})
			if !s.Busy.Visible() {
				t.Fatal("busy hidden right after Begin")
			}

			msg, ok := cmd().(OperationDoneMsg)
			if !ok {
				t.Fatalf("command produced %T, want OperationDoneMsg", msg)
			}
			if !visibleDuring || messageDuring != "Loading analysis…" {
				t.Errorf("during op: visible=%v message=%q", visibleDuring, messageDuring)
			}
			if (msg.Err != nil) != tt.wantErr {
				t.Errorf("Err = %v, wantErr %v", msg.Err, tt.wantErr)
			}

			if !s.Finish(msg) {
				t.Error("Finish() reported a lone operation as stale")
			}
			if s.Busy.Visible() {
				t.Error("busy still visible after Finish")
			}
		})
	}
}

func TestFinish_StaleGeneration(t *testing.T) {
	s := New(context.Background(), 0, nil)
	defer s.Close()

	op := func(context.Context) (any, error) { return nil, nil }
	first := s.Begin(PanelDashboard, "first", op)
	second := s.Begin(PanelDashboard, "second", op)
	other := s.Begin(PanelPlan, "plan", op)

	if s.Busy.Message() != "plan" {
		t.Errorf("Message() = %q, want latest label", s.Busy.Message())
	}

	secondMsg := second().(OperationDoneMsg)
	firstMsg := first().(OperationDoneMsg)

	if !s.Finish(secondMsg) {
		t.Error("latest dashboard operation reported stale")
	}
	if s.Finish(firstMsg) {
		t.Error("superseded dashboard operation reported current")
	}
	if !s.Finish(other().(OperationDoneMsg)) {
		t.Error("operation on another panel reported stale")
	}
	if s.Busy.Visible() {
		t.Error("busy visible after all operations finished")
	}
}

func TestClose_CancelsOperations(t *testing.T) {
	s := New(context.Background(), 0, nil)
	cmd := s.Begin(PanelSubmit, "Submitting…", func(ctx context.Context) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	s.Close()

	msg := cmd().(OperationDoneMsg)
	if !errors.Is(msg.Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", msg.Err)
	}
}

func TestNotifyError_UsesGatewayMessage(t *testing.T) {
	s := New(context.Background(), 0, nil)
	defer s.Close()

	_ = s.NotifyError(errors.New("plain failure"))
	n, ok := s.Notification()
	if !ok || n.Message != "plain failure" || n.Severity != SeverityError {
		t.Errorf("Notification() = %+v, %v", n, ok)
	}
}
