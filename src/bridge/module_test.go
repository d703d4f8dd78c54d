package bridge

import (
	"context"
	"errors"
	"testing"
	"time"

	"secure-clipboard/src/clipboard"
	"secure-clipboard/src/eventloop"
	"secure-clipboard/src/guard"
)

// inlineMain runs posted work synchronously.
type inlineMain struct{ stopped bool }

func (m *inlineMain) Post(fn func()) error {
	if m.stopped {
		return eventloop.ErrClosed
	}
	fn()
	return nil
}

// clock fires delayed work only when advanced.
type clock struct {
	now   time.Duration
	queue []func()
	at    []time.Duration
}

func (c *clock) PostDelayed(d time.Duration, fn func()) {
	c.queue = append(c.queue, fn)
	c.at = append(c.at, c.now+d)
}

func (c *clock) advanceTo(t time.Duration) {
	c.now = t
	for i := 0; i < len(c.queue); i++ {
		if c.at[i] <= t && c.queue[i] != nil {
			fn := c.queue[i]
			c.queue[i] = nil
			fn()
		}
	}
}

func newInlineModule(provider clipboard.Provider) (*Module, *clock, *inlineMain) {
	c := &clock{}
	main := &inlineMain{}
	return NewModule(guard.New(provider, c, guard.Hooks{}), main), c, main
}

func settle(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("call did not settle")
		return Result{}
	}
}

func TestModuleSurface(t *testing.T) {
	m, _, _ := newInlineModule(clipboard.NewMemory(true).Provider())
	if m.Name() != "SecureClipboard" {
		t.Errorf("Name = %q", m.Name())
	}
	want := []string{"setString", "getString", "clearString"}
	got := m.Methods()
	if len(got) != len(want) {
		t.Fatalf("Methods = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Methods[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSetStringAutoClearScenario(t *testing.T) {
	m, c, _ := newInlineModule(clipboard.NewMemory(true).Provider())

	r := settle(t, m.SetString("secret", 3000))
	if !r.OK() || r.Value != nil {
		t.Fatalf("setString = %+v, want resolved null", r)
	}
	if got := settle(t, m.GetString()).String(); got != "secret" {
		t.Fatalf("immediate getString = %q", got)
	}

	c.advanceTo(3000 * time.Millisecond)
	r = settle(t, m.GetString())
	if !r.OK() || r.Value == nil || *r.Value != "" {
		t.Fatalf("getString after expiry = %+v, want resolved \"\"", r)
	}
}

func TestSetStringSupersededScenario(t *testing.T) {
	m, c, _ := newInlineModule(clipboard.NewMemory(true).Provider())

	settle(t, m.SetString("secret", 3000))
	c.advanceTo(1000 * time.Millisecond)
	settle(t, m.SetString("public", 0))
	c.advanceTo(3100 * time.Millisecond)

	if got := settle(t, m.GetString()).String(); got != "public" {
		t.Fatalf("getString = %q, want public", got)
	}
}

func TestClearString(t *testing.T) {
	m, _, _ := newInlineModule(clipboard.NewMemory(false).Provider())
	settle(t, m.SetString("secret", 0))
	if r := settle(t, m.ClearString()); !r.OK() || r.Value != nil {
		t.Fatalf("clearString = %+v", r)
	}
	if got := settle(t, m.GetString()); !got.OK() || got.String() != "" {
		t.Fatalf("getString after clear = %+v", got)
	}
}

func TestRejections(t *testing.T) {
	unavailable := func() (clipboard.Service, error) { return nil, errors.New("headless") }
	m, _, _ := newInlineModule(unavailable)

	for _, ch := range []<-chan Result{m.SetString("x", 0), m.GetString(), m.ClearString()} {
		r := settle(t, ch)
		if r.Code != CodeClipboardError {
			t.Errorf("code = %q", r.Code)
		}
		if r.Message != MsgUnavailable {
			t.Errorf("message = %q", r.Message)
		}
		var rej *RejectError
		if !errors.As(r.Err(), &rej) || rej.Cause == "" {
			t.Errorf("expected RejectError with cause, got %v", r.Err())
		}
	}
}

type brokenService struct{}

func (brokenService) ReadText() (string, bool, error) { return "", false, errors.New("read boom") }
func (brokenService) WriteText(string, bool) error    { return errors.New("write boom") }
func (brokenService) Clear() error                    { return errors.New("clear boom") }

func TestOperationFailureMessages(t *testing.T) {
	m, _, _ := newInlineModule(func() (clipboard.Service, error) { return brokenService{}, nil })

	tests := []struct {
		name string
		ch   <-chan Result
		msg  string
	}{
		{"set", m.SetString("x", 0), MsgSetFailed},
		{"get", m.GetString(), MsgGetFailed},
		{"clear", m.ClearString(), MsgClearFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := settle(t, tt.ch)
			if r.Code != CodeClipboardError || r.Message != tt.msg {
				t.Fatalf("got %+v", r)
			}
		})
	}
}

func TestUnknownMethod(t *testing.T) {
	m, _, _ := newInlineModule(clipboard.NewMemory(true).Provider())
	r := settle(t, m.Invoke(Call{Method: "getImage"}))
	if r.Code != CodeUnknownMethod {
		t.Fatalf("got %+v", r)
	}
}

func TestStoppedMainRejects(t *testing.T) {
	m, _, main := newInlineModule(clipboard.NewMemory(true).Provider())
	main.stopped = true
	r := settle(t, m.GetString())
	if r.Code != CodeClipboardError || r.Message != MsgLoopStopped {
		t.Fatalf("got %+v", r)
	}
}

func TestInvokeOnEventLoop(t *testing.T) {
	loop := eventloop.New(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	m := NewModule(guard.New(clipboard.NewMemory(true).Provider(), loop, guard.Hooks{}), loop)

	callCtx, callCancel := context.WithTimeout(ctx, 2*time.Second)
	defer callCancel()
	if r, err := m.Call(callCtx, Call{Method: MethodSetString, Text: "otp", ExpirationMs: 20}); err != nil || !r.OK() {
		t.Fatalf("setString: %+v, %v", r, err)
	}
	if err := loop.Wait(callCtx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	r, err := m.Call(callCtx, Call{Method: MethodGetString})
	if err != nil || r.String() != "" {
		t.Fatalf("getString after expiry: %+v, %v", r, err)
	}
}
