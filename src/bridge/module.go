// Package bridge exposes the clipboard guard to a host as the
// SecureClipboard module: three asynchronous methods that each settle with a
// value or a CLIPBOARD_ERROR rejection.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log"

	"secure-clipboard/src/guard"
)

// Dispatcher queues work on the main execution context.
type Dispatcher interface {
	Post(fn func()) error
}

// Module dispatches host calls onto the main context.
type Module struct {
	guard *guard.Guard
	main  Dispatcher
}

// NewModule wires g to the main dispatcher. Calls execute on main.
func NewModule(g *guard.Guard, main Dispatcher) *Module {
	return &Module{guard: g, main: main}
}

// Name returns the module name registered with the host.
func (m *Module) Name() string { return ModuleName }

// Methods lists the methods the module exposes.
func (m *Module) Methods() []string {
	return []string{MethodSetString, MethodGetString, MethodClearString}
}

// Invoke starts call and returns immediately. The returned channel receives
// exactly one Result.
func (m *Module) Invoke(call Call) <-chan Result {
	out := make(chan Result, 1)

	var op func() Result
	switch call.Method {
	case MethodSetString:
		op = func() Result { return m.setString(call.Text, call.ExpirationMs) }
	case MethodGetString:
		op = m.getString
	case MethodClearString:
		op = m.clearString
	default:
		out <- rejected(CodeUnknownMethod, fmt.Sprintf(msgUnknownMethodFmt, call.Method), nil)
		return out
	}

	if err := m.main.Post(func() { out <- op() }); err != nil {
		log.Printf("bridge: %s dropped: %v", call.Method, err)
		out <- rejected(CodeClipboardError, MsgLoopStopped, err)
	}
	return out
}

// Call invokes call and waits for it to settle or for ctx to end.
func (m *Module) Call(ctx context.Context, call Call) (Result, error) {
	select {
	case r := <-m.Invoke(call):
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// SetString writes text, auto-clearing it after expirationMs when > 0.
func (m *Module) SetString(text string, expirationMs int64) <-chan Result {
	return m.Invoke(Call{Method: MethodSetString, Text: text, ExpirationMs: expirationMs})
}

// GetString reads the clipboard text ("" when empty).
func (m *Module) GetString() <-chan Result {
	return m.Invoke(Call{Method: MethodGetString})
}

// ClearString empties the clipboard.
func (m *Module) ClearString() <-chan Result {
	return m.Invoke(Call{Method: MethodClearString})
}

func (m *Module) setString(text string, expirationMs int64) Result {
	if err := m.guard.Write(text, expirationMs); err != nil {
		return reject(err, MsgSetFailed)
	}
	return resolved(nil)
}

func (m *Module) getString() Result {
	text, err := m.guard.Read()
	if err != nil {
		return reject(err, MsgGetFailed)
	}
	return resolvedString(text)
}

func (m *Module) clearString() Result {
	if err := m.guard.Clear(); err != nil {
		return reject(err, MsgClearFailed)
	}
	return resolved(nil)
}

func reject(err error, msg string) Result {
	if errors.Is(err, guard.ErrClipboardUnavailable) {
		msg = MsgUnavailable
	}
	log.Printf("bridge: rejecting with %s: %v", guard.Kind(err), err)
	return rejected(CodeClipboardError, msg, err)
}
