package resident

import (
	"context"
	"testing"
	"time"

	"secure-clipboard/src/bridge"
	"secure-clipboard/src/clipboard"
	"secure-clipboard/src/runtimeinit"
	"secure-clipboard/src/singleinstance"
)

func TestServeDelegatedCalls(t *testing.T) {
	t.Setenv("SINGLEINSTANCE_PORT_START", "49680")
	t.Setenv("SINGLEINSTANCE_PORT_END", "49681")
	t.Setenv("PANIC_HOTKEY", "")

	mem := clipboard.NewMemory(true)
	noTray := false
	ready := make(chan int, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- Serve(ctx, Options{
			Runtime: runtimeinit.Options{Provider: mem.Provider()},
			Tray:    &noTray,
			OnReady: func(port int) { ready <- port },
		})
	}()

	select {
	case <-ready:
	case err := <-serveErr:
		t.Skipf("resident could not start in this environment: %v", err)
	case <-ctx.Done():
		t.Fatal("resident did not become ready")
	}

	client := singleinstance.NewClient()
	call := func(c bridge.Call) bridge.Result {
		t.Helper()
		callCtx, callCancel := context.WithTimeout(ctx, 2*time.Second)
		defer callCancel()
		delegated, r, err := client.TryCall(callCtx, c)
		if err != nil || !delegated {
			t.Fatalf("TryCall(%s) = (%v, %v)", c.Method, delegated, err)
		}
		return r
	}

	if r := call(bridge.Call{Method: bridge.MethodSetString, Text: "secret", ExpirationMs: 50}); !r.OK() {
		t.Fatalf("setString: %+v", r)
	}
	if r := call(bridge.Call{Method: bridge.MethodGetString}); r.String() != "secret" {
		t.Fatalf("getString = %+v", r)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		if text, _, _ := mem.ReadText(); text == "" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("resident never auto-cleared")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if r := call(bridge.Call{Method: bridge.MethodClearString}); !r.OK() {
		t.Fatalf("clearString: %+v", r)
	}

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
