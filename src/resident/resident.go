// Package resident runs the long-lived process that owns the clipboard
// module: it serves bridge calls from other processes over loopback, and
// optionally a panic-clear hotkey and a tray icon.
package resident

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"secure-clipboard/src/bridge"
	"secure-clipboard/src/guard"
	"secure-clipboard/src/hotkey"
	"secure-clipboard/src/runtimeinit"
	"secure-clipboard/src/singleinstance"
	"secure-clipboard/src/tray"
)

type Options struct {
	Runtime runtimeinit.Options
	// Tray and Hotkey override the configured values when set.
	Tray   *bool
	Hotkey string
	// OnReady is called with the bound port once calls are accepted.
	OnReady func(port int)
}

// Server couples the runtime with its loopback endpoint.
type Server struct {
	rt    *runtimeinit.Runtime
	srv   singleinstance.Server
	stats *guard.Stats
	tray  *tray.Tray
}

// Serve blocks until ctx is cancelled or the tray's Quit is picked.
func Serve(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := &Server{}
	s.stats = guard.NewStats(s.statsChanged)
	rtOpts := opts.Runtime
	rtOpts.Hooks = chainHooks(rtOpts.Hooks, s.stats.Hooks())

	rt, err := runtimeinit.Bootstrap(rtOpts)
	if err != nil {
		return err
	}
	s.rt = rt

	enableTray := rt.Config.EnableTray
	if opts.Tray != nil {
		enableTray = *opts.Tray
	}
	combo := rt.Config.PanicHotkey
	if opts.Hotkey != "" {
		combo = opts.Hotkey
	}

	s.srv = singleinstance.NewServer()
	if err := s.srv.Start(ctx); err != nil {
		start, _ := singleinstance.GetPortRangeForDebug()
		return fmt.Errorf("cannot own port %d (is a resident already running?): %w", start, err)
	}
	defer s.srv.Close()
	log.Printf("resident: %s listening on 127.0.0.1:%d", bridge.ModuleName, s.srv.Port())

	if enableTray {
		s.tray = tray.New(tray.Config{
			Title:   "Secure Clipboard",
			Tooltip: fmt.Sprintf("Secure Clipboard on port %d", s.srv.Port()),
			OnClear: s.panicClear,
			OnExit:  cancel,
		})
	}

	loopDone := make(chan error, 1)
	go func() { loopDone <- rt.Loop.Run(ctx) }()
	go s.acceptLoop(ctx)

	if combo != "" {
		if err := hotkey.Listen(combo, s.panicClear); err != nil {
			log.Printf("resident: hotkey disabled: %v", err)
		} else {
			defer hotkey.Stop()
		}
	}

	if opts.OnReady != nil {
		opts.OnReady(s.srv.Port())
	}

	if s.tray != nil {
		go func() {
			<-ctx.Done()
			s.tray.Quit()
		}()
		s.tray.Run()
	}

	<-ctx.Done()
	if err := <-loopDone; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *Server) acceptLoop(ctx context.Context) {
	for {
		conn, err := s.srv.Next(ctx)
		if err != nil {
			return
		}
		go s.serveConn(ctx, conn)
	}
}

func (s *Server) serveConn(ctx context.Context, conn singleinstance.Conn) {
	defer conn.Close()
	call := conn.Call()
	select {
	case r := <-s.rt.Module.Invoke(call):
		if err := conn.Respond(r); err != nil {
			log.Printf("resident: respond to %s: %v", call.Method, err)
		}
	case <-ctx.Done():
		_ = conn.Respond(bridge.Result{Code: bridge.CodeClipboardError, Message: bridge.MsgLoopStopped})
	}
}

func (s *Server) panicClear() {
	go func() {
		if err := (<-s.rt.Module.ClearString()).Err(); err != nil {
			log.Printf("resident: panic clear failed: %v", err)
		}
	}()
}

func (s *Server) statsChanged() {
	if s.tray == nil {
		return
	}
	s.tray.SetStatus(s.stats.Snapshot())
}

func chainHooks(a, b guard.Hooks) guard.Hooks {
	return guard.Hooks{
		OnScheduled: func(at time.Time) {
			if a.OnScheduled != nil {
				a.OnScheduled(at)
			}
			if b.OnScheduled != nil {
				b.OnScheduled(at)
			}
		},
		OnFired: func(cleared bool) {
			if a.OnFired != nil {
				a.OnFired(cleared)
			}
			if b.OnFired != nil {
				b.OnFired(cleared)
			}
		},
	}
}
