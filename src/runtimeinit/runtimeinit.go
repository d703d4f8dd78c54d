package runtimeinit

import (
	"fmt"
	"log"

	"secure-clipboard/src/bridge"
	"secure-clipboard/src/clipboard"
	"secure-clipboard/src/config"
	"secure-clipboard/src/eventloop"
	"secure-clipboard/src/guard"
)

type Options struct {
	LoadOptions  config.LoadOptions
	SetupLogging func(bool)
	Hooks        guard.Hooks
	// Provider replaces the configured backend when set.
	Provider clipboard.Provider
}

// Runtime is one instance of the SecureClipboard module and the main loop it
// runs on. The caller must run Loop.
type Runtime struct {
	Config *config.Config
	Loop   *eventloop.Loop
	Guard  *guard.Guard
	Module *bridge.Module
}

func Bootstrap(opts Options) (*Runtime, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.SetupLogging != nil {
		opts.SetupLogging(cfg.EnableFileLogging)
	}

	provider := opts.Provider
	if provider == nil {
		provider, err = clipboard.NewProvider(cfg.Backend)
		if err != nil {
			return nil, err
		}
	}
	log.Printf("runtimeinit: backend=%s default expiration=%dms", cfg.Backend, cfg.DefaultExpirationMs)

	loop := eventloop.New(0)
	g := guard.New(provider, loop, opts.Hooks)
	return &Runtime{
		Config: cfg,
		Loop:   loop,
		Guard:  g,
		Module: bridge.NewModule(g, loop),
	}, nil
}
