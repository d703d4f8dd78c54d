package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"secure-clipboard/src/bridge"
	"secure-clipboard/src/config"
	"secure-clipboard/src/logutil"
	"secure-clipboard/src/resident"
	"secure-clipboard/src/runtimeinit"
	"secure-clipboard/src/singleinstance"
)

type cliOptions struct {
	verbose bool
	backend string
	local   bool

	expireMs int64
	stdin    bool

	jsonOutput bool

	noTray bool
	hotkey string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cmd := newRootCmd(&cliOptions{})
	cmd.SetArgs(os.Args[1:])
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "secclip",
		Short:         "Copy secrets to the clipboard and clear them again",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	cmd.PersistentFlags().StringVar(&opts.backend, "backend", "", "Clipboard backend: design, atotto, native or memory")
	cmd.PersistentFlags().BoolVar(&opts.local, "local", false, "Do not delegate to a running resident")

	cmd.AddCommand(newSetCmd(opts), newGetCmd(opts), newClearCmd(opts), newServeCmd(opts), newStatusCmd(opts))
	return cmd
}

func newSetCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set [text]",
		Short: "Write text to the clipboard, optionally clearing it after a delay",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.InOrStdin(), args, opts.stdin)
			if err != nil {
				return err
			}
			loadOpts := loadOptions(opts)
			if cmd.Flags().Changed("expire-ms") {
				loadOpts.ExpirationMsOverride = &opts.expireMs
			}
			cfg, err := config.LoadWithOptions(loadOpts)
			if err != nil {
				return err
			}
			call := bridge.Call{Method: bridge.MethodSetString, Text: text, ExpirationMs: cfg.DefaultExpirationMs}
			r, err := execute(cmd, opts, cfg, loadOpts, call)
			if err != nil {
				return err
			}
			return r.Err()
		},
	}
	cmd.Flags().Int64Var(&opts.expireMs, "expire-ms", 0, "Clear the clipboard after this many milliseconds if it still holds the text (default DEFAULT_EXPIRATION_MS)")
	cmd.Flags().BoolVar(&opts.stdin, "stdin", false, "Read the text from stdin")
	return cmd
}

func newGetCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the clipboard text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := simpleCall(cmd, opts, bridge.Call{Method: bridge.MethodGetString})
			if err != nil {
				return err
			}
			if err := r.Err(); err != nil {
				return err
			}
			return writeText(cmd.OutOrStdout(), r.String(), opts.jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newClearCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the clipboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := simpleCall(cmd, opts, bridge.Call{Method: bridge.MethodClearString})
			if err != nil {
				return err
			}
			return r.Err()
		},
	}
}

func newServeCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the resident that owns the clipboard and its pending clears",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			serveOpts := resident.Options{
				Runtime: runtimeinit.Options{
					LoadOptions:  loadOptions(opts),
					SetupLogging: loggingSetup(opts),
				},
				Hotkey: opts.hotkey,
				OnReady: func(port int) {
					if opts.verbose {
						fmt.Fprintf(cmd.ErrOrStderr(), "[verbose] Resident listening on 127.0.0.1:%d\n", port)
					}
				},
			}
			if opts.noTray {
				tray := false
				serveOpts.Tray = &tray
			}
			return resident.Serve(cmd.Context(), serveOpts)
		},
	}
	cmd.Flags().BoolVar(&opts.noTray, "no-tray", false, "Do not show a tray icon")
	cmd.Flags().StringVar(&opts.hotkey, "hotkey", "", "Panic-clear key combination, e.g. Ctrl+Alt+X (default PANIC_HOTKEY)")
	return cmd
}

func newStatusCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether a resident is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load .env early so SINGLEINSTANCE_PORT_* are applied before the scan
			if _, err := config.LoadWithOptions(loadOptions(opts)); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
			defer cancel()
			if port, ok := singleinstance.DetectResidentPort(ctx); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "resident running on 127.0.0.1:%d\n", port)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "no resident running")
			return nil
		},
	}
}

func loadOptions(opts *cliOptions) config.LoadOptions {
	return config.LoadOptions{BackendOverride: opts.backend, HotkeyOverride: opts.hotkey}
}

func loggingSetup(opts *cliOptions) func(bool) {
	if opts.verbose {
		return func(bool) { logutil.SetupVerbose(os.Stderr) }
	}
	return logutil.Setup
}

func simpleCall(cmd *cobra.Command, opts *cliOptions, call bridge.Call) (bridge.Result, error) {
	loadOpts := loadOptions(opts)
	cfg, err := config.LoadWithOptions(loadOpts)
	if err != nil {
		return bridge.Result{}, err
	}
	return execute(cmd, opts, cfg, loadOpts, call)
}

// execute delegates call to a resident when one is running and otherwise
// runs the module in this process.
func execute(cmd *cobra.Command, opts *cliOptions, cfg *config.Config, loadOpts config.LoadOptions, call bridge.Call) (bridge.Result, error) {
	setup := loggingSetup(opts)
	setup(cfg.EnableFileLogging)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !opts.local {
		callCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.CallTimeoutSec)*time.Second)
		delegated, r, err := singleinstance.NewClient().TryCall(callCtx, call)
		cancel()
		switch {
		case delegated && err != nil:
			return bridge.Result{}, fmt.Errorf("resident received %s but did not answer: %w", call.Method, err)
		case err != nil:
			log.Printf("Delegation error: %v; falling back to standalone", err)
		case delegated:
			log.Printf("Delegated %s to resident", call.Method)
			return r, nil
		default:
			log.Printf("No resident detected, running standalone")
		}
	}
	return runStandalone(ctx, cmd.ErrOrStderr(), opts, loadOpts, call)
}

func runStandalone(ctx context.Context, stderr io.Writer, opts *cliOptions, loadOpts config.LoadOptions, call bridge.Call) (bridge.Result, error) {
	rt, err := runtimeinit.Bootstrap(runtimeinit.Options{LoadOptions: loadOpts})
	if err != nil {
		return bridge.Result{}, err
	}
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = rt.Loop.Run(loopCtx) }()

	r, err := rt.Module.Call(ctx, call)
	if err != nil {
		return bridge.Result{}, err
	}
	if call.Method != bridge.MethodSetString || !r.OK() || call.ExpirationMs <= 0 {
		return r, nil
	}

	// The pending clear lives in this process, so stay until it has fired.
	wait := time.Duration(call.ExpirationMs) * time.Millisecond
	if opts.verbose {
		fmt.Fprintf(stderr, "[verbose] No resident; waiting %s to clear the clipboard\n", wait)
	}
	if err := rt.Loop.Wait(ctx); err != nil {
		return r, fmt.Errorf("interrupted before auto-clear: %w", err)
	}
	return r, nil
}

func readText(in io.Reader, args []string, fromStdin bool) (string, error) {
	switch {
	case fromStdin && len(args) > 0:
		return "", fmt.Errorf("pass text as an argument or with --stdin, not both")
	case fromStdin:
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return strings.TrimSuffix(strings.TrimSuffix(string(data), "\n"), "\r"), nil
	case len(args) == 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("text argument or --stdin is required")
	}
}

type getResult struct {
	Text   string `json:"text"`
	Length int    `json:"length"`
}

func writeText(w io.Writer, text string, jsonOutput bool) error {
	if !jsonOutput {
		_, err := fmt.Fprint(w, text)
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(getResult{Text: text, Length: len(text)}); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}
