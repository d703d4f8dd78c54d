package singleinstance

// This file defines the API for the resident's loopback endpoint and for
// clients delegating bridge calls to it.

import (
	"context"

	"secure-clipboard/src/bridge"
)

// Server owns the TCP endpoint and accepts bridge calls.
type Server interface {
	// Start begins listening on the first port of the configured range.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted connection as a Conn, or ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Conn represents one client connection carrying a single call.
type Conn interface {
	// Call returns the decoded bridge call.
	Call() bridge.Call
	// Respond writes the settled result as one JSON line.
	Respond(r bridge.Result) error
	// Close closes the underlying connection.
	Close() error
}

// Client delegates bridge calls to a resident server.
type Client interface {
	// TryCall scans the configured port range for a resident and forwards
	// call to it. If no resident is found, returns delegated=false, err=nil.
	// delegated=true with a non-nil err means the resident received the call
	// but its answer was lost; the call must not be repeated.
	TryCall(ctx context.Context, call bridge.Call) (delegated bool, result bridge.Result, err error)
}

// NewServer returns TCP implementation.
func NewServer() Server { return newTcpServer() }

// NewClient returns TCP implementation.
func NewClient() Client { return newTcpClient() }
