package bridge

import "fmt"

// ModuleName is the name the host sees this module under.
const ModuleName = "SecureClipboard"

// Method names exposed to the host.
const (
	MethodSetString   = "setString"
	MethodGetString   = "getString"
	MethodClearString = "clearString"
)

// Rejection codes.
const (
	CodeClipboardError = "CLIPBOARD_ERROR"
	CodeUnknownMethod  = "E_UNKNOWN_METHOD"
)

// Human-readable rejection messages.
const (
	MsgUnavailable      = "Clipboard service not available"
	MsgSetFailed        = "Failed to set clipboard content"
	MsgGetFailed        = "Failed to get clipboard content"
	MsgClearFailed      = "Failed to clear clipboard"
	MsgLoopStopped      = "Clipboard module is shutting down"
	msgUnknownMethodFmt = "Unknown method %q on " + ModuleName
)

// Call is one host invocation.
type Call struct {
	Method       string `json:"method"`
	Text         string `json:"text,omitempty"`
	ExpirationMs int64  `json:"expirationMs,omitempty"`
}

// Result settles a Call: either resolved with Value (nil for void methods)
// or rejected with Code and Message.
type Result struct {
	Value   *string `json:"value"`
	Code    string  `json:"code,omitempty"`
	Message string  `json:"message,omitempty"`
	Cause   string  `json:"cause,omitempty"`
}

// OK reports whether the call resolved.
func (r Result) OK() bool { return r.Code == "" }

// Err returns nil for a resolved call and a *RejectError otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &RejectError{Code: r.Code, Message: r.Message, Cause: r.Cause}
}

// String returns the resolved value or "" for void/rejected results.
func (r Result) String() string {
	if r.Value == nil {
		return ""
	}
	return *r.Value
}

// RejectError is a rejected call seen from the caller's side.
type RejectError struct {
	Code    string
	Message string
	Cause   string
}

func (e *RejectError) Error() string {
	if e.Cause == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Cause)
}

func resolved(v *string) Result { return Result{Value: v} }

func resolvedString(s string) Result { return Result{Value: &s} }

func rejected(code, msg string, cause error) Result {
	r := Result{Code: code, Message: msg}
	if cause != nil {
		r.Cause = cause.Error()
	}
	return r
}
