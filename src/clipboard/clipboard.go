package clipboard

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable is returned by a Provider when the platform clipboard
// service cannot be obtained.
var ErrUnavailable = errors.New("clipboard service not available")

const (
	BackendDesign = "design"
	BackendAtotto = "atotto"
	BackendNative = "native"
	BackendMemory = "memory"
)

// Service is the single shared text slot of the platform clipboard.
type Service interface {
	// ReadText returns the current text. ok is false when the clipboard holds
	// no text item.
	ReadText() (text string, ok bool, err error)
	// WriteText replaces the clipboard content. sensitive is a hint that is
	// honored only by services that also implement Capabilities.
	WriteText(text string, sensitive bool) error
	// Clear empties the primary slot.
	Clear() error
}

// Capabilities is implemented by services that can flag content as sensitive
// so history and monitor tools skip it.
type Capabilities interface {
	SupportsSensitive() bool
}

// Provider obtains the clipboard service for one operation.
type Provider func() (Service, error)

// SupportsSensitive reports whether s can mark written content as sensitive.
func SupportsSensitive(s Service) bool {
	c, ok := s.(Capabilities)
	return ok && c.SupportsSensitive()
}

// NewProvider returns the provider for the named backend. An empty name
// selects the default golang.design backend.
func NewProvider(backend string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendDesign:
		return designProvider, nil
	case BackendAtotto:
		return atottoProvider, nil
	case BackendNative:
		return nativeProvider, nil
	case BackendMemory:
		return NewMemory(true).Provider(), nil
	default:
		return nil, fmt.Errorf("unknown clipboard backend %q", backend)
	}
}

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{BackendDesign, BackendAtotto, BackendNative, BackendMemory}
}
