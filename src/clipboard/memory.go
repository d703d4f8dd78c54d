package clipboard

import "sync"

// Memory is an in-process clipboard slot. It keeps the sensitivity flag of
// the last write so callers can inspect it.
type Memory struct {
	mu                sync.Mutex
	text              string
	has               bool
	sensitive         bool
	supportsSensitive bool
}

// NewMemory returns an empty in-process clipboard.
func NewMemory(supportsSensitive bool) *Memory {
	return &Memory{supportsSensitive: supportsSensitive}
}

// Provider returns a Provider that always yields m.
func (m *Memory) Provider() Provider {
	return func() (Service, error) { return m, nil }
}

func (m *Memory) SupportsSensitive() bool { return m.supportsSensitive }

func (m *Memory) ReadText() (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, m.has, nil
}

func (m *Memory) WriteText(text string, sensitive bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.has = true
	m.sensitive = sensitive && m.supportsSensitive
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = ""
	m.has = false
	m.sensitive = false
	return nil
}

// Sensitive reports whether the current content was flagged as sensitive.
func (m *Memory) Sensitive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sensitive
}
