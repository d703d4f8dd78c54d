package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
	writeMu  sync.Mutex
)

// Init initializes the golang.design clipboard. Safe to call repeatedly.
func Init() error {
	initOnce.Do(func() {
		initErr = clipboard.Init()
	})
	return initErr
}

func designProvider() (Service, error) {
	if err := Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return designService{}, nil
}

// designService has no way to attach metadata, so it does not implement
// Capabilities.
type designService struct{}

func (designService) ReadText() (string, bool, error) {
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return "", false, nil
	}
	return string(data), true, nil
}

// WriteText performs a mutex-guarded clipboard write to prevent corruption under parallel writes.
func (designService) WriteText(text string, _ bool) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	// Write returns a channel that is closed when the content is overwritten; not needed here.
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (s designService) Clear() error {
	return s.WriteText("", false)
}
