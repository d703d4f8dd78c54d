package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

func atottoProvider() (Service, error) {
	if clipboard.Unsupported {
		return nil, fmt.Errorf("%w: no clipboard utility found", ErrUnavailable)
	}
	return atottoService{}, nil
}

// atottoService shells out to the platform clipboard utilities
// (xclip, xsel, wl-clipboard, pbcopy, termux) through atotto/clipboard.
type atottoService struct{}

func (atottoService) ReadText() (string, bool, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", false, fmt.Errorf("failed to read from clipboard: %w", err)
	}
	return text, text != "", nil
}

func (atottoService) WriteText(text string, _ bool) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

func (s atottoService) Clear() error {
	return s.WriteText("", false)
}
