package clipboard

import "fmt"

// Registered formats honored by Windows clipboard history, cloud clipboard
// and well-behaved clipboard monitors.
var sensitiveFormats = []string{
	"ExcludeClipboardContentFromMonitorProcessing",
	"CanIncludeInClipboardHistory",
	"CanUploadToCloudClipboard",
}

// markSensitive attaches every privacy format to the open clipboard. If any
// of them cannot be attached the clipboard is emptied, so text never remains
// without its markers.
func markSensitive(register func(name string) (uintptr, error), set func(format uintptr) error, empty func() error) error {
	for _, name := range sensitiveFormats {
		format, err := register(name)
		if err == nil {
			err = set(format)
		}
		if err != nil {
			if emptyErr := empty(); emptyErr != nil {
				return fmt.Errorf("mark %s: %w (emptying clipboard also failed: %v)", name, err, emptyErr)
			}
			return fmt.Errorf("mark %s: %w", name, err)
		}
	}
	return nil
}
