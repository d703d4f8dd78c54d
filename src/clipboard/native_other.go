//go:build !windows

package clipboard

import "fmt"

func nativeProvider() (Service, error) {
	return nil, fmt.Errorf("%w: native backend is only available on windows", ErrUnavailable)
}
