//go:build !linux

package headless

import "errors"

func newSurface(width, height int) (surface, error) {
	return nil, errors.New("headless rendering requires EGL, which is only supported on linux")
}
