//go:build !darwin && !linux

package action

// NewPlatformFocuser is not available on this platform.
func NewPlatformFocuser(bool, ...FocusOption) (*Focuser, func() error, error) {
	return nil, nil, ErrUnsupported
}
