//go:build !windows

package desktop

// NewService returns the Unsupported service and ErrUnsupported.
func NewService() (Service, error) {
	return Unsupported{}, ErrUnsupported
}
