//go:build !govips || !cgo

package codec

// Startup is a no-op without the govips build tag.
func Startup() error {
	return nil
}

// Shutdown is a no-op without the govips build tag.
func Shutdown() {}
