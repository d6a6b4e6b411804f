//go:build tinygo || !cgo

package gldriver

// Desktop returns ErrNoDriver: desktop GL requires cgo.
func Desktop() (Device, error) { return nil, ErrNoDriver }
