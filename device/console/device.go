// Package console contains drivers for character consoles.
package console

import "io"

// The Device interface is implemented by objects that can function as system
// consoles. Consoles are byte streams with no notion of screen geometry.
type Device interface {
	io.Writer
	io.ByteWriter
}
