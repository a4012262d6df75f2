package telnet

import "context"

// Transport is the external collaborator contract: a byte-oriented,
// reliable, ordered, full-duplex channel. TCP/TLS acquisition and
// accept-loop plumbing that produces a Transport are explicitly out
// of the core's scope; the core only consumes this interface.
type Transport interface {
	// Write buffers bytes for later transmission.
	Write(p []byte) (int, error)
	// Drain suspends until buffered bytes have been accepted by the
	// kernel.
	Drain(ctx context.Context) error
	// PauseReading asks the transport to stop delivering bytes to the
	// parser (flow control).
	PauseReading()
	// ResumeReading asks the transport to resume delivering bytes.
	ResumeReading()
	// Close closes the transport.
	Close() error
}
