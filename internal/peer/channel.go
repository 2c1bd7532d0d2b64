// Package peer establishes the single connection between the two players and
// carries fixed-size protocol payloads over it.
package peer

import (
	"fmt"

	"github.com/netgallows/netgallows/internal/protocol"
)

// Role is the side a process plays in connection setup.
type Role string

const (
	Initiator Role = "host" // binds and accepts exactly one peer
	Responder Role = "join" // dials the initiator
)

// Channel is a bidirectional payload stream to the peer. Send may be called
// concurrently with Receive; there must be only one receiving goroutine.
type Channel interface {
	Send(p protocol.Payload) error
	// Receive blocks for the next payload. It returns an error once the
	// connection is closed or reset.
	Receive() (protocol.Payload, error)
	// Close releases the connection and unblocks a pending Receive. Safe to
	// call more than once.
	Close() error
	RemoteAddr() string
}

// SetupError reports a failure to establish the channel. It is fatal: no
// game state exists yet and nothing is retried.
type SetupError struct {
	Role Role
	Addr string
	Err  error
}

func (e *SetupError) Error() string {
	switch e.Role {
	case Initiator:
		return fmt.Sprintf("host on %s: %v", e.Addr, e.Err)
	default:
		return fmt.Sprintf("join %s: %v", e.Addr, e.Err)
	}
}

func (e *SetupError) Unwrap() error { return e.Err }
