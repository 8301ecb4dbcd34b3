// Package biometric defines the local-verification contract the session lock
// depends on, plus a terminal-based implementation used by the CLI shell.
package biometric

import (
	"context"
	"errors"
)

// ErrCancelled is returned by Authenticate when the user explicitly backed
// out of the prompt. The session lock treats it differently from every other
// failure: cancellation keeps the gate closed, anything else fails open.
var ErrCancelled = errors.New("verification cancelled by user")

// ErrNotRecognized is returned when the presented credential did not match.
var ErrNotRecognized = errors.New("credential not recognized")

// Verifier is the device-verification collaborator.
//
// Available reports whether verification can be performed at all (hardware
// present and a credential enrolled). Authenticate blocks until the user
// completes or abandons the prompt; it is the only suspending call in the
// session lock and is never invoked concurrently by the controller.
type Verifier interface {
	Available(ctx context.Context) (bool, error)
	Authenticate(ctx context.Context, reason string) error
}
