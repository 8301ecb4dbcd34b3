package biometric

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// TermVerifier stands in for a platform biometric prompt in the CLI shell:
// the enrolled credential is a passphrase digest, and the "sensor" is the
// terminal. Availability requires an interactive terminal and an enrolled
// digest, mirroring hardware-present + credential-enrolled.
type TermVerifier struct {
	enrolled []byte // sha256 of the enrolled passphrase, empty if none
	out      io.Writer
}

// NewTermVerifier builds a verifier with the given enrolled digest, which
// may be nil when no passphrase has been set up.
func NewTermVerifier(enrolledDigest []byte, out io.Writer) *TermVerifier {
	return &TermVerifier{enrolled: enrolledDigest, out: out}
}

// Digest returns the enrollment digest for a passphrase.
func Digest(passphrase []byte) []byte {
	d := sha256.Sum256(passphrase)
	return d[:]
}

// Enroll replaces the enrolled digest. Passing nil removes the credential,
// making the verifier unavailable.
func (v *TermVerifier) Enroll(digest []byte) {
	v.enrolled = digest
}

func (v *TermVerifier) Available(ctx context.Context) (bool, error) {
	if len(v.enrolled) == 0 {
		return false, nil
	}
	return isTerminal(int(os.Stdin.Fd())), nil
}

// Authenticate prompts for the passphrase without echo, allowing up to
// three attempts the way platform prompts do. An empty entry is the user
// backing out (ErrCancelled); exhausting all attempts is ErrNotRecognized.
func (v *TermVerifier) Authenticate(ctx context.Context, reason string) error {
	if _, err := fmt.Fprintln(v.out, reason); err != nil {
		return err
	}
	for attempt := 0; attempt < 3; attempt++ {
		fmt.Fprint(v.out, "Passphrase (empty to cancel): ")
		pw, err := readPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(v.out)
		if err != nil {
			return err
		}
		if len(pw) == 0 {
			return ErrCancelled
		}
		if subtle.ConstantTimeCompare(Digest(pw), v.enrolled) == 1 {
			return nil
		}
		fmt.Fprintln(v.out, "Not recognized, try again.")
	}
	return ErrNotRecognized
}
