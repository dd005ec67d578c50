package input

import (
	"encoding/hex"

	"github.com/bytedance/sonic"
	"golang.org/x/crypto/blake2b"
)

// Secret wraps a password value so it never appears in logs, String output,
// or JSON diagnostics. The short fingerprint lets operators correlate values
// across renders without exposing them.
type Secret struct {
	value string
}

// NewSecret wraps a raw password value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Reveal returns the true value for final environment assembly.
func (s Secret) Reveal() string { return s.value }

// Fingerprint returns a short blake2b digest of the value.
func (s Secret) Fingerprint() string {
	sum := blake2b.Sum256([]byte(s.value))
	return hex.EncodeToString(sum[:4])
}

// String implements fmt.Stringer with a redaction marker.
func (s Secret) String() string {
	return "[redacted:" + s.Fingerprint() + "]"
}

// MarshalJSON serializes the redaction marker, never the value.
func (s Secret) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(s.String())
}
