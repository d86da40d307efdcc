// Package models defines the core data structures shared by the
// passphrase service and the settings client.
package models

// User represents a managed user known to the passphrase service.
type User struct {
	// Login is the name taken from the client certificate Common Name.
	Login string
}

// MaxPassphraseBytes is the longest passphrase, in bytes, bcrypt can hash.
const MaxPassphraseBytes = 72

// Passphrase is a stored passphrase hash for a managed user.
type Passphrase struct {
	// ID is the unique identifier of the record.
	ID string
	// UserLogin references the owning user.
	UserLogin string
	// Hash is the bcrypt hash of the passphrase.
	Hash []byte
	// CreatedAt is the unix time the record was written.
	CreatedAt int64
	// Superseded is set once a newer passphrase replaces this one.
	Superseded bool
	// SupersededAt is the unix time of the replacement, zero while current.
	SupersededAt int64
}

// AuthState is the authentication state of the settings session.
type AuthState int

const (
	// Unauthenticated means the user has not proven knowledge of the
	// current passphrase.
	Unauthenticated AuthState = iota
	// AuthInProgress means a verification request is outstanding.
	AuthInProgress
	// Authenticated means protected settings may be changed.
	Authenticated
)

// String returns a human-readable name of the state.
func (s AuthState) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case AuthInProgress:
		return "in progress"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}
