package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrCredentialMissing is returned before any request is attempted when
	// no access credential is configured. Callers branch on it to route the
	// user into the settings flow.
	ErrCredentialMissing = errors.New("catalog: credential required")

	// ErrCredentialInvalid is returned when the remote catalog rejects the
	// configured credential.
	ErrCredentialInvalid = errors.New("catalog: invalid credential")
)

// FetchError captures a non-credential fetch failure along with the
// transport status, when one was received.
type FetchError struct {
	Status int
	Detail string
}

func (e *FetchError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("catalog: fetch failed (status=%d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("catalog: fetch failed: %s", e.Detail)
}

// AsFetchError attempts to unwrap an error into a FetchError.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
