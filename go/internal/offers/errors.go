package offers

import "errors"

var (
	// ErrOfferNotFound is returned when a command targets an unknown offer.
	ErrOfferNotFound = errors.New("offers: offer not found")

	// ErrAlreadyFinal is returned when accepting or rejecting an offer that
	// already reached a terminal state. The command is a state no-op; in
	// particular the transfer side effects are never re-applied.
	ErrAlreadyFinal = errors.New("offers: offer already finalized")

	// ErrInvalidPrice is returned when an offer's price is not a positive
	// finite number.
	ErrInvalidPrice = errors.New("offers: price must be a positive finite number")
)
