package domain

import "errors"

var (
	// ErrTokenNotFound is returned when a token number is not part of the collection
	ErrTokenNotFound = errors.New("token not found")

	// ErrOwnershipUnavailable is returned when every resolution tier failed and
	// no cached record exists for the token
	ErrOwnershipUnavailable = errors.New("ownership unavailable")

	// ErrInvalidPurchaseEvent is returned when a purchase event fails validation
	ErrInvalidPurchaseEvent = errors.New("invalid purchase event")
)
