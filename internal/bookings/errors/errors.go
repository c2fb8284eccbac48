package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid ID format")

	ErrHotelNotFound = errors.New("hotel not found")

	ErrUserNotFound = errors.New("user not found")

	ErrRedeemableNotFound = errors.New("redeemable not found")

	ErrInventoryItemNotFound = errors.New("item not found in inventory")

	ErrSettingNotFound = errors.New("setting not found")

	// ErrLockHeld is returned when another request holds the hotel's booking lock.
	ErrLockHeld = errors.New("booking lock is held by another request")

	// ErrStatusMismatch is returned by a conditional status transition when the
	// booking is no longer in the expected status.
	ErrStatusMismatch = errors.New("booking status does not match")
)
