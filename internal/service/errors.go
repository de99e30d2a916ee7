package service

import "errors"

var (
	// ErrInvalidClerkID is returned when the owner id is empty.
	ErrInvalidClerkID = errors.New("clerk id is required")

	// ErrInvalidBookingID is returned when booking ID is empty.
	ErrInvalidBookingID = errors.New("booking id is required")

	// ErrInvalidBooking is returned when a booking payload is missing a required field.
	ErrInvalidBooking = errors.New("invalid booking")

	// ErrInvalidPackageType is returned for an unknown package type.
	ErrInvalidPackageType = errors.New("invalid package type")

	// ErrInvalidWeight is returned when weight is missing, non-numeric, not positive or too large.
	ErrInvalidWeight = errors.New("weight must be a positive number")

	// ErrInvalidDeliveryMeans is returned when the carrier is not one of the offered options.
	ErrInvalidDeliveryMeans = errors.New("invalid delivery means")

	// ErrInvalidMobileNumber is returned when a mobile number is not ten digits.
	ErrInvalidMobileNumber = errors.New("mobile number must be 10 digits")

	// ErrAmountMismatch is returned when the client-computed amount disagrees with pricing.
	ErrAmountMismatch = errors.New("amount does not match package pricing")

	// ErrInvalidBookingStatus is returned for an unknown booking status.
	ErrInvalidBookingStatus = errors.New("invalid booking status")

	// ErrInvalidAmount is returned when a transaction amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidTransactionType is returned for an unknown transaction type.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidProvider is returned for an unknown or unsuitable provider.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidPhoneNumber is returned when a phone number does not belong to the provider.
	ErrInvalidPhoneNumber = errors.New("phone number is not valid for the provider")

	// ErrInvalidPaymentMethod is returned when payment method is invalid.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidProfile is returned when a profile is missing a required field.
	ErrInvalidProfile = errors.New("invalid profile")

	// ErrInvalidDate is returned when a date filter is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

	// ErrInvalidLocation is returned when location coordinates are invalid.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrUserNotFound is returned when the clerk id has no account.
	ErrUserNotFound = errors.New("user not found")

	// ErrBookingNotOwned is returned when a customer acts on someone else's booking.
	ErrBookingNotOwned = errors.New("booking belongs to another user")

	// ErrInsufficientBalance is returned when the wallet cannot cover a debit.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrBookingAlreadyPaid is returned when paying a completed booking with a new key.
	ErrBookingAlreadyPaid = errors.New("booking already paid")

	// ErrBookingNotPayable is returned when the booking is not pending.
	ErrBookingNotPayable = errors.New("booking is not awaiting payment")

	// ErrPaymentInProgress is returned when another payment attempt holds the booking.
	ErrPaymentInProgress = errors.New("payment already in progress for this booking")

	// ErrIdempotencyKeyReused is returned when a key is replayed for a different booking.
	ErrIdempotencyKeyReused = errors.New("idempotency key already used for another payment")

	// ErrPaymentDeclined is returned when the mobile-money network rejects a charge.
	ErrPaymentDeclined = errors.New("payment declined by provider")

	// ErrTrackingNotEnabled is returned when tracking a booking bought without tracking.
	ErrTrackingNotEnabled = errors.New("tracking not enabled for this booking")

	// ErrTrackingNotStarted is returned when no position has been recorded yet.
	ErrTrackingNotStarted = errors.New("tracking not started")

	// ErrRouteUnavailable is returned when the routing service fails.
	ErrRouteUnavailable = errors.New("route unavailable")

	// ErrInvalidCredentials is returned when an admin login fails.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken is returned when an admin token is missing, malformed or expired.
	ErrInvalidToken = errors.New("invalid or expired token")
)
