package services

import "github.com/baharkarakas/inventory-backend/internal/apperr"

// Errors returned to handlers. Messages are safe to show to clients.
var (
	ErrDuplicateEmail     = apperr.New(apperr.KindDuplicate, "User already exists with this email")
	ErrInvalidCredentials = apperr.New(apperr.KindInvalidCredentials, "Invalid credentials")
	ErrNotActivated       = apperr.New(apperr.KindNotActivated, "Account not activated. Please check your email.")

	ErrInvalidActivationToken = apperr.New(apperr.KindInvalidToken, "Invalid or expired activation token")
	ErrActivationUserNotFound = apperr.New(apperr.KindInvalidToken, "User not found")
	ErrAlreadyActivated       = apperr.New(apperr.KindInvalidToken, "Account already activated")

	ErrPasswordRequired  = apperr.Validation("Password is required")
	ErrInvalidResetToken = apperr.New(apperr.KindInvalidToken, "Invalid or expired password reset token")

	ErrUserNotFound = apperr.NotFound("User not found")

	ErrItemNotFound      = apperr.NotFound("Item not found")
	ErrDuplicateItem     = apperr.New(apperr.KindDuplicate, "Inventory item with this name already exists")
	ErrItemImageRequired = apperr.Validation("Item image is required")
	ErrItemNameRequired  = apperr.Validation("Item name is required")
	ErrNegativePrice     = apperr.Validation("Price must be a non-negative number")
	ErrNegativeStock     = apperr.Validation("Stock must be a non-negative integer")
	ErrPriceTooLarge     = apperr.Validation("Price must not exceed 9999999999.99")
	ErrPricePrecision    = apperr.Validation("Price must have at most 2 decimal places")
	ErrItemOutOfRange    = apperr.Validation("Item values are out of range")
)
