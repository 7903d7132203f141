package payment

import "errors"

var (
	ErrNotFound  = errors.New("payment not found")
	ErrForbidden = errors.New("actor is not allowed to act on this payment")
)
