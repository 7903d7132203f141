package booking

import "errors"

var (
	ErrNotFound  = errors.New("booking not found")
	ErrForbidden = errors.New("actor is not allowed to act on this booking")
)
