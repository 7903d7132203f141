package catalog

import "errors"

var (
	ErrNotFound  = errors.New("venue not found")
	ErrForbidden = errors.New("actor does not own this venue")
)
