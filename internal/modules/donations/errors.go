package donations

import "errors"

var (
	ErrNotFound      = errors.New("donation not found")
	ErrInvalidRecord = errors.New("invalid donation record")
)
