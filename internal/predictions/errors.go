package predictions

import "errors"

var (
	ErrNotFound     = errors.New("prediction not found")
	ErrInvalidInput = errors.New("invalid input")
)
