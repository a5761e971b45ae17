package study

import "errors"

// Study service errors
var (
	// ErrCardNotFound indicates the reviewed card does not exist
	ErrCardNotFound = errors.New("card not found")

	// ErrInvalidQuality indicates the quality rating is outside [0,5]
	ErrInvalidQuality = errors.New("quality rating must be between 0 and 5")
)
