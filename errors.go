package atmix

import "errors"

var (
	// ErrInvalidTrack is returned when a non-audio value is passed to
	// a per-track operation.
	ErrInvalidTrack = errors.New("track kind must be audio")
	// ErrTrackAlreadyAdded is returned when a track with the same id
	// is already registered.
	ErrTrackAlreadyAdded = errors.New("track is already added")
)
