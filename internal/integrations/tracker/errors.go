package tracker

import "errors"

// Client errors. The relay is an opaque third-party device-command API;
// callers only need to distinguish "device unknown" from "relay misbehaved"
// from "could not reach it".
var (
	ErrDeviceNotFound  = errors.New("tracker: device not found")
	ErrInvalidResponse = errors.New("tracker: invalid response from relay")
	ErrUnavailable     = errors.New("tracker: relay unavailable")
)
