package stations

import "errors"

var (
	// ErrProviderUnavailable wraps any failure of a provider or tariff fetch.
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrUnknownAdapter      = errors.New("unknown data adapter")
	ErrInvalidBounds       = errors.New("invalid bounding box")
	ErrStationNotFound     = errors.New("station not found")
	// ErrAreaTooLarge is returned by CheckArea for viewports that would
	// flood the providers.
	ErrAreaTooLarge = errors.New("area too large")
	// ErrLiteStation is returned when a deep-link placeholder is used where a
	// resolved station is required.
	ErrLiteStation = errors.New("station is not resolved")
)
