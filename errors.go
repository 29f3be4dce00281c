package gpuscale

import "errors"

// Errors returned by gpuscale. Native failures are wrapped around these
// with fmt.Errorf, so callers should test with errors.Is.
var (
	// ErrUnsupported is returned when the device lacks a required capability.
	ErrUnsupported = errors.New("gpuscale: required GPU capabilities not supported")

	// ErrListFull is returned when a pool has reached its maximum size.
	ErrListFull = errors.New("gpuscale: resource list full")

	// ErrInvalidSize is returned for zero or negative dimensions.
	ErrInvalidSize = errors.New("gpuscale: invalid size")

	// ErrNoLUT is returned when the bicubic lookup texture is unavailable.
	ErrNoLUT = errors.New("gpuscale: bicubic lookup texture unavailable")

	// ErrShaderCompile is returned when a shader cannot be parsed.
	ErrShaderCompile = errors.New("gpuscale: shader compilation failed")

	// ErrClosed is returned when operating on a closed environment.
	ErrClosed = errors.New("gpuscale: environment closed")

	// ErrNoAdapter is returned when a backend exposes no adapters.
	ErrNoAdapter = errors.New("gpuscale: no GPU adapter found")

	// ErrUnknownBackend is returned for an unrecognized backend name.
	ErrUnknownBackend = errors.New("gpuscale: unknown backend")

	// ErrNoSource is returned when a rescale is given no source texture.
	ErrNoSource = errors.New("gpuscale: no source texture")

	// ErrInvalidSpline is returned for an unknown spline selector.
	ErrInvalidSpline = errors.New("gpuscale: invalid spline kind")
)
