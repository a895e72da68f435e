package camview

import "errors"

// Errors reported by SurfaceProvider render passes. A render pass that fails
// with one of these aborts without submitting any GPU work; whether the
// failure also ends the rendering session is governed by FailurePolicy.
var (
	// ErrSurfaceCreation is returned when a drawing surface cannot be
	// constructed over the current drawable's backing store.
	ErrSurfaceCreation = errors.New("camview: drawing surface creation failed")

	// ErrEmptyFrame is returned when a frame buffer locks to empty or
	// corrupt pixel data.
	ErrEmptyFrame = errors.New("camview: empty frame buffer")

	// ErrSessionEnded is returned by RenderFrame after a fatal-per-call
	// failure terminated the session under FailurePolicyEndSession.
	ErrSessionEnded = errors.New("camview: rendering session ended")
)
