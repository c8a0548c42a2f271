// Package recorder implements the audio capture session: a small state
// machine over a platform capture backend, producing one audio file per
// session.
package recorder

import "context"

// Capture is the platform audio backend. Implementations write encoded
// audio to the destination path between Begin and End.
type Capture interface {
	// Begin starts capturing microphone audio into destPath.
	Begin(ctx context.Context, destPath string) error

	// Pause suspends capture without finalizing the file.
	Pause() error

	// Resume continues a paused capture.
	Resume() error

	// End stops capture and finalizes the file so it is playable.
	End() error
}

// Permissions models the microphone permission capability. Request is only
// called when the permission has not been granted yet.
type Permissions interface {
	Granted(ctx context.Context) bool
	Request(ctx context.Context) (bool, error)
}

// GrantedPermissions is the desktop adapter: terminal processes have no
// permission broker, the OS prompts on first device access.
type GrantedPermissions struct{}

func (GrantedPermissions) Granted(context.Context) bool          { return true }
func (GrantedPermissions) Request(context.Context) (bool, error) { return true, nil }
