package player

import (
	"context"
	"errors"
)

// ErrAutoplayBlocked is returned by Surface.Play when the platform refuses
// to start playback without a user gesture.
var ErrAutoplayBlocked = errors.New("playback rejected by autoplay policy")

// Surface is the media element the session exclusively owns. No other
// component may set its play state, time or volume directly. The websocket
// controller adapts a remote browser element to this interface; tests use
// an in-memory fake.
type Surface interface {
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Seek(ctx context.Context, seconds float64) error
	SetVolume(ctx context.Context, volume float64) error
	SetMuted(ctx context.Context, muted bool) error
	SetRate(ctx context.Context, rate float64) error
	SetFullscreen(ctx context.Context, on bool) error
	SetPictureInPicture(ctx context.Context, on bool) error
}
