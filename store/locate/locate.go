// Package locate abstracts the platform's geolocation capability. The app
// container asks it for the current position and degrades to a fixed
// fallback coordinate when the device cannot answer.
package locate

import (
	"context"
	"errors"

	"github.com/trailhead/trailhead-go/client"
)

// ErrNoLocator distinguishes "no geolocation capability at all" from
// "capability present but the position could not be obtained". Only the
// former surfaces to callers; the latter degrades to the fallback.
var ErrNoLocator = errors.New("geolocation is not supported on this platform")

// DefaultFallback is used whenever no device position is available.
// Boston Common, same anchor the product has always shipped with.
var DefaultFallback = client.LatLng{Lat: 42.3601, Lng: -71.0589}

// Source tags where a resolved coordinate came from, so callers can
// assert on the degraded path without inspecting logs.
type Source int

const (
	// SourceDevice means the platform reported a real position.
	SourceDevice Source = iota
	// SourceFallback means the fixed fallback coordinate was substituted.
	SourceFallback
)

func (s Source) String() string {
	if s == SourceDevice {
		return "device"
	}
	return "fallback"
}

// Locator reports the device's current position.
type Locator interface {
	Current(ctx context.Context) (client.LatLng, error)
}

// Func adapts a plain function into a Locator.
type Func func(ctx context.Context) (client.LatLng, error)

func (f Func) Current(ctx context.Context) (client.LatLng, error) { return f(ctx) }

// Static is a Locator pinned to one coordinate. Useful for kiosks and
// tests.
type Static struct {
	Position client.LatLng
}

func (s Static) Current(context.Context) (client.LatLng, error) {
	return s.Position, nil
}
