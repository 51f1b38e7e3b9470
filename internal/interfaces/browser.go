package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned by browser primitives invoked against a
// session name that was never launched (or already closed).
var ErrSessionNotFound = errors.New("browser session not found")

// BrowserManager owns headless browser lifecycles keyed by session name.
// Exactly one session exists per run; the run controller that launched a
// session is responsible for closing it on every exit path.
type BrowserManager interface {
	// Launch creates a headless browser and a single page under the given
	// name, replacing (and closing) any prior session with the same name.
	Launch(ctx context.Context, name string) error

	// Navigate loads the URL, waits for DOM readiness, waits a fixed settle
	// time for client-side rendering, then dismisses cookie-consent overlays
	// best-effort.
	Navigate(ctx context.Context, name, url string) error

	// Fill sets the value of the first element matching the selector.
	Fill(ctx context.Context, name, selector, value string) error

	// Click clicks the first element matching the selector.
	Click(ctx context.Context, name, selector string) error

	// Wait blocks until the selector is visible or the timeout elapses.
	Wait(ctx context.Context, name, selector string, timeout time.Duration) error

	// Scroll scrolls the page down one viewport to trigger lazy loading.
	Scroll(ctx context.Context, name string) error

	// CurrentURL returns the page's current location.
	CurrentURL(ctx context.Context, name string) (string, error)

	// Snapshot returns a compact accessibility-like text rendering of the
	// page, capped at a fixed size.
	Snapshot(ctx context.Context, name string) (string, error)

	// ExtractLinks returns absolute hrefs found under the first candidate
	// selector that yields at least one link.
	ExtractLinks(ctx context.Context, name string, selectors []string) ([]string, error)

	// JobDescription runs the three-tier description extraction cascade
	// against the current page.
	JobDescription(ctx context.Context, name string) (string, error)

	// Close releases the browser and removes the session entry. Idempotent;
	// closing an unknown session is a no-op.
	Close(name string)

	// OpenSessions returns the number of live sessions. Used by shutdown
	// and by tests asserting the no-leak invariant.
	OpenSessions() int

	// Shutdown closes every live session.
	Shutdown()
}
