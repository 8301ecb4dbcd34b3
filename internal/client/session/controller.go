// Package session implements the application-lock lifecycle: a small state
// machine that gates protected screens behind a local verification check,
// re-arming whenever the app is backgrounded while the lock preference is on.
//
// The policy is deliberately asymmetric and must stay that way: every
// failure to verify (missing hardware, nothing enrolled, sensor error)
// resolves to Unlocked, because inability to check the user is not grounds
// to lock them out of their own records. Only an explicit cancellation of
// the prompt keeps the gate closed.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/ysemenov/coinkeeper/internal/client/biometric"
	"github.com/ysemenov/coinkeeper/internal/logging"
)

// LockState is the gate position.
type LockState int

const (
	// StateLoading means identity or preference resolution is in progress;
	// protected screens stay hidden but no prompt is shown.
	StateLoading LockState = iota
	// StateUnlocked means protected screens may render.
	StateUnlocked
	// StateLocked means a verification prompt must succeed first.
	StateLocked
)

func (s LockState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnlocked:
		return "unlocked"
	case StateLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// AppState mirrors the host lifecycle notifications.
type AppState string

const (
	AppActive     AppState = "active"
	AppInactive   AppState = "inactive"
	AppBackground AppState = "background"
)

// PrefAppLock is the preference-store key holding the lock toggle.
const PrefAppLock = "appLockEnabled"

// PreferenceStore is the persisted key/value collaborator. Values are plain
// strings; the lock toggle is stored as "true"/"false".
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// PromptReason is shown to the user when the verification prompt appears.
const PromptReason = "Unlock CoinKeeper"

// Controller owns the lock state machine. One instance exists per running
// app; all methods are safe for concurrent use. The verification prompt is
// serialized: while one prompt is in flight, further trigger events are
// dropped, and the eventual result is still applied.
type Controller struct {
	prefs    PreferenceStore
	verifier biometric.Verifier
	log      logging.Logger

	mu          sync.Mutex
	state       LockState
	userID      string
	lockEnabled bool
	inFlight    bool
}

// NewController builds a controller in the Loading state with no identity.
func NewController(prefs PreferenceStore, verifier biometric.Verifier, log logging.Logger) *Controller {
	return &Controller{
		prefs:    prefs,
		verifier: verifier,
		log:      log.With("component", "session"),
		state:    StateLoading,
	}
}

// State returns the current gate position.
func (c *Controller) State() LockState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Unlocked reports whether protected screens may render.
func (c *Controller) Unlocked() bool {
	return c.State() == StateUnlocked
}

func (c *Controller) setState(ctx context.Context, next LockState) {
	if c.state != next {
		c.log.Info(ctx, "lock state changed", "from", c.state.String(), "to", next.String())
	}
	c.state = next
}

// SetIdentity feeds a sign-in/sign-out notification. An empty id is sign-out:
// the gate opens since there is no content left to protect. On sign-in the
// controller re-enters Loading while the preference is fetched, then either
// opens the gate or runs the verification prompt.
func (c *Controller) SetIdentity(ctx context.Context, userID string) {
	c.mu.Lock()
	c.userID = userID

	if userID == "" {
		c.lockEnabled = false
		c.setState(ctx, StateUnlocked)
		c.mu.Unlock()
		return
	}

	c.setState(ctx, StateLoading)
	c.mu.Unlock()

	enabled := c.loadLockPref(ctx)

	c.mu.Lock()
	if c.userID != userID { // signed out (or switched) while loading
		c.mu.Unlock()
		return
	}
	c.lockEnabled = enabled
	if !enabled {
		c.setState(ctx, StateUnlocked)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.verifyOrFailOpen(ctx)
}

// HandleAppState feeds a lifecycle notification. Leaving the foreground
// while signed in with the lock enabled re-arms the gate regardless of the
// current state; returning to the foreground while locked re-runs the
// capability check and prompt.
func (c *Controller) HandleAppState(ctx context.Context, app AppState) {
	switch app {
	case AppInactive, AppBackground:
		c.mu.Lock()
		if c.userID != "" && c.lockEnabled {
			c.setState(ctx, StateLocked)
		}
		c.mu.Unlock()

	case AppActive:
		c.mu.Lock()
		locked := c.state == StateLocked
		c.mu.Unlock()
		if locked {
			c.verifyOrFailOpen(ctx)
		}
	}
}

// Retry re-runs the verification prompt after a cancellation. It is a no-op
// unless the gate is armed.
func (c *Controller) Retry(ctx context.Context) {
	c.mu.Lock()
	locked := c.state == StateLocked
	c.mu.Unlock()
	if locked {
		c.verifyOrFailOpen(ctx)
	}
}

// SetLockEnabled persists the preference toggle. Turning the lock off does
// not change the current state; it only prevents future re-arming.
func (c *Controller) SetLockEnabled(ctx context.Context, enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	if err := c.prefs.Set(ctx, PrefAppLock, value); err != nil {
		return err
	}
	c.mu.Lock()
	c.lockEnabled = enabled
	c.mu.Unlock()
	return nil
}

// LockEnabled reports the cached preference value.
func (c *Controller) LockEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lockEnabled
}

// loadLockPref reads the persisted toggle; read failures count as disabled.
func (c *Controller) loadLockPref(ctx context.Context) bool {
	value, err := c.prefs.Get(ctx, PrefAppLock)
	if err != nil {
		c.log.Warn(ctx, "lock preference read failed", "error", err)
		return false
	}
	return value == "true"
}

// verifyOrFailOpen runs the capability check and, if possible, the prompt.
// At most one prompt runs at a time; trigger events arriving while one is
// in flight are dropped, and the in-flight result is applied when it lands.
func (c *Controller) verifyOrFailOpen(ctx context.Context) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return
	}
	c.inFlight = true
	userID := c.userID
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	available, err := c.verifier.Available(ctx)
	if err != nil {
		c.log.Warn(ctx, "capability check failed", "error", err)
		available = false
	}
	if !available {
		c.selfHeal(ctx)
		return
	}

	err = c.verifier.Authenticate(ctx, PromptReason)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.userID != userID { // signed out (or switched) while the prompt was up
		return
	}
	switch {
	case err == nil:
		c.setState(ctx, StateUnlocked)
	case errors.Is(err, biometric.ErrCancelled):
		// the one failure that keeps the gate closed
		c.setState(ctx, StateLocked)
	default:
		c.log.Warn(ctx, "verification failed open", "error", err)
		c.setState(ctx, StateUnlocked)
	}
}

// selfHeal opens the gate and rewrites the persisted preference to false:
// a device that can no longer verify must not leave the user stuck behind
// a lock it cannot lift.
func (c *Controller) selfHeal(ctx context.Context) {
	if err := c.prefs.Set(ctx, PrefAppLock, "false"); err != nil {
		c.log.Warn(ctx, "lock preference self-heal failed", "error", err)
	}
	c.mu.Lock()
	c.lockEnabled = false
	c.setState(ctx, StateUnlocked)
	c.mu.Unlock()
}
