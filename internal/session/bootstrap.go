// Package session drives the client-side sign-in bootstrap: resolve the
// current session, load the linked staff profile with a bounded retry, and
// follow sign-in/sign-out events.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateSessionPending  State = "session_pending"
	StateProfileLoading  State = "profile_loading"
	StateReady           State = "ready"
	StateProfileError    State = "profile_error"
)

const (
	DefaultMaxRetries   = 3
	DefaultRetryDelay   = time.Second
	DefaultFetchTimeout = 15 * time.Second
)

// Snapshot is the observable bootstrap state
type Snapshot struct {
	State    State    `json:"state"`
	Profile  *Profile `json:"profile,omitempty"`
	Error    string   `json:"error,omitempty"`
	Kind     Kind     `json:"kind,omitempty"`
	Attempts int      `json:"attempts,omitempty"`
}

type Option func(*Bootstrapper)

func WithMaxRetries(n int) Option {
	return func(b *Bootstrapper) {
		if n >= 0 {
			b.maxRetries = n
		}
	}
}

func WithRetryDelay(d time.Duration) Option {
	return func(b *Bootstrapper) {
		if d > 0 {
			b.retryDelay = d
		}
	}
}

func WithFetchTimeout(d time.Duration) Option {
	return func(b *Bootstrapper) {
		if d > 0 {
			b.fetchTimeout = d
		}
	}
}

// OnChange registers a callback for every state transition
func OnChange(fn func(Snapshot)) Option {
	return func(b *Bootstrapper) { b.onChange = fn }
}

// Bootstrapper is the session/profile state machine. Run owns it; once the
// context passed to Run is cancelled no further transitions happen.
type Bootstrapper struct {
	provider Provider
	profiles ProfileFetcher

	maxRetries   int
	retryDelay   time.Duration
	fetchTimeout time.Duration
	onChange     func(Snapshot)

	mu      sync.Mutex
	current Snapshot
	session *Session

	events chan *Session
}

func NewBootstrapper(provider Provider, profiles ProfileFetcher, opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		provider:     provider,
		profiles:     profiles,
		maxRetries:   DefaultMaxRetries,
		retryDelay:   DefaultRetryDelay,
		fetchTimeout: DefaultFetchTimeout,
		current:      Snapshot{State: StateUnauthenticated},
		events:       make(chan *Session, 1),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bootstrapper) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Reload queues another profile load for the current session, the way out
// of profile_error
func (b *Bootstrapper) Reload() {
	b.mu.Lock()
	s := b.session
	b.mu.Unlock()
	b.push(s)
}

// push replaces any queued event; only the latest session matters
func (b *Bootstrapper) push(s *Session) {
	for {
		select {
		case b.events <- s:
			return
		default:
			select {
			case <-b.events:
			default:
			}
		}
	}
}

// Run resolves the initial session and then follows session changes until
// ctx is cancelled. Each session change cancels the load in progress.
func (b *Bootstrapper) Run(ctx context.Context) error {
	unsubscribe := b.provider.OnSessionChange(b.push)
	defer unsubscribe()

	b.set(ctx, Snapshot{State: StateSessionPending})
	initial, err := b.provider.GetSession(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Str("kind", string(Classify(err))).Msg("could not read session")
		initial = nil
	}

	var (
		wg         sync.WaitGroup
		cancelLoad = func() {}
	)
	start := func(s *Session) {
		cancelLoad()
		wg.Wait()

		b.mu.Lock()
		b.session = s
		b.mu.Unlock()

		if s == nil {
			b.set(ctx, Snapshot{State: StateUnauthenticated})
			return
		}
		loadCtx, cancel := context.WithCancel(ctx)
		cancelLoad = cancel
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.load(loadCtx, s)
		}()
	}

	start(initial)
	for {
		select {
		case <-ctx.Done():
			cancelLoad()
			wg.Wait()
			return ctx.Err()
		case s := <-b.events:
			start(s)
		}
	}
}

// load fetches the profile: network and timeout failures are retried
// maxRetries times with retryDelay in between, auth failures sign out.
func (b *Bootstrapper) load(ctx context.Context, s *Session) {
	attempts := b.maxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		b.set(ctx, Snapshot{State: StateProfileLoading, Attempts: attempt})

		fetchCtx, cancel := context.WithTimeout(ctx, b.fetchTimeout)
		profile, err := b.profiles.FetchProfile(fetchCtx, s)
		cancel()

		if ctx.Err() != nil {
			return
		}
		if err == nil {
			b.set(ctx, Snapshot{State: StateReady, Profile: profile, Attempts: attempt})
			log.Info().Str("staff_id", profile.ID.String()).Int("attempts", attempt).Msg("profile loaded")
			return
		}

		kind := Classify(err)
		switch {
		case kind == KindAuth:
			log.Warn().Err(err).Msg("session rejected, signing out")
			if signOutErr := b.provider.SignOut(ctx); signOutErr != nil {
				log.Warn().Err(signOutErr).Msg("sign out failed")
			}
			b.set(ctx, Snapshot{State: StateUnauthenticated, Kind: kind, Attempts: attempt})
			return
		case !kind.Retryable() || attempt == attempts:
			log.Error().Err(err).Str("kind", string(kind)).Int("attempts", attempt).Msg("profile load failed")
			b.set(ctx, Snapshot{State: StateProfileError, Error: userMessage(kind, err), Kind: kind, Attempts: attempt})
			return
		}

		log.Warn().Err(err).Str("kind", string(kind)).Int("attempt", attempt).
			Dur("retry_in", b.retryDelay).Msg("profile load failed, retrying")
		if !sleep(ctx, b.retryDelay) {
			return
		}
	}
}

// sleep waits d or until ctx is done; false means cancelled
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// set applies a transition unless ctx is already done
func (b *Bootstrapper) set(ctx context.Context, next Snapshot) {
	b.mu.Lock()
	if ctx.Err() != nil {
		b.mu.Unlock()
		return
	}
	b.current = next
	fn := b.onChange
	b.mu.Unlock()

	if fn != nil {
		fn(next)
	}
}
