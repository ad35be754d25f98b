package leaderboard

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tether/internal/game"
)

const (
	defaultFetchTimeout = 10 * time.Second
	scoreQueryLimit     = 500
)

// Config controls a Service.
type Config struct {
	Relays  []string
	TopN    int
	Timeout time.Duration
	Logger  *log.Logger
}

// Service fans score submissions and ranking queries out to every relay.
// All calls run off the game loop.
type Service struct {
	relays   []*RelayClient
	identity Identity
	topN     int
	timeout  time.Duration
	logger   *log.Logger
	now      func() time.Time
}

// NewService returns a service for cfg. A nil identity disables submission.
func NewService(cfg Config, id Identity) *Service {
	s := &Service{
		identity: id,
		topN:     cfg.TopN,
		timeout:  cfg.Timeout,
		logger:   cfg.Logger,
		now:      time.Now,
	}
	if s.topN <= 0 {
		s.topN = DefaultTopN
	}
	if s.timeout <= 0 {
		s.timeout = defaultFetchTimeout
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	for _, url := range cfg.Relays {
		if url != "" {
			s.relays = append(s.relays, NewRelayClient(url))
		}
	}
	return s
}

// Enabled reports whether any relay is configured.
func (s *Service) Enabled() bool { return len(s.relays) > 0 }

// CanSubmit reports whether the service has relays and a signer.
func (s *Service) CanSubmit() bool { return s.identity != nil && s.Enabled() }

// Self returns the signer's public key, or "" without one.
func (s *Service) Self() string {
	if s.identity == nil {
		return ""
	}
	return s.identity.PublicKey()
}

// Submit publishes res to every relay. It succeeds when at least one relay
// accepts the event.
func (s *Service) Submit(ctx context.Context, res game.Result) error {
	ev, err := NewScoreEvent(s.identity, res, s.now())
	if err != nil {
		return err
	}
	if !s.Enabled() {
		return errors.New("leaderboard: no relays configured")
	}

	var (
		mu       sync.Mutex
		errs     []error
		accepted int
	)
	var g errgroup.Group
	for _, relay := range s.relays {
		g.Go(func() error {
			err := relay.Publish(ctx, ev)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
			} else {
				accepted++
			}
			return nil
		})
	}
	_ = g.Wait()
	if accepted > 0 {
		return nil
	}
	return errors.Join(errs...)
}

// Fetch queries every relay and returns the ranked table. Partial relay
// failures are logged; an error is returned only when every relay failed.
func (s *Service) Fetch(ctx context.Context) ([]Entry, error) {
	if !s.Enabled() {
		return nil, errors.New("leaderboard: no relays configured")
	}
	scores, err := s.queryAll(ctx, Filter{Kinds: []int{KindScore}, DTags: []string{AppTag}, Limit: scoreQueryLimit})
	if err != nil {
		return nil, err
	}

	authors := make([]string, 0, len(scores))
	seen := make(map[string]bool)
	for _, ev := range scores {
		if !seen[ev.PubKey] {
			seen[ev.PubKey] = true
			authors = append(authors, ev.PubKey)
		}
	}
	var profiles map[string]Profile
	if len(authors) > 0 {
		meta, err := s.queryAll(ctx, Filter{Kinds: []int{KindProfile}, Authors: authors, Limit: len(authors)})
		if err != nil {
			s.logger.Printf("leaderboard: profiles: %v", err)
		}
		profiles = Profiles(meta)
	}
	return Rank(scores, profiles, s.topN), nil
}

func (s *Service) queryAll(ctx context.Context, f Filter) ([]Event, error) {
	var (
		mu     sync.Mutex
		events []Event
		ids    = make(map[string]bool)
		errs   []error
		ok     int
	)
	var g errgroup.Group
	for _, relay := range s.relays {
		g.Go(func() error {
			got, err := relay.Query(ctx, f)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				s.logger.Printf("leaderboard: %v", err)
			} else {
				ok++
			}
			for _, ev := range got {
				if !ids[ev.ID] {
					ids[ev.ID] = true
					events = append(events, ev)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	if ok == 0 && len(events) == 0 {
		return nil, errors.Join(errs...)
	}
	return events, nil
}

// SubmitAsync publishes res on a goroutine. The returned channel receives the
// outcome once and is then closed.
func (s *Service) SubmitAsync(res game.Result) <-chan error {
	out := make(chan error, 1)
	go func() {
		defer close(out)
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		err := s.Submit(ctx, res)
		if err != nil {
			s.logger.Printf("leaderboard: submit: %v", err)
		}
		out <- err
	}()
	return out
}

// FetchAsync loads the ranked table on a goroutine. Failures are logged and
// delivered as a nil table.
func (s *Service) FetchAsync() <-chan []Entry {
	out := make(chan []Entry, 1)
	go func() {
		defer close(out)
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		entries, err := s.Fetch(ctx)
		if err != nil {
			s.logger.Printf("leaderboard: fetch: %v", err)
			entries = nil
		}
		out <- entries
	}()
	return out
}
