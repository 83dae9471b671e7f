package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dinebook/backend/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionServiceConfig holds configuration for questionnaire sessions
type SessionServiceConfig struct {
	CalculatingDelay time.Duration
	SessionTTL       time.Duration
}

// Session is a stored questionnaire run
type Session struct {
	ID            string        `json:"id"`
	Locale        domain.Locale `json:"locale"`
	Questionnaire Questionnaire `json:"questionnaire"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// SessionView is a session plus the question to render next, if any
type SessionView struct {
	*Session
	Question *Question `json:"question,omitempty"`
}

// SessionService drives questionnaire sessions through their states
type SessionService struct {
	cache            domain.CacheRepository
	catalog          VenueSource
	matcher          *VibeMatcher
	calculatingDelay time.Duration
	sessionTTL       time.Duration
	logger           *zap.Logger
	now              func() time.Time

	// locks serializes every read-modify-write of a session, including the
	// calculating -> results transition, so ranking runs once per session
	// and never overwrites a later answer, back or reset
	locks sessionLocks
}

// sessionLocks hands out one mutex per session id. Entries are dropped once
// nobody holds or waits on them.
type sessionLocks struct {
	mu   sync.Mutex
	held map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

// lock blocks until the session is free and returns its unlock func
func (l *sessionLocks) lock(id string) func() {
	l.mu.Lock()
	if l.held == nil {
		l.held = make(map[string]*sessionLock)
	}
	entry, ok := l.held[id]
	if !ok {
		entry = &sessionLock{}
		l.held[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.Lock()
	return func() {
		entry.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.held, id)
		}
		l.mu.Unlock()
	}
}

// size reports how many sessions currently have a lock entry
func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}

// NewSessionService creates a new session service with dependencies
func NewSessionService(
	cache domain.CacheRepository,
	catalog VenueSource,
	matcher *VibeMatcher,
	config SessionServiceConfig,
	logger *zap.Logger,
) *SessionService {
	delay := config.CalculatingDelay
	if delay < 0 {
		delay = 0
	}

	ttl := config.SessionTTL
	if ttl == 0 {
		ttl = 30 * time.Minute
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &SessionService{
		cache:            cache,
		catalog:          catalog,
		matcher:          matcher,
		calculatingDelay: delay,
		sessionTTL:       ttl,
		logger:           logger,
		now:              time.Now,
	}
}

// Start creates a new session at the first question
func (s *SessionService) Start(ctx context.Context, locale domain.Locale) (*SessionView, error) {
	now := s.now()
	session := &Session{
		ID:            uuid.NewString(),
		Locale:        locale,
		Questionnaire: NewQuestionnaire(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("questionnaire session started", zap.String("sessionId", session.ID))
	return s.view(ctx, session)
}

// Get returns the session, completing the calculation once its delay has elapsed
func (s *SessionService) Get(ctx context.Context, id string) (*SessionView, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Questionnaire.ReadyAt(s.now(), s.calculatingDelay) {
		session, err = s.complete(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	return s.view(ctx, session)
}

// Answer records option for the current question
func (s *SessionService) Answer(ctx context.Context, id, option string) (*SessionView, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	var regions []string
	if session.Questionnaire.CurrentKey() == domain.AnswerRegion {
		if regions, err = s.regions(ctx); err != nil {
			return nil, err
		}
	}

	next, err := session.Questionnaire.Select(option, regions, s.now())
	if err != nil {
		return nil, err
	}

	return s.update(ctx, session, next)
}

// Back returns the session to the previous question
func (s *SessionService) Back(ctx context.Context, id string) (*SessionView, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := session.Questionnaire.Back()
	if err != nil {
		return nil, err
	}

	return s.update(ctx, session, next)
}

// Reset clears the session's answers and results
func (s *SessionService) Reset(ctx context.Context, id string) (*SessionView, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.update(ctx, session, session.Questionnaire.Reset())
}

func (s *SessionService) update(ctx context.Context, session *Session, next Questionnaire) (*SessionView, error) {
	session.Questionnaire = next
	session.UpdatedAt = s.now()
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return s.view(ctx, session)
}

func (s *SessionService) complete(ctx context.Context, id string) (*Session, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	// Reload under the lock; another request may have completed, reset or
	// re-answered it since the caller looked
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.Questionnaire.ReadyAt(s.now(), s.calculatingDelay) {
		return session, nil
	}

	venues, err := s.catalog.Venues(ctx)
	if err != nil {
		return nil, err
	}

	results := s.matcher.Rank(venues, session.Questionnaire.Answers, session.Locale)
	next, err := session.Questionnaire.Complete(results)
	if err != nil {
		return nil, err
	}

	session.Questionnaire = next
	session.UpdatedAt = s.now()
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("questionnaire session completed",
		zap.String("sessionId", session.ID),
		zap.Int("results", len(results)),
	)
	return session, nil
}

func (s *SessionService) view(ctx context.Context, session *Session) (*SessionView, error) {
	view := &SessionView{Session: session}

	key := session.Questionnaire.CurrentKey()
	if key == "" {
		return view, nil
	}

	var regions []string
	if key == domain.AnswerRegion {
		var err error
		if regions, err = s.regions(ctx); err != nil {
			return nil, err
		}
	}

	question := Questions(session.Locale, regions)[session.Questionnaire.Step]
	view.Question = &question
	return view, nil
}

func (s *SessionService) regions(ctx context.Context) ([]string, error) {
	venues, err := s.catalog.Venues(ctx)
	if err != nil {
		return nil, err
	}
	return s.matcher.BuildRegionOptions(venues), nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (s *SessionService) load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}

	data, err := s.cache.Get(ctx, sessionKey(id))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &session, nil
}

func (s *SessionService) save(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ID, err)
	}
	return s.cache.Set(ctx, sessionKey(session.ID), data, s.sessionTTL)
}
