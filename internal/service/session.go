package service

import (
	"context"
	"time"

	"github.com/funnelkit/funnelkit/internal/config"
	ierr "github.com/funnelkit/funnelkit/internal/errors"
	"github.com/funnelkit/funnelkit/internal/funnel"
	"github.com/funnelkit/funnelkit/internal/gateway"
	"github.com/funnelkit/funnelkit/internal/logger"
	"github.com/funnelkit/funnelkit/internal/navigation"
	"github.com/funnelkit/funnelkit/internal/pubsub"
	"github.com/oklog/ulid/v2"
	gocache "github.com/patrickmn/go-cache"
)

const (
	defaultSettleDelay       = 1500 * time.Millisecond
	defaultSummaryRetryDelay = 2 * time.Second
)

// Session pairs a checkout orchestrator with its session-scoped navigator
type Session struct {
	ID           string
	Orchestrator *Orchestrator
	Navigator    *navigation.MemoryNavigator
}

// SessionService creates and resolves per-visitor checkout sessions
type SessionService interface {
	// Create mounts a new funnel session, optionally resuming from a raw
	// browser location ("/thank-you/?order_id=77&pi_id=abc")
	Create(ctx context.Context, rawLocation string) (*Session, error)
	// Get resolves an existing session by id
	Get(id string) (*Session, error)
	// Funnel exposes the immutable funnel document
	Funnel() *funnel.Config
}

type sessionService struct {
	cfg      *config.Configuration
	funnel   *funnel.Config
	gateway  gateway.Adapter
	channel  pubsub.PubSub
	logger   *logger.Logger
	sessions *gocache.Cache

	settleDelay       time.Duration
	summaryRetryDelay time.Duration
}

// NewSessionService creates the session service backed by a TTL store
func NewSessionService(
	cfg *config.Configuration,
	funnelCfg *funnel.Config,
	gw gateway.Adapter,
	channel pubsub.PubSub,
	log *logger.Logger,
) SessionService {
	return &sessionService{
		cfg:               cfg,
		funnel:            funnelCfg,
		gateway:           gw,
		channel:           channel,
		logger:            log,
		sessions:          gocache.New(cfg.Session.TTL, cfg.Session.CleanupInterval),
		settleDelay:       defaultSettleDelay,
		summaryRetryDelay: defaultSummaryRetryDelay,
	}
}

func (s *sessionService) Create(ctx context.Context, rawLocation string) (*Session, error) {
	if err := s.funnel.Validate(); err != nil {
		return nil, err
	}

	initial := navigation.Location{}
	if rawLocation != "" {
		loc, err := navigation.ParseLocation(rawLocation)
		if err != nil {
			return nil, err
		}
		initial = loc
	}

	id := ulid.Make().String()
	nav := navigation.NewMemoryNavigator(initial)

	orchestrator := NewOrchestrator(OrchestratorParams{
		SessionID:         id,
		Funnel:            s.funnel,
		Gateway:           s.gateway,
		Navigator:         nav,
		Logger:            s.logger,
		SettleDelay:       s.settleDelay,
		SummaryRetryDelay: s.summaryRetryDelay,
	})
	orchestrator.Mount(ctx)

	if s.channel != nil {
		if err := orchestrator.SubscribeOfferEvents(ctx, s.channel); err != nil {
			s.logger.Warnw("offer event subscription failed", "error", err, "session_id", id)
		}
	}

	session := &Session{ID: id, Orchestrator: orchestrator, Navigator: nav}
	s.sessions.Set(id, session, gocache.DefaultExpiration)
	return session, nil
}

func (s *sessionService) Get(id string) (*Session, error) {
	if v, found := s.sessions.Get(id); found {
		return v.(*Session), nil
	}
	return nil, ierr.NewError("session not found").
		WithHint("The checkout session has expired, reload to start over").
		Mark(ierr.ErrSessionExpired)
}

func (s *sessionService) Funnel() *funnel.Config {
	return s.funnel
}
