package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/ports"
)

// DefaultAccessCacheTTL is how long loaded access rules are trusted.
const DefaultAccessCacheTTL = 5 * time.Minute

// AccessService decides whether a listener may start a track.
//
// Rules are loaded from the repository in one batch and cached for the TTL.
// A track without a rule is public. A failed refresh keeps serving the
// previous rules. The playback core never calls this; the presentation layer
// checks before asking the store to play.
//
// Thread-safety: All methods are thread-safe.
type AccessService struct {
	logger *slog.Logger
	rules  ports.AccessRulesRepository
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	cache    map[string]domain.AccessTier
	loadedAt time.Time
}

// NewAccessService creates an access service. A non-positive ttl uses DefaultAccessCacheTTL.
func NewAccessService(logger *slog.Logger, rules ports.AccessRulesRepository, ttl time.Duration) *AccessService {
	if ttl <= 0 {
		ttl = DefaultAccessCacheTTL
	}
	return &AccessService{
		logger: logger.With("service", "access"),
		rules:  rules,
		ttl:    ttl,
		now:    time.Now,
		cache:  make(map[string]domain.AccessTier),
	}
}

// RequiredTier returns the tier a track requires.
func (s *AccessService) RequiredTier(ctx context.Context, trackID string) domain.AccessTier {
	s.refresh(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if tier, ok := s.cache[trackID]; ok {
		return tier
	}
	return domain.TierPublic
}

// AllRules returns a copy of the cached rules keyed by track ID.
func (s *AccessService) AllRules(ctx context.Context) map[string]domain.AccessTier {
	s.refresh(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]domain.AccessTier, len(s.cache))
	for id, tier := range s.cache {
		out[id] = tier
	}
	return out
}

// CanPlay reports whether the session may play the track, with the tier it requires.
func (s *AccessService) CanPlay(ctx context.Context, session domain.UserSession, trackID string) (bool, domain.AccessTier) {
	tier := s.RequiredTier(ctx, trackID)
	return domain.CanUserAccess(session.Tiers, tier, session.IsAuthenticated), tier
}

// Check returns nil when the session may play the track, or an error wrapping
// domain.ErrAccessDenied that carries the lock message.
func (s *AccessService) Check(ctx context.Context, session domain.UserSession, trackID string) error {
	ok, tier := s.CanPlay(ctx, session, trackID)
	if ok {
		return nil
	}
	s.logger.Debug("access denied",
		slog.String("track_id", trackID),
		slog.String("required_tier", string(tier)),
		slog.Bool("authenticated", session.IsAuthenticated))
	return fmt.Errorf("%w: %s", domain.ErrAccessDenied, domain.LockMessage(tier))
}

// SetRule stores a rule and drops the cache so it applies immediately.
func (s *AccessService) SetRule(ctx context.Context, rule domain.ContentAccess) error {
	if err := s.rules.SaveRule(ctx, rule); err != nil {
		return domain.NewServiceError("access", "SetRule", "failed to save rule", err)
	}
	s.Invalidate()
	return nil
}

// Invalidate forces the next lookup to reload the rules.
func (s *AccessService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadedAt = time.Time{}
}

func (s *AccessService) refresh(ctx context.Context) {
	s.mu.Lock()
	fresh := !s.loadedAt.IsZero() && s.now().Sub(s.loadedAt) < s.ttl
	s.mu.Unlock()
	if fresh {
		return
	}

	rules, err := s.rules.Rules(ctx)
	if err != nil {
		s.logger.Error("failed to fetch content access rules", slog.Any("error", err))
		return
	}

	cache := make(map[string]domain.AccessTier, len(rules))
	for _, r := range rules {
		cache[r.TrackID] = r.RequiredTier
	}

	s.mu.Lock()
	s.cache = cache
	s.loadedAt = s.now()
	s.mu.Unlock()

	s.logger.Debug("access rules refreshed", slog.Int("count", len(cache)))
}
