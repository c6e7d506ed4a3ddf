package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/dreamtune/internal/domain"
	"github.com/tejashwikalptaru/dreamtune/internal/logger"
)

// Mock rules repository for testing
type mockRulesRepository struct {
	mu    sync.Mutex
	rules map[string]domain.ContentAccess
	loads int
	fail  bool
}

func newMockRulesRepository(rules ...domain.ContentAccess) *mockRulesRepository {
	m := &mockRulesRepository{rules: make(map[string]domain.ContentAccess)}
	for _, r := range rules {
		m.rules[r.TrackID] = r
	}
	return m
}

func (m *mockRulesRepository) Rule(_ context.Context, trackID string) (domain.ContentAccess, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rules[trackID]
	if !ok {
		return domain.ContentAccess{}, domain.ErrAccessRuleNotFound
	}
	return r, nil
}

func (m *mockRulesRepository) Rules(_ context.Context) ([]domain.ContentAccess, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.fail {
		return nil, errors.New("connection refused")
	}
	out := make([]domain.ContentAccess, 0, len(m.rules))
	for _, r := range m.rules {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockRulesRepository) SaveRule(_ context.Context, rule domain.ContentAccess) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.TrackID] = rule
	return nil
}

func (m *mockRulesRepository) DeleteRule(_ context.Context, trackID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rules, trackID)
	return nil
}

func (m *mockRulesRepository) Close() error { return nil }

func (m *mockRulesRepository) setFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

func (m *mockRulesRepository) loadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

func TestAccessService_CanPlay(t *testing.T) {
	repo := newMockRulesRepository(
		domain.ContentAccess{TrackID: "members", RequiredTier: domain.TierAuthenticated},
		domain.ContentAccess{TrackID: "exclusive", RequiredTier: domain.TierPatron},
		domain.ContentAccess{TrackID: "odd", RequiredTier: "vip"},
	)
	svc := NewAccessService(logger.NewTestLogger(), repo, time.Minute)
	ctx := context.Background()

	guest := domain.UserSession{}
	member := domain.UserSession{UserID: "u1", IsAuthenticated: true, Tiers: []string{"free"}}
	patron := domain.UserSession{UserID: "u2", IsAuthenticated: true, Tiers: []string{"Gold-Supporter"}}

	tests := []struct {
		name    string
		session domain.UserSession
		trackID string
		want    bool
		tier    domain.AccessTier
	}{
		{"guest unruled track", guest, "open", false, domain.TierPublic},
		{"member unruled track", member, "open", true, domain.TierPublic},
		{"member authenticated track", member, "members", true, domain.TierAuthenticated},
		{"member patron track", member, "exclusive", false, domain.TierPatron},
		{"patron patron track", patron, "exclusive", true, domain.TierPatron},
		{"patron unknown tier", patron, "odd", false, "vip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, tier := svc.CanPlay(ctx, tt.session, tt.trackID)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.tier, tier)
		})
	}
	assert.Equal(t, 1, repo.loadCount(), "rules are loaded once per TTL")
}

func TestAccessService_CheckCarriesLockMessage(t *testing.T) {
	repo := newMockRulesRepository(domain.ContentAccess{TrackID: "exclusive", RequiredTier: domain.TierPatron})
	svc := NewAccessService(logger.NewTestLogger(), repo, 0)

	err := svc.Check(context.Background(), domain.UserSession{IsAuthenticated: true}, "exclusive")
	require.ErrorIs(t, err, domain.ErrAccessDenied)
	assert.Contains(t, err.Error(), "Exclusive for Patreon supporters")

	err = svc.Check(context.Background(), domain.UserSession{}, "anything")
	require.ErrorIs(t, err, domain.ErrAccessDenied)
	assert.Contains(t, err.Error(), "Sign in to listen")

	assert.NoError(t, svc.Check(context.Background(), domain.UserSession{IsAuthenticated: true}, "anything"))
}

func TestAccessService_CacheExpires(t *testing.T) {
	repo := newMockRulesRepository()
	svc := NewAccessService(logger.NewTestLogger(), repo, 5*time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	assert.Equal(t, domain.TierPublic, svc.RequiredTier(ctx, "t1"))

	// Rule added behind the cache's back is invisible until expiry
	require.NoError(t, repo.SaveRule(ctx, domain.ContentAccess{TrackID: "t1", RequiredTier: domain.TierPatron}))
	now = now.Add(4 * time.Minute)
	assert.Equal(t, domain.TierPublic, svc.RequiredTier(ctx, "t1"))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, domain.TierPatron, svc.RequiredTier(ctx, "t1"))
	assert.Equal(t, 2, repo.loadCount())
}

func TestAccessService_SetRuleAppliesImmediately(t *testing.T) {
	repo := newMockRulesRepository()
	svc := NewAccessService(logger.NewTestLogger(), repo, time.Hour)
	ctx := context.Background()

	assert.Equal(t, domain.TierPublic, svc.RequiredTier(ctx, "t1"))
	require.NoError(t, svc.SetRule(ctx, domain.ContentAccess{TrackID: "t1", RequiredTier: domain.TierAuthenticated}))

	assert.Equal(t, domain.TierAuthenticated, svc.RequiredTier(ctx, "t1"))
	assert.Equal(t, map[string]domain.AccessTier{"t1": domain.TierAuthenticated}, svc.AllRules(ctx))
}

func TestAccessService_RefreshFailureKeepsPreviousRules(t *testing.T) {
	repo := newMockRulesRepository(domain.ContentAccess{TrackID: "t1", RequiredTier: domain.TierPatron})
	svc := NewAccessService(logger.NewTestLogger(), repo, time.Minute)
	ctx := context.Background()

	require.Equal(t, domain.TierPatron, svc.RequiredTier(ctx, "t1"))

	repo.setFail(true)
	svc.Invalidate()

	assert.Equal(t, domain.TierPatron, svc.RequiredTier(ctx, "t1"))
	assert.Equal(t, 2, repo.loadCount())
}
