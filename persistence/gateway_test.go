package persistence

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"yt-insight/models"
	"yt-insight/profilefeed"
)

type memProfiles struct {
	mu   sync.Mutex
	byID map[string]models.UserProfile
	err  error
}

func newMemProfiles() *memProfiles { return &memProfiles{byID: map[string]models.UserProfile{}} }

func (m *memProfiles) FindByUID(_ context.Context, uid string) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.byID[uid]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memProfiles) Insert(_ context.Context, p models.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[p.UID] = p
	return nil
}

func (m *memProfiles) DecrementCredit(_ context.Context, uid string) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.byID[uid]
	if !ok || p.Credits < 1 {
		return nil, nil
	}
	p.Credits--
	m.byID[uid] = p
	return &p, nil
}

func (m *memProfiles) GrantCredits(_ context.Context, uid string, n int) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[uid]
	if !ok {
		return nil, nil
	}
	p.Credits += n
	m.byID[uid] = p
	return &p, nil
}

func (m *memProfiles) Update(_ context.Context, uid string, u models.ProfileUpdate) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[uid]
	if !ok {
		return nil, nil
	}
	if u.FullName != nil {
		p.FullName = *u.FullName
	}
	m.byID[uid] = p
	return &p, nil
}

type memReports struct {
	mu      sync.Mutex
	reports []models.Report
	clock   time.Time
}

func (m *memReports) Insert(_ context.Context, rep models.Report) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Second)
	rep.ID = primitive.NewObjectID()
	rep.CreatedAt = m.clock
	m.reports = append(m.reports, rep)
	return rep.ID, nil
}

func (m *memReports) ListByUser(_ context.Context, userID string) ([]models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Report{}
	for _, r := range m.reports {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memReports) FindByUserAndID(_ context.Context, userID string, id primitive.ObjectID) (*models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reports {
		if r.ID == id && r.UserID == userID {
			return &r, nil
		}
	}
	return nil, nil
}

func newTestGateway() (*Gateway, *memProfiles, *profilefeed.Hub) {
	profiles := newMemProfiles()
	hub := profilefeed.NewHub()
	return NewGateway(profiles, &memReports{}, hub, 2), profiles, hub
}

func TestGateway_CreateProfileGrantsCredits(t *testing.T) {
	g, _, _ := newTestGateway()

	p, err := g.CreateProfile(context.Background(), models.UserProfile{UID: "u1", Email: "u1@example.com", Credits: 99})
	require.NoError(t, err)
	assert.Equal(t, 2, p.Credits)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestGateway_GetProfileAbsent(t *testing.T) {
	g, _, _ := newTestGateway()

	p, err := g.GetProfile(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestGateway_DeductCreditNeverGoesNegative(t *testing.T) {
	g, _, _ := newTestGateway()
	_, err := g.CreateProfile(context.Background(), models.UserProfile{UID: "u1"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := g.DeductCredit(context.Background(), "u1")
			if err == nil && ok {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, succeeded)
	p, _ := g.GetProfile(context.Background(), "u1")
	assert.Equal(t, 0, p.Credits)
}

func TestGateway_DeductCreditPublishes(t *testing.T) {
	g, _, hub := newTestGateway()
	_, _ = g.CreateProfile(context.Background(), models.UserProfile{UID: "u1"})
	ch, stop := hub.Subscribe("u1")
	defer stop()

	ok, err := g.DeductCredit(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, ok)

	select {
	case p := <-ch:
		assert.Equal(t, 1, p.Credits)
	case <-time.After(time.Second):
		t.Fatal("no update published")
	}
}

func TestGateway_SubscribeTracksStreams(t *testing.T) {
	g, _, hub := newTestGateway()

	_, stopA := g.Subscribe("u1")
	_, stopB := g.Subscribe("u1")
	assert.Equal(t, 2, hub.Subscribers("u1"))

	stopA()
	stopA()
	assert.Equal(t, 1, hub.Subscribers("u1"))
	stopB()
	assert.Zero(t, hub.Subscribers("u1"))
}

func TestGateway_DeductCreditStoreError(t *testing.T) {
	g, profiles, _ := newTestGateway()
	profiles.err = errors.New("connection reset")

	ok, err := g.DeductCredit(context.Background(), "u1")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestGateway_ReportsScopedAndOrdered(t *testing.T) {
	g, _, _ := newTestGateway()
	ctx := context.Background()

	first, err := g.SaveReport(ctx, "u1", "AAAAAAAAAAA", "first", "https://youtu.be/AAAAAAAAAAA", models.AnalysisReport{})
	require.NoError(t, err)
	second, err := g.SaveReport(ctx, "u1", "BBBBBBBBBBB", "second", "https://youtu.be/BBBBBBBBBBB", models.AnalysisReport{})
	require.NoError(t, err)
	_, err = g.SaveReport(ctx, "u2", "CCCCCCCCCCC", "other", "https://youtu.be/CCCCCCCCCCC", models.AnalysisReport{})
	require.NoError(t, err)

	reports, err := g.GetReports(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, second, reports[0].ID.Hex())
	assert.Equal(t, first, reports[1].ID.Hex())

	rep, err := g.GetReport(ctx, "u2", first)
	require.NoError(t, err)
	assert.Nil(t, rep, "reports are private to their owner")

	rep, err = g.GetReport(ctx, "u1", "not-an-object-id")
	require.NoError(t, err)
	assert.Nil(t, rep)
}

func TestGateway_UpdateProfile(t *testing.T) {
	g, _, _ := newTestGateway()
	_, _ = g.CreateProfile(context.Background(), models.UserProfile{UID: "u1"})
	name := "New Name"

	p, err := g.UpdateProfile(context.Background(), "u1", models.ProfileUpdate{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "New Name", p.FullName)
	assert.Equal(t, 2, p.Credits)
}

func TestGateway_GrantCredits(t *testing.T) {
	ctx := context.Background()
	hub := profilefeed.NewHub()
	g := NewGateway(newMemProfiles(), &memReports{}, hub, 2)
	_, err := g.CreateProfile(ctx, models.UserProfile{UID: "u1"})
	require.NoError(t, err)

	updates, stop := g.Subscribe("u1")
	defer stop()

	p, err := g.GrantCredits(ctx, "u1", 5)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 7, p.Credits)
	assert.Equal(t, 7, (<-updates).Credits)

	missing, err := g.GrantCredits(ctx, "ghost", 1)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = g.GrantCredits(ctx, "u1", 0)
	assert.Error(t, err)
}
