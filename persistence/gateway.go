package persistence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"yt-insight/config"
	"yt-insight/models"
	"yt-insight/profilefeed"
)

type ProfileRepository interface {
	FindByUID(ctx context.Context, uid string) (*models.UserProfile, error)
	Insert(ctx context.Context, p models.UserProfile) error
	DecrementCredit(ctx context.Context, uid string) (*models.UserProfile, error)
	GrantCredits(ctx context.Context, uid string, n int) (*models.UserProfile, error)
	Update(ctx context.Context, uid string, u models.ProfileUpdate) (*models.UserProfile, error)
}

type ReportRepository interface {
	Insert(ctx context.Context, rep models.Report) (primitive.ObjectID, error)
	ListByUser(ctx context.Context, userID string) ([]models.Report, error)
	FindByUserAndID(ctx context.Context, userID string, id primitive.ObjectID) (*models.Report, error)
}

// Gateway is the only path to stored profiles and reports.
// Every profile write is pushed to live subscribers.
type Gateway struct {
	profiles    ProfileRepository
	reports     ReportRepository
	hub         *profilefeed.Hub
	signupGrant int
}

func NewGateway(profiles ProfileRepository, reports ReportRepository, hub *profilefeed.Hub, signupGrant int) *Gateway {
	if hub == nil {
		hub = profilefeed.NewHub()
	}
	return &Gateway{profiles: profiles, reports: reports, hub: hub, signupGrant: signupGrant}
}

// GetProfile returns nil without error when uid has no profile.
func (g *Gateway) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	p, err := g.profiles.FindByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", uid, err)
	}
	return p, nil
}

// CreateProfile stores a new profile holding the signup credit grant.
func (g *Gateway) CreateProfile(ctx context.Context, p models.UserProfile) (*models.UserProfile, error) {
	p.Credits = g.signupGrant
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if err := g.profiles.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("create profile %s: %w", p.UID, err)
	}
	g.hub.Publish(p)
	return &p, nil
}

// DeductCredit takes one credit from uid when at least one is available.
// It returns false without writing when the balance is insufficient or the profile is absent.
func (g *Gateway) DeductCredit(ctx context.Context, uid string) (bool, error) {
	p, err := g.profiles.DecrementCredit(ctx, uid)
	if err != nil {
		return false, fmt.Errorf("deduct credit %s: %w", uid, err)
	}
	if p == nil {
		return false, nil
	}
	g.hub.Publish(*p)
	return true, nil
}

// GrantCredits adds n credits to uid. It returns nil when uid has no profile.
func (g *Gateway) GrantCredits(ctx context.Context, uid string, n int) (*models.UserProfile, error) {
	if n <= 0 {
		return nil, fmt.Errorf("grant credits %s: amount must be positive, got %d", uid, n)
	}
	p, err := g.profiles.GrantCredits(ctx, uid, n)
	if err != nil {
		return nil, fmt.Errorf("grant credits %s: %w", uid, err)
	}
	if p != nil {
		g.hub.Publish(*p)
	}
	return p, nil
}

// UpdateProfile applies the user-editable fields and returns the stored result.
func (g *Gateway) UpdateProfile(ctx context.Context, uid string, u models.ProfileUpdate) (*models.UserProfile, error) {
	p, err := g.profiles.Update(ctx, uid, u)
	if err != nil {
		return nil, fmt.Errorf("update profile %s: %w", uid, err)
	}
	if p != nil && !u.IsEmpty() {
		g.hub.Publish(*p)
	}
	return p, nil
}

// SaveReport stores a new report and returns its id.
func (g *Gateway) SaveReport(ctx context.Context, userID, videoID, videoTitle, videoURL string, data models.AnalysisReport) (string, error) {
	id, err := g.reports.Insert(ctx, models.Report{
		UserID:     userID,
		VideoID:    videoID,
		VideoTitle: videoTitle,
		VideoURL:   videoURL,
		ReportData: data,
	})
	if err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}
	return id.Hex(), nil
}

// GetReports returns userID's reports, newest first.
func (g *Gateway) GetReports(ctx context.Context, userID string) ([]models.Report, error) {
	reports, err := g.reports.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// GetReport returns nil when the report does not exist or belongs to someone else.
func (g *Gateway) GetReport(ctx context.Context, userID, reportID string) (*models.Report, error) {
	id, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		return nil, nil
	}
	rep, err := g.reports.FindByUserAndID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", reportID, err)
	}
	return rep, nil
}

// Subscribe streams profile updates for uid until the returned func is called.
func (g *Gateway) Subscribe(uid string) (<-chan models.UserProfile, func()) {
	ch, stop := g.hub.Subscribe(uid)
	log := config.Logger().With("uid", uid)
	log.Debug("profile stream opened", "subscribers", g.hub.Subscribers(uid))
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			stop()
			log.Debug("profile stream closed", "subscribers", g.hub.Subscribers(uid))
		})
	}
}
