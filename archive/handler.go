package archive

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"yt-insight/config"
	"yt-insight/events"
	"yt-insight/models"
)

type ReportFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error)
}

// Handler archives reports announced by analysis.completed events.
type Handler struct {
	archiver *Archiver
	reports  ReportFinder
}

func NewHandler(a *Archiver, reports ReportFinder) *Handler {
	return &Handler{archiver: a, reports: reports}
}

// HandleAnalysisCompleted returns an error only for failures worth retrying.
func (h *Handler) HandleAnalysisCompleted(ctx context.Context, e events.AnalysisCompletedEvent) error {
	log := config.Logger().With("event_id", e.ID, "report_id", e.ReportID, "user_id", e.UserID)

	id, err := primitive.ObjectIDFromHex(e.ReportID)
	if err != nil {
		log.Warn("skipping event with invalid report id", "error", err)
		return nil
	}
	report, err := h.reports.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load report %s: %w", e.ReportID, err)
	}
	if report == nil {
		// 리포트가 아직 보이지 않을 수 있으므로 재시도 토픽으로 넘긴다.
		return fmt.Errorf("report %s not found", e.ReportID)
	}
	if archived, err := h.archiver.Load(ctx, report.UserID, e.ReportID); err == nil && archived.ID == report.ID {
		// 재전달된 이벤트다. 이미 올라간 객체는 다시 쓰지 않는다.
		log.Info("report already archived", "object_key", ObjectKey(report.UserID, e.ReportID))
		return nil
	}
	key, err := h.archiver.Store(ctx, *report)
	if err != nil {
		return err
	}
	log.Info("report archived", "object_key", key)
	return nil
}
