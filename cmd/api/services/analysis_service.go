package services

import (
	"context"

	"yt-insight/cmd/api/trace"
	"yt-insight/config"
	"yt-insight/pipeline"
)

// Analyzer 는 *pipeline.Pipeline 중 API 가 쓰는 부분이다.
type Analyzer interface {
	Start(ctx context.Context, req pipeline.Request) *pipeline.Run
	Run(ctx context.Context, req pipeline.Request) pipeline.Snapshot
	Get(runID, userID string) (pipeline.Snapshot, error)
	Cancel(runID, userID string) (pipeline.Snapshot, error)
}

type AnalysisService struct {
	analyzer Analyzer
}

func NewAnalysisService(a Analyzer) *AnalysisService {
	return &AnalysisService{analyzer: a}
}

// Analyze 는 끝날 때까지 기다렸다가 최종 스냅샷을 돌려준다.
func (s *AnalysisService) Analyze(ctx context.Context, uid, url string) pipeline.Snapshot {
	return s.analyzer.Run(ctx, pipeline.Request{UserID: uid, URL: url})
}

// Start 는 백그라운드 실행을 시작하고 첫 스냅샷을 돌려준다.
func (s *AnalysisService) Start(ctx context.Context, uid, url string) pipeline.Snapshot {
	snap := s.analyzer.Start(ctx, pipeline.Request{UserID: uid, URL: url}).Snapshot()
	config.Logger().Info("analysis run started", append(trace.LogArgs(ctx), "run_id", snap.RunID, "uid", uid)...)
	return snap
}

func (s *AnalysisService) Get(uid, runID string) (pipeline.Snapshot, error) {
	return s.analyzer.Get(runID, uid)
}

func (s *AnalysisService) Cancel(uid, runID string) (pipeline.Snapshot, error) {
	return s.analyzer.Cancel(runID, uid)
}
