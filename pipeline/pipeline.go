package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"yt-insight/config"
	"yt-insight/events"
	"yt-insight/metrics"
	"yt-insight/models"
	"yt-insight/summarizer"
	"yt-insight/ytapi"
)

const (
	defaultMaxComments     = 200
	defaultNavigationDelay = 1500 * time.Millisecond
	defaultRetention       = 15 * time.Minute
	sideEffectTimeout      = 5 * time.Second
)

var (
	ErrRunNotFound = errors.New("analysis run not found")
	ErrRunFinished = errors.New("analysis run already finished")
)

type ProfileStore interface {
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
	DeductCredit(ctx context.Context, uid string) (bool, error)
}

type VideoSource interface {
	FetchAnalysisData(ctx context.Context, videoID string, maxComments int) (ytapi.AnalysisData, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, videoTitle, videoDescription string, comments []models.VideoComment) (*models.AnalysisReport, *summarizer.LLMRequestLog, error)
}

type ReportStore interface {
	SaveReport(ctx context.Context, userID, videoID, videoTitle, videoURL string, data models.AnalysisReport) (string, error)
}

// RunGuard allows one active run per user across instances.
type RunGuard interface {
	Acquire(ctx context.Context, uid string) (release func(), acquired bool, err error)
}

type EventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, e events.AnalysisCompletedEvent) error
	PublishAnalysisFailed(ctx context.Context, e events.AnalysisFailedEvent) error
	PublishCreditDeducted(ctx context.Context, e events.CreditDeductedEvent) error
}

type Counters interface {
	Inc(ctx context.Context, name string)
	Add(ctx context.Context, name string, n int64)
}

type AILogSink interface {
	Insert(ctx context.Context, log models.AILog) error
}

// Deps are the collaborators of a pipeline. Guard, Events, Counters and AILogs are optional.
type Deps struct {
	Profiles  ProfileStore
	Videos    VideoSource
	Generator ReportGenerator
	Reports   ReportStore
	Guard     RunGuard
	Events    EventPublisher
	Counters  Counters
	AILogs    AILogSink
}

type Options struct {
	MaxComments     int
	NavigationDelay time.Duration
	// Retention is how long finished runs stay queryable.
	Retention time.Duration
	Now       func() time.Time
}

// Request starts one analysis.
type Request struct {
	UserID string
	URL    string
}

// Pipeline drives analysis runs through validate, extract, deduct, fetch,
// validate comments, generate, persist and complete.
type Pipeline struct {
	deps Deps
	opts Options

	mu   sync.Mutex
	runs map[string]*Run
	wg   sync.WaitGroup
}

func New(deps Deps, opts Options) *Pipeline {
	if opts.MaxComments <= 0 {
		opts.MaxComments = defaultMaxComments
	}
	if opts.NavigationDelay <= 0 {
		opts.NavigationDelay = defaultNavigationDelay
	}
	if opts.Retention <= 0 {
		opts.Retention = defaultRetention
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{deps: deps, opts: opts, runs: make(map[string]*Run)}
}

// Start registers a run and executes it in the background. The run keeps ctx's
// values but outlives its cancellation; use Cancel to stop it.
func (p *Pipeline) Start(ctx context.Context, req Request) *Run {
	run := p.register(req)
	bg := context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.execute(bg, run)
	}()
	return run
}

// Run executes an analysis synchronously and returns its final state.
func (p *Pipeline) Run(ctx context.Context, req Request) Snapshot {
	run := p.register(req)
	p.execute(ctx, run)
	return run.Snapshot()
}

// Wait blocks until every run started with Start has returned.
func (p *Pipeline) Wait() { p.wg.Wait() }

// Get returns the run if it belongs to userID.
func (p *Pipeline) Get(runID, userID string) (Snapshot, error) {
	run, err := p.lookup(runID, userID)
	if err != nil {
		return Snapshot{}, err
	}
	return run.Snapshot(), nil
}

// Cancel stops a run owned by userID.
func (p *Pipeline) Cancel(runID, userID string) (Snapshot, error) {
	run, err := p.lookup(runID, userID)
	if err != nil {
		return Snapshot{}, err
	}
	if !run.cancel(p.opts.Now()) {
		return run.Snapshot(), ErrRunFinished
	}
	config.Logger().Info("analysis cancelled", "run_id", run.ID, "user_id", run.UserID)
	p.count(context.Background(), metrics.AnalysesCancelled)
	return run.Snapshot(), nil
}

func (p *Pipeline) lookup(runID, userID string) (*Run, error) {
	p.mu.Lock()
	run, ok := p.runs[runID]
	p.mu.Unlock()
	if !ok || run.UserID != userID {
		return nil, ErrRunNotFound
	}
	return run, nil
}

func (p *Pipeline) register(req Request) *Run {
	now := p.opts.Now()
	run := newRun(uuid.New().String(), req.UserID, req.URL, now)

	p.mu.Lock()
	defer p.mu.Unlock()
	cutoff := now.Add(-p.opts.Retention)
	for id, r := range p.runs {
		if r.finishedBefore(cutoff) {
			delete(p.runs, id)
		}
	}
	p.runs[run.ID] = run
	return run
}

func (p *Pipeline) execute(ctx context.Context, run *Run) {
	log := config.Logger().With("run_id", run.ID, "user_id", run.UserID)
	p.count(ctx, metrics.AnalysesStarted)

	creditSpent := false
	failure := p.steps(ctx, run, &creditSpent)

	now := p.opts.Now()
	switch {
	case run.isCancelled():
		log.Info("analysis stopped after cancellation", "step", run.Snapshot().Step.String(), "credit_spent", creditSpent)
	case failure != nil:
		if !run.finish(StatusFailed, failure, now) {
			return
		}
		log.Warn("analysis failed", "step", failure.Step.String(), "kind", string(failure.Kind), "message", failure.Message, "error", failure.Err)
		p.count(ctx, metrics.AnalysesFailed)
		p.publish(ctx, func(ctx context.Context, ev EventPublisher) error {
			snap := run.Snapshot()
			return ev.PublishAnalysisFailed(ctx, events.AnalysisFailedEvent{
				RunID:       run.ID,
				UserID:      run.UserID,
				VideoID:     snap.VideoID,
				Step:        failure.Step.String(),
				Kind:        string(failure.Kind),
				Message:     failure.Message,
				CreditSpent: creditSpent,
			})
		})
	default:
		snap := run.Snapshot()
		if snap.Status != StatusCompleted {
			return
		}
		log.Info("analysis completed", "report_id", snap.ReportID, "video_id", snap.VideoID, "fallback", snap.Fallback)
		p.count(ctx, metrics.AnalysesCompleted)
		p.publish(ctx, func(ctx context.Context, ev EventPublisher) error {
			return ev.PublishAnalysisCompleted(ctx, events.AnalysisCompletedEvent{
				RunID:      run.ID,
				UserID:     run.UserID,
				ReportID:   snap.ReportID,
				VideoID:    snap.VideoID,
				VideoTitle: snap.VideoTitle,
				Fallback:   snap.Fallback,
			})
		})
	}
}

// steps runs the state machine. A nil result with the run not cancelled means completion.
func (p *Pipeline) steps(ctx context.Context, run *Run, creditSpent *bool) *Failure {
	log := config.Logger().With("run_id", run.ID, "user_id", run.UserID)
	url := strings.TrimSpace(run.URL)

	// validate
	if url == "" {
		return fail(StepValidate, KindValidation, nil, MsgMissingURL)
	}
	profile, err := p.deps.Profiles.GetProfile(ctx, run.UserID)
	if err != nil {
		return fail(StepValidate, KindPersistence, err, MsgProfileNotLoaded)
	}
	if profile == nil {
		return fail(StepValidate, KindValidation, nil, MsgProfileNotLoaded)
	}
	if profile.Credits < 1 {
		return fail(StepValidate, KindInsufficientCredits, nil, MsgNotEnoughCredits)
	}
	if p.deps.Guard != nil {
		release, acquired, err := p.deps.Guard.Acquire(ctx, run.UserID)
		switch {
		case err != nil:
			log.Warn("run guard unavailable, continuing without it", "error", err)
		case !acquired:
			return fail(StepValidate, KindRunInProgress, nil, MsgRunInProgress)
		default:
			defer release()
		}
	}
	if p.stopped(run, StepExtractID) {
		return nil
	}

	// extract_id
	videoID := ytapi.ExtractVideoID(url)
	if videoID == "" {
		return fail(StepExtractID, KindValidation, nil, MsgInvalidURL)
	}
	run.update(func(r *Run) { r.videoID = videoID })
	if p.stopped(run, StepDeductCredit) {
		return nil
	}

	// deduct_credit
	ok, err := p.deps.Profiles.DeductCredit(ctx, run.UserID)
	if err != nil {
		return fail(StepDeductCredit, KindPersistence, err, MsgDeductError, err.Error())
	}
	if !ok {
		return fail(StepDeductCredit, KindInsufficientCredits, nil, MsgDeductFailed)
	}
	*creditSpent = true
	p.count(ctx, metrics.CreditsDeducted)
	p.publish(ctx, func(ctx context.Context, ev EventPublisher) error {
		return ev.PublishCreditDeducted(ctx, events.CreditDeductedEvent{RunID: run.ID, UserID: run.UserID})
	})
	if p.stopped(run, StepFetchData) {
		return nil
	}

	// fetch_data
	data, err := p.deps.Videos.FetchAnalysisData(ctx, videoID, p.opts.MaxComments)
	if err != nil {
		if errors.Is(err, ytapi.ErrVideoNotFound) {
			return fail(StepFetchData, KindNotFound, err, MsgFetchError, "video not found")
		}
		return fail(StepFetchData, KindTransport, err, MsgFetchError, err.Error())
	}
	run.update(func(r *Run) {
		r.videoTitle = data.Details.Title
		r.engagement = &Engagement{
			ViewCount:          data.Details.ViewCount,
			LikeToViewRatio:    data.Details.LikeToViewRatio(),
			CommentToViewRatio: data.Details.CommentToViewRatio(),
		}
	})
	if p.stopped(run, StepValidateComments) {
		return nil
	}

	// validate_comments
	if len(data.Comments) == 0 {
		if data.CommentsStatus == ytapi.CommentsUnavailable {
			return fail(StepValidateComments, KindValidation, nil, MsgCommentsUnavailable)
		}
		return fail(StepValidateComments, KindValidation, nil, MsgCommentsDisabled)
	}
	comments, dropped := ytapi.FilterValidComments(data.Comments)
	if dropped > 0 {
		log.Warn("dropped malformed comments", "video_id", videoID, "dropped", dropped, "kept", len(comments))
		p.add(ctx, metrics.InvalidCommentsDropped, int64(dropped))
	}
	run.update(func(r *Run) {
		r.analyzed = len(comments)
		r.dropped = dropped
	})
	if len(comments) == 0 {
		return fail(StepValidateComments, KindValidation, nil, MsgNoValidComments)
	}
	if p.stopped(run, StepGenerateReport) {
		return nil
	}

	// generate_report
	report, llmLog, err := p.deps.Generator.Generate(ctx, data.Details.Title, data.Details.Description, comments)
	p.recordAILog(ctx, run, videoID, len(comments), llmLog)
	if err != nil {
		kind := KindTransport
		var genErr *summarizer.GenerationError
		if errors.As(err, &genErr) {
			kind = KindGenerationFailed
		}
		return fail(StepGenerateReport, kind, err, MsgAnalyzeError, err.Error())
	}
	if llmLog == nil {
		p.count(ctx, metrics.FallbackReports)
		run.update(func(r *Run) { r.fallback = true })
	}
	if p.stopped(run, StepPersist) {
		return nil
	}

	// persist
	reportID, err := p.deps.Reports.SaveReport(ctx, run.UserID, videoID, data.Details.Title, url, *report)
	if err != nil {
		return fail(StepPersist, KindPersistence, err, MsgSaveError, err.Error())
	}

	// complete
	now := p.opts.Now()
	if !run.complete(reportID, now.Add(p.opts.NavigationDelay), now) {
		log.Info("report stored after cancellation", "report_id", reportID)
	}
	return nil
}

// stopped advances to next unless the run was cancelled meanwhile.
func (p *Pipeline) stopped(run *Run, next Step) bool {
	if run.isCancelled() {
		return true
	}
	run.advance(next, p.opts.Now())
	return false
}

func (p *Pipeline) count(ctx context.Context, name string) {
	if p.deps.Counters != nil {
		p.deps.Counters.Inc(context.WithoutCancel(ctx), name)
	}
}

func (p *Pipeline) add(ctx context.Context, name string, n int64) {
	if p.deps.Counters != nil {
		p.deps.Counters.Add(context.WithoutCancel(ctx), name, n)
	}
}

func (p *Pipeline) publish(ctx context.Context, fn func(context.Context, EventPublisher) error) {
	if p.deps.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	if err := fn(ctx, p.deps.Events); err != nil {
		config.Logger().Warn("failed to publish analysis event", "error", err)
	}
}

func (p *Pipeline) recordAILog(ctx context.Context, run *Run, videoID string, comments int, l *summarizer.LLMRequestLog) {
	if p.deps.AILogs == nil || l == nil {
		return
	}
	entry := models.AILog{
		RunID:        run.ID,
		UserID:       run.UserID,
		VideoID:      videoID,
		Model:        l.ModelName,
		ModelVersion: l.ModelVersion,
		Usage: models.TokenCounts{
			Input:  l.TokenUsage.InputTokens,
			Output: l.TokenUsage.OutputTokens,
			Total:  l.TokenUsage.TotalTokens,
		},
		CommentCount: comments,
		LatencyMs:    l.LatencyMs,
		Prompt:       l.Prompt,
		Response:     l.Response,
		Error:        l.Error,
		StartedAt:    l.GeneratedAt.Add(-time.Duration(l.LatencyMs) * time.Millisecond),
		FinishedAt:   l.GeneratedAt,
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	if err := p.deps.AILogs.Insert(ctx, entry); err != nil {
		config.Logger().Warn("failed to store ai log", "run_id", run.ID, "error", err)
	}
}
