package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yt-insight/events"
	"yt-insight/metrics"
	"yt-insight/models"
	"yt-insight/summarizer"
	"yt-insight/ytapi"
)

type fakeProfiles struct {
	mu        sync.Mutex
	profiles  map[string]*models.UserProfile
	getErr    error
	deductErr error
	deducted  int
}

func newFakeProfiles(uid string, credits int) *fakeProfiles {
	return &fakeProfiles{profiles: map[string]*models.UserProfile{
		uid: {UID: uid, Email: uid + "@example.com", Credits: credits},
	}}
}

func (f *fakeProfiles) GetProfile(_ context.Context, uid string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.profiles[uid]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) DeductCredit(_ context.Context, uid string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deductErr != nil {
		return false, f.deductErr
	}
	p, ok := f.profiles[uid]
	if !ok || p.Credits < 1 {
		return false, nil
	}
	p.Credits--
	f.deducted++
	return true, nil
}

func (f *fakeProfiles) credits(uid string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profiles[uid].Credits
}

type fakeVideos struct {
	data    ytapi.AnalysisData
	err     error
	entered chan struct{}
	release chan struct{}
	calls   []string
	mu      sync.Mutex
}

func (f *fakeVideos) FetchAnalysisData(ctx context.Context, videoID string, maxComments int) (ytapi.AnalysisData, error) {
	f.mu.Lock()
	f.calls = append(f.calls, videoID)
	f.mu.Unlock()
	if f.entered != nil {
		close(f.entered)
	}
	if f.release != nil {
		<-f.release
	}
	return f.data, f.err
}

type fakeGenerator struct {
	report *models.AnalysisReport
	log    *summarizer.LLMRequestLog
	err    error
	calls  int
	got    []models.VideoComment
}

func (f *fakeGenerator) Generate(_ context.Context, title, desc string, comments []models.VideoComment) (*models.AnalysisReport, *summarizer.LLMRequestLog, error) {
	f.calls++
	f.got = comments
	return f.report, f.log, f.err
}

type savedReport struct {
	userID, videoID, title, url string
	data                        models.AnalysisReport
}

type fakeReports struct {
	saved   []savedReport
	err     error
	entered chan struct{}
	release chan struct{}
}

func (f *fakeReports) SaveReport(_ context.Context, userID, videoID, title, url string, data models.AnalysisReport) (string, error) {
	if f.entered != nil {
		close(f.entered)
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, savedReport{userID, videoID, title, url, data})
	return "665f1c2e9b1d4a0012345678", nil
}

type fakeGuard struct {
	busy     bool
	err      error
	released int
}

func (g *fakeGuard) Acquire(context.Context, string) (func(), bool, error) {
	if g.err != nil {
		return nil, false, g.err
	}
	if g.busy {
		return nil, false, nil
	}
	return func() { g.released++ }, true, nil
}

type recordingEvents struct {
	mu        sync.Mutex
	completed []events.AnalysisCompletedEvent
	failed    []events.AnalysisFailedEvent
	deducted  []events.CreditDeductedEvent
}

func (r *recordingEvents) PublishAnalysisCompleted(_ context.Context, e events.AnalysisCompletedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, e)
	return nil
}

func (r *recordingEvents) PublishAnalysisFailed(_ context.Context, e events.AnalysisFailedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, e)
	return nil
}

func (r *recordingEvents) PublishCreditDeducted(_ context.Context, e events.CreditDeductedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deducted = append(r.deducted, e)
	return errors.New("broker down")
}

type memCounters struct {
	mu sync.Mutex
	m  map[string]int64
}

func (c *memCounters) Inc(ctx context.Context, name string) { c.Add(ctx, name, 1) }
func (c *memCounters) Add(_ context.Context, name string, n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = map[string]int64{}
	}
	c.m[name] += n
}
func (c *memCounters) get(name string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m[name]
}

type memAILogs struct{ logs []models.AILog }

func (m *memAILogs) Insert(_ context.Context, l models.AILog) error {
	m.logs = append(m.logs, l)
	return nil
}

func likes(n int64) *int64 { return &n }

func sampleData() ytapi.AnalysisData {
	return ytapi.AnalysisData{
		Details: models.VideoDetails{
			ID: "ABCDEFGHIJK", Title: "How I edit", Description: "desc",
			ViewCount: 2000, LikeCount: 100, CommentCount: 40,
		},
		Comments: []models.VideoComment{
			{ID: "c1", AuthorDisplayName: "ann", TextDisplay: "great pacing", LikeCount: likes(4)},
			{ID: "c2", AuthorDisplayName: "", TextDisplay: "no author", LikeCount: likes(1)},
			{ID: "c3", AuthorDisplayName: "bob", TextDisplay: "audio too quiet", LikeCount: likes(0)},
		},
		CommentsStatus: ytapi.CommentsOK,
	}
}

type harness struct {
	profiles *fakeProfiles
	videos   *fakeVideos
	gen      *fakeGenerator
	reports  *fakeReports
	guard    *fakeGuard
	events   *recordingEvents
	counters *memCounters
	ailogs   *memAILogs
	now      time.Time
}

func newHarness(credits int) *harness {
	report := &models.AnalysisReport{}
	report.Normalize()
	return &harness{
		profiles: newFakeProfiles("u1", credits),
		videos:   &fakeVideos{data: sampleData()},
		gen: &fakeGenerator{report: report, log: &summarizer.LLMRequestLog{
			Prompt: "p", Response: "{}", LatencyMs: 120, ModelName: "gemini-2.0-flash",
			GeneratedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		}},
		reports:  &fakeReports{},
		guard:    &fakeGuard{},
		events:   &recordingEvents{},
		counters: &memCounters{},
		ailogs:   &memAILogs{},
		now:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (h *harness) pipeline() *Pipeline {
	return New(Deps{
		Profiles:  h.profiles,
		Videos:    h.videos,
		Generator: h.gen,
		Reports:   h.reports,
		Guard:     h.guard,
		Events:    h.events,
		Counters:  h.counters,
		AILogs:    h.ailogs,
	}, Options{Now: func() time.Time { return h.now }})
}

const validURL = "https://www.youtube.com/watch?v=ABCDEFGHIJK"

func TestRun_HappyPath(t *testing.T) {
	h := newHarness(2)
	snap := h.pipeline().Run(context.Background(), Request{UserID: "u1", URL: validURL})

	require.Equal(t, StatusCompleted, snap.Status, "failure: %+v", snap.Failure)
	assert.Equal(t, StepComplete, snap.Step)
	assert.Equal(t, 1, h.profiles.credits("u1"))
	assert.Equal(t, "ABCDEFGHIJK", snap.VideoID)
	assert.Equal(t, "665f1c2e9b1d4a0012345678", snap.ReportID)
	assert.Equal(t, "/reports/665f1c2e9b1d4a0012345678", snap.NavigateTo)
	require.NotNil(t, snap.NavigateAt)
	assert.Equal(t, h.now.Add(1500*time.Millisecond), *snap.NavigateAt)
	assert.Equal(t, 2, snap.CommentsAnalyzed)
	assert.Equal(t, 1, snap.CommentsDropped)
	assert.False(t, snap.Fallback)
	require.NotNil(t, snap.Engagement)
	assert.Equal(t, Engagement{ViewCount: 2000, LikeToViewRatio: 0.05, CommentToViewRatio: 0.02}, *snap.Engagement)

	require.Len(t, h.reports.saved, 1)
	assert.Equal(t, savedReport{"u1", "ABCDEFGHIJK", "How I edit", validURL, *h.gen.report}, h.reports.saved[0])
	assert.Len(t, h.gen.got, 2)

	steps := make([]Step, 0, len(snap.History))
	for _, rec := range snap.History {
		steps = append(steps, rec.Step)
	}
	assert.Equal(t, []Step{StepValidate, StepExtractID, StepDeductCredit, StepFetchData,
		StepValidateComments, StepGenerateReport, StepPersist, StepComplete}, steps)

	assert.Equal(t, 1, h.guard.released)
	assert.Len(t, h.events.completed, 1)
	assert.Len(t, h.events.deducted, 1, "publish errors must not fail the run")
	assert.Empty(t, h.events.failed)
	assert.Equal(t, int64(1), h.counters.get(metrics.AnalysesCompleted))
	assert.Equal(t, int64(1), h.counters.get(metrics.InvalidCommentsDropped))
	require.Len(t, h.ailogs.logs, 1)
	assert.Equal(t, "ABCDEFGHIJK", h.ailogs.logs[0].VideoID)
	assert.Equal(t, snap.RunID, h.ailogs.logs[0].RunID)
	assert.Equal(t, snap.CommentsAnalyzed, h.ailogs.logs[0].CommentCount)
}

func TestRun_ValidationFailuresSpendNothing(t *testing.T) {
	cases := []struct {
		name    string
		credits int
		url     string
		user    string
		step    Step
		kind    ErrorKind
		message string
	}{
		{"empty url", 2, "   ", "u1", StepValidate, KindValidation, MsgMissingURL},
		{"no profile", 2, validURL, "ghost", StepValidate, KindValidation, MsgProfileNotLoaded},
		{"no credits", 0, validURL, "u1", StepValidate, KindInsufficientCredits, MsgNotEnoughCredits},
		{"bad url", 2, "https://example.com/watch?v=short", "u1", StepExtractID, KindValidation, MsgInvalidURL},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(tc.credits)
			snap := h.pipeline().Run(context.Background(), Request{UserID: tc.user, URL: tc.url})

			require.Equal(t, StatusFailed, snap.Status)
			require.NotNil(t, snap.Failure)
			assert.Equal(t, tc.step, snap.Failure.Step)
			assert.Equal(t, tc.kind, snap.Failure.Kind)
			assert.Equal(t, tc.message, snap.Failure.Message)
			assert.Equal(t, tc.credits, h.profiles.credits("u1"))
			assert.Empty(t, h.videos.calls)
			assert.Empty(t, h.reports.saved)
			require.Len(t, h.events.failed, 1)
			assert.False(t, h.events.failed[0].CreditSpent)
		})
	}
}

func TestRun_DeductionRaceLost(t *testing.T) {
	h := newHarness(1)
	p := h.pipeline()
	orig := h.profiles
	// another device spends the last credit between the check and the deduction
	p.deps.Profiles = racingProfiles{orig}

	snap := p.Run(context.Background(), Request{UserID: "u1", URL: validURL})
	require.NotNil(t, snap.Failure)
	assert.Equal(t, StepDeductCredit, snap.Failure.Step)
	assert.Equal(t, MsgDeductFailed, snap.Failure.Message)
	assert.Equal(t, 0, orig.credits("u1"))
}

type racingProfiles struct{ *fakeProfiles }

func (r racingProfiles) DeductCredit(ctx context.Context, uid string) (bool, error) {
	_, _ = r.fakeProfiles.DeductCredit(ctx, uid)
	return r.fakeProfiles.DeductCredit(ctx, uid)
}

func TestRun_DeductionError(t *testing.T) {
	h := newHarness(2)
	h.profiles.deductErr = errors.New("connection reset")
	snap := h.pipeline().Run(context.Background(), Request{UserID: "u1", URL: validURL})

	require.NotNil(t, snap.Failure)
	assert.Equal(t, KindPersistence, snap.Failure.Kind)
	assert.Equal(t, "Error deducting credit: connection reset", snap.Failure.Message)
}

func TestRun_VideoNotFoundAfterDeduction(t *testing.T) {
	h := newHarness(2)
	h.videos.err = ytapi.ErrVideoNotFound
	snap := h.pipeline().Run(context.Background(), Request{UserID: "u1", URL: validURL})

	require.NotNil(t, snap.Failure)
	assert.Equal(t, StepFetchData, snap.Failure.Step)
	assert.Equal(t, KindNotFound, snap.Failure.Kind)
	assert.Equal(t, "Error fetching video data: video not found", snap.Failure.Message)
	assert.Equal(t, 1, h.profiles.credits("u1"), "no refund after deduction")
	require.Len(t, h.events.failed, 1)
	assert.True(t, h.events.failed[0].CreditSpent)
}

func TestRun_TransportError(t *testing.T) {
	h := newHarness(2)
	h.videos.err = errors.New("dial tcp: timeout")
	snap := h.pipeline().Run(context.Background(), Request{UserID: "u1", URL: validURL})

	require.NotNil(t, snap.Failure)
	assert.Equal(t, KindTransport, snap.Failure.Kind)
	assert.Equal(t, "Error fetching video data: dial tcp: timeout", snap.Failure.Message)
}

func TestRun_EmptyComments(t *testing.T) {
	for status, want := range map[ytapi.CommentsStatus]string{
		ytapi.CommentsDisabled:    MsgCommentsDisabled,
		ytapi.CommentsUnavailable: MsgCommentsUnavailable,
		ytapi.CommentsOK:          MsgCommentsDisabled,
	} {
		h := newHarness(2)
		h.videos.data.Comments = nil
		h.videos.data.CommentsStatus = status
		snap := h.pipeline().Run(context.Background(), Request{UserID: "u1", URL: validURL})

		require.NotNil(t, snap.Failure, status)
		assert.Equal(t, StepValidateComments, snap.Failure.Step)
		assert.Equal(t, want, snap.Failure.Message, status)
		assert.Zero(t, h.gen.calls)
	}
}

func TestRun_NoValidComments(t *testing.T) {
	h := newHarness(2)
	h.videos.data.Comments = []models.VideoComment{
		{ID: "c1", TextDisplay: "orphan"},
		{ID: "c2", AuthorDisplayName: "ann"},
	}
	snap := h.pipeline().Run(context.Background(), Request{UserID: "u1", URL: validURL})

	require.NotNil(t, snap.Failure)
	assert.Equal(t, MsgNoValidComments, snap.Failure.Message)
	assert.Equal(t, 2, snap.CommentsDropped)
	assert.Zero(t, h.gen.calls)
	assert.Equal(t, 1, h.profiles.credits("u1"))
}

func TestRun_GenerationFailure(t *testing.T) {
	h := newHarness(2)
	h.gen.report = nil
	h.gen.err = &summarizer.GenerationError{Status: 500}
	snap := h.pipeline().Run(context.Background(), Request{UserID: "u1", URL: validURL})

	require.NotNil(t, snap.Failure)
	assert.Equal(t, KindGenerationFailed, snap.Failure.Kind)
	assert.Equal(t, "Error analyzing comments: API call failed with status: 500", snap.Failure.Message)
	assert.Empty(t, h.reports.saved)
	assert.Len(t, h.ailogs.logs, 1, "failed model calls are still logged")
}

func TestRun_FallbackReport(t *testing.T) {
	h := newHarness(2)
	h.gen.log = nil
	snap := h.pipeline().Run(context.Background(), Request{UserID: "u1", URL: validURL})

	require.Equal(t, StatusCompleted, snap.Status)
	assert.True(t, snap.Fallback)
	assert.Empty(t, h.ailogs.logs)
	assert.Equal(t, int64(1), h.counters.get(metrics.FallbackReports))
}

func TestRun_SaveError(t *testing.T) {
	h := newHarness(2)
	h.reports.err = errors.New("write concern timeout")
	snap := h.pipeline().Run(context.Background(), Request{UserID: "u1", URL: validURL})

	require.NotNil(t, snap.Failure)
	assert.Equal(t, StepPersist, snap.Failure.Step)
	assert.Equal(t, "Error saving report: write concern timeout", snap.Failure.Message)
	assert.Empty(t, snap.ReportID)
}

func TestRun_GuardBusy(t *testing.T) {
	h := newHarness(2)
	h.guard.busy = true
	snap := h.pipeline().Run(context.Background(), Request{UserID: "u1", URL: validURL})

	require.NotNil(t, snap.Failure)
	assert.Equal(t, KindRunInProgress, snap.Failure.Kind)
	assert.Equal(t, MsgRunInProgress, snap.Failure.Message)
	assert.Equal(t, 2, h.profiles.credits("u1"))
}

func TestRun_GuardErrorIsIgnored(t *testing.T) {
	h := newHarness(2)
	h.guard.err = errors.New("redis: connection refused")
	snap := h.pipeline().Run(context.Background(), Request{UserID: "u1", URL: validURL})
	assert.Equal(t, StatusCompleted, snap.Status)
}

func TestRun_OptionalDepsMayBeNil(t *testing.T) {
	h := newHarness(2)
	p := New(Deps{Profiles: h.profiles, Videos: h.videos, Generator: h.gen, Reports: h.reports}, Options{})
	snap := p.Run(context.Background(), Request{UserID: "u1", URL: validURL})
	assert.Equal(t, StatusCompleted, snap.Status)
}

func TestStart_CancelDuringFetch(t *testing.T) {
	h := newHarness(2)
	h.videos.entered = make(chan struct{})
	h.videos.release = make(chan struct{})
	p := h.pipeline()

	run := p.Start(context.Background(), Request{UserID: "u1", URL: validURL})
	<-h.videos.entered

	_, err := p.Cancel(run.ID, "intruder")
	assert.ErrorIs(t, err, ErrRunNotFound)

	snap, err := p.Cancel(run.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, snap.Status)

	close(h.videos.release)
	p.Wait()

	final, err := p.Get(run.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, final.Status)
	assert.Equal(t, StepFetchData, final.Step)
	assert.Nil(t, final.Failure)
	assert.Zero(t, h.gen.calls)
	assert.Empty(t, h.reports.saved)
	assert.Equal(t, 1, h.profiles.credits("u1"), "cancellation does not refund")
	assert.Equal(t, 1, h.guard.released)
	assert.Empty(t, h.events.completed)
	assert.Empty(t, h.events.failed)

	_, err = p.Cancel(run.ID, "u1")
	assert.ErrorIs(t, err, ErrRunFinished)
}

func TestStart_CancelWhileSaving(t *testing.T) {
	h := newHarness(2)
	h.reports.entered = make(chan struct{})
	h.reports.release = make(chan struct{})
	p := h.pipeline()

	run := p.Start(context.Background(), Request{UserID: "u1", URL: validURL})
	<-h.reports.entered

	_, err := p.Cancel(run.ID, "u1")
	require.NoError(t, err)

	close(h.reports.release)
	p.Wait()

	final, err := p.Get(run.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, final.Status)
	assert.Equal(t, StepPersist, final.Step)
	assert.Len(t, h.reports.saved, 1, "the stored report is kept")
	assert.Empty(t, final.ReportID)
	assert.Empty(t, final.NavigateTo)
	assert.Nil(t, final.NavigateAt)
	assert.Empty(t, h.events.completed)
	assert.Zero(t, h.counters.get(metrics.AnalysesCompleted))
}

func TestRunComplete_RefusedAfterCancel(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	r := newRun("r1", "u1", validURL, now)
	require.True(t, r.cancel(now))

	assert.False(t, r.complete("665f1c2e9b1d4a0012345678", now.Add(time.Second), now))
	snap := r.Snapshot()
	assert.Equal(t, StatusCancelled, snap.Status)
	assert.Empty(t, snap.ReportID)
	assert.Empty(t, snap.NavigateTo)

	done := newRun("r2", "u1", validURL, now)
	require.True(t, done.complete("665f1c2e9b1d4a0012345678", now.Add(time.Second), now))
	assert.False(t, done.cancel(now), "a completed run cannot be cancelled")
	assert.Equal(t, StatusCompleted, done.Snapshot().Status)
}

func TestStart_CompletesInBackground(t *testing.T) {
	h := newHarness(2)
	p := h.pipeline()
	run := p.Start(context.Background(), Request{UserID: "u1", URL: validURL})

	select {
	case <-run.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not finish")
	}
	snap, err := p.Get(run.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, snap.Status)
}

func TestRegister_EvictsOldRuns(t *testing.T) {
	h := newHarness(5)
	p := h.pipeline()
	first := p.Run(context.Background(), Request{UserID: "u1", URL: validURL})

	h.now = h.now.Add(time.Hour)
	p.Run(context.Background(), Request{UserID: "u1", URL: validURL})

	_, err := p.Get(first.RunID, "u1")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestStepNames(t *testing.T) {
	assert.Equal(t, "validate", StepValidate.String())
	assert.Equal(t, "complete", StepComplete.String())
	assert.Equal(t, "step(42)", Step(42).String())
	b, _ := StepFetchData.MarshalText()
	assert.Equal(t, "fetch_data", string(b))
}
