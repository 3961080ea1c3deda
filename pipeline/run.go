package pipeline

import (
	"sync"
	"sync/atomic"
	"time"
)

// Run is one analysis attempt. All state is guarded by mu; readers take a Snapshot.
type Run struct {
	ID     string
	UserID string
	URL    string

	mu         sync.Mutex
	step       Step
	status     Status
	failure    *Failure
	videoID    string
	videoTitle string
	engagement *Engagement
	reportID   string
	navigateAt time.Time
	fallback   bool
	analyzed   int
	dropped    int
	history    []StepRecord
	startedAt  time.Time
	finishedAt time.Time

	cancelled atomic.Bool
	done      chan struct{}
}

// Engagement is derived from the video statistics fetched for the run.
type Engagement struct {
	ViewCount          int64   `json:"view_count"`
	LikeToViewRatio    float64 `json:"like_to_view_ratio"`
	CommentToViewRatio float64 `json:"comment_to_view_ratio"`
}

// Snapshot is a consistent copy of a run's state.
type Snapshot struct {
	RunID            string       `json:"run_id"`
	UserID           string       `json:"user_id"`
	URL              string       `json:"url"`
	VideoID          string       `json:"video_id,omitempty"`
	VideoTitle       string       `json:"video_title,omitempty"`
	Engagement       *Engagement  `json:"engagement,omitempty"`
	Step             Step         `json:"step"`
	StepIndex        int          `json:"step_index"`
	Status           Status       `json:"status"`
	Failure          *Failure     `json:"error,omitempty"`
	ReportID         string       `json:"report_id,omitempty"`
	NavigateTo       string       `json:"navigate_to,omitempty"`
	NavigateAt       *time.Time   `json:"navigate_at,omitempty"`
	Fallback         bool         `json:"fallback"`
	CommentsAnalyzed int          `json:"comments_analyzed"`
	CommentsDropped  int          `json:"comments_dropped"`
	History          []StepRecord `json:"history"`
	StartedAt        time.Time    `json:"started_at"`
	FinishedAt       *time.Time   `json:"finished_at,omitempty"`
}

func newRun(id, userID, url string, now time.Time) *Run {
	return &Run{
		ID:        id,
		UserID:    userID,
		URL:       url,
		step:      StepValidate,
		status:    StatusRunning,
		history:   []StepRecord{{Step: StepValidate, At: now}},
		startedAt: now,
		done:      make(chan struct{}),
	}
}

// Done is closed once the run reaches a terminal status.
func (r *Run) Done() <-chan struct{} { return r.done }

// cancel moves the run to Cancelled at once. The in-flight step is left to finish
// and its result is discarded; nothing already done is rolled back.
func (r *Run) cancel(now time.Time) bool {
	r.mu.Lock()
	if r.status.Terminal() {
		r.mu.Unlock()
		return false
	}
	r.cancelled.Store(true)
	r.status = StatusCancelled
	r.finishedAt = now
	r.mu.Unlock()
	close(r.done)
	return true
}

func (r *Run) isCancelled() bool { return r.cancelled.Load() }

func (r *Run) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Snapshot{
		RunID:            r.ID,
		UserID:           r.UserID,
		URL:              r.URL,
		VideoID:          r.videoID,
		VideoTitle:       r.videoTitle,
		Step:             r.step,
		StepIndex:        int(r.step),
		Status:           r.status,
		ReportID:         r.reportID,
		Fallback:         r.fallback,
		CommentsAnalyzed: r.analyzed,
		CommentsDropped:  r.dropped,
		History:          append([]StepRecord(nil), r.history...),
		StartedAt:        r.startedAt,
	}
	if r.engagement != nil {
		e := *r.engagement
		s.Engagement = &e
	}
	if r.failure != nil {
		f := *r.failure
		s.Failure = &f
	}
	if r.reportID != "" {
		s.NavigateTo = ReportPath(r.reportID)
		at := r.navigateAt
		s.NavigateAt = &at
	}
	if !r.finishedAt.IsZero() {
		at := r.finishedAt
		s.FinishedAt = &at
	}
	return s
}

// ReportPath is where the client navigates once a report is stored.
func ReportPath(reportID string) string { return "/reports/" + reportID }

func (r *Run) advance(step Step, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.step = step
	r.history = append(r.history, StepRecord{Step: step, At: now})
}

// complete links the stored report and finishes the run as Completed in one
// step. It reports false when the run was cancelled first; the report then
// stays unlinked.
func (r *Run) complete(reportID string, navigateAt, now time.Time) bool {
	r.mu.Lock()
	if r.status.Terminal() {
		r.mu.Unlock()
		return false
	}
	r.reportID = reportID
	r.navigateAt = navigateAt
	r.step = StepComplete
	r.history = append(r.history, StepRecord{Step: StepComplete, At: now})
	r.status = StatusCompleted
	r.finishedAt = now
	r.mu.Unlock()
	close(r.done)
	return true
}

func (r *Run) update(fn func(r *Run)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r)
}

func (r *Run) finish(status Status, f *Failure, now time.Time) bool {
	r.mu.Lock()
	if r.status.Terminal() {
		r.mu.Unlock()
		return false
	}
	r.status = status
	r.failure = f
	r.finishedAt = now
	r.mu.Unlock()
	close(r.done)
	return true
}

func (r *Run) finishedBefore(t time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status.Terminal() && r.finishedAt.Before(t)
}
