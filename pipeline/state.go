package pipeline

import (
	"fmt"
	"time"
)

// Step is a position in the analysis state machine. Steps run strictly in order.
type Step int

const (
	StepValidate Step = iota
	StepExtractID
	StepDeductCredit
	StepFetchData
	StepValidateComments
	StepGenerateReport
	StepPersist
	StepComplete
)

var stepNames = [...]string{
	StepValidate:         "validate",
	StepExtractID:        "extract_id",
	StepDeductCredit:     "deduct_credit",
	StepFetchData:        "fetch_data",
	StepValidateComments: "validate_comments",
	StepGenerateReport:   "generate_report",
	StepPersist:          "persist",
	StepComplete:         "complete",
}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

func (s Step) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Status is the lifecycle state of a run. Failed and Cancelled are terminal like Completed.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Terminal() bool { return s != StatusRunning }

// ErrorKind classifies why a run failed.
type ErrorKind string

const (
	KindValidation          ErrorKind = "validation"
	KindInsufficientCredits ErrorKind = "insufficient_credits"
	KindRunInProgress       ErrorKind = "run_in_progress"
	KindNotFound            ErrorKind = "not_found"
	KindTransport           ErrorKind = "transport"
	KindGenerationFailed    ErrorKind = "generation_failed"
	KindPersistence         ErrorKind = "persistence"
)

// Failure is the terminal error of a run: where it stopped, why, and the message shown to the user.
type Failure struct {
	Step    Step      `json:"step"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (f *Failure) Error() string { return f.Message }
func (f *Failure) Unwrap() error { return f.Err }

func fail(step Step, kind ErrorKind, err error, format string, args ...any) *Failure {
	return &Failure{Step: step, Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// StepRecord is one entry of a run's history.
type StepRecord struct {
	Step Step      `json:"step"`
	At   time.Time `json:"at"`
}

// User-facing messages.
const (
	MsgMissingURL          = "Please provide a YouTube video URL"
	MsgProfileNotLoaded    = "User profile not loaded"
	MsgNotEnoughCredits    = "Not enough credits to perform analysis"
	MsgRunInProgress       = "Another analysis is already running for this account"
	MsgInvalidURL          = "Invalid YouTube URL"
	MsgDeductFailed        = "Failed to deduct credit"
	MsgDeductError         = "Error deducting credit: %s"
	MsgFetchError          = "Error fetching video data: %s"
	MsgCommentsDisabled    = "No comments found for this video. The video may have comments disabled."
	MsgCommentsUnavailable = "No comments found for this video. Comments could not be retrieved, please try again later."
	MsgNoValidComments     = "No valid comment data found. Comment data may be malformed."
	MsgAnalyzeError        = "Error analyzing comments: %s"
	MsgSaveError           = "Error saving report: %s"
)
