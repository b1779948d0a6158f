package chatjpt

import (
	"encoding/json"
	"fmt"

	"github.com/petal-labs/chatjpt/core"
)

// Fine-tuning job statuses.
const (
	JobStatusValidatingFiles = "validating_files"
	JobStatusQueued          = "queued"
	JobStatusRunning         = "running"
	JobStatusSucceeded       = "succeeded"
	JobStatusFailed          = "failed"
	JobStatusCancelled       = "cancelled"
)

// FineTuningJobRequest is the body of POST /fine_tuning/jobs.
type FineTuningJobRequest struct {
	TrainingFile    string           `json:"training_file" validate:"required"`
	Model           string           `json:"model" validate:"required"`
	Hyperparameters *Hyperparameters `json:"hyperparameters,omitempty"`
	Suffix          string           `json:"suffix,omitempty" validate:"omitempty,max=40"`
	ValidationFile  string           `json:"validation_file,omitempty"`
}

// NewFineTuningJobRequest validates r and returns a copy.
func NewFineTuningJobRequest(r FineTuningJobRequest) (*FineTuningJobRequest, error) {
	if err := core.Validate(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Hyperparameters of a fine-tuning job.
type Hyperparameters struct {
	NEpochs                *AutoOrNumber `json:"n_epochs,omitempty"`
	BatchSize              *AutoOrNumber `json:"batch_size,omitempty"`
	LearningRateMultiplier *AutoOrNumber `json:"learning_rate_multiplier,omitempty"`
}

// AutoOrNumber is either the string "auto" or a number.
type AutoOrNumber struct {
	Auto  bool
	Value float64
}

// Auto returns the "auto" setting.
func Auto() *AutoOrNumber {
	return &AutoOrNumber{Auto: true}
}

// Number returns a fixed numeric setting.
func Number(v float64) *AutoOrNumber {
	return &AutoOrNumber{Value: v}
}

// MarshalJSON implements json.Marshaler.
func (a AutoOrNumber) MarshalJSON() ([]byte, error) {
	if a.Auto {
		return []byte(`"auto"`), nil
	}
	return json.Marshal(a.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *AutoOrNumber) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "auto" {
			return fmt.Errorf("unexpected hyperparameter value %q", s)
		}
		*a = AutoOrNumber{Auto: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = AutoOrNumber{Value: v}
	return nil
}

// FineTuningJob is a fine-tuning job.
type FineTuningJob struct {
	ID              string              `json:"id"`
	Object          string              `json:"object"`
	CreatedAt       int64               `json:"created_at"`
	FinishedAt      *int64              `json:"finished_at"`
	Model           string              `json:"model"`
	FineTunedModel  string              `json:"fine_tuned_model"`
	OrganizationID  string              `json:"organization_id"`
	Status          string              `json:"status"`
	Hyperparameters Hyperparameters     `json:"hyperparameters"`
	TrainingFile    string              `json:"training_file"`
	ValidationFile  string              `json:"validation_file"`
	ResultFiles     []string            `json:"result_files"`
	TrainedTokens   *int                `json:"trained_tokens"`
	Error           *FineTuningJobError `json:"error"`
}

// FineTuningJobError explains why a job failed.
type FineTuningJobError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Param   string `json:"param"`
}

// FineTuningJobPage is one page of GET /fine_tuning/jobs.
type FineTuningJobPage struct {
	Object  string          `json:"object"`
	Data    []FineTuningJob `json:"data"`
	HasMore bool            `json:"has_more"`
}

// NextCursor returns the After value for the next page, or "" when there
// is none.
func (p *FineTuningJobPage) NextCursor() string {
	if !p.HasMore || len(p.Data) == 0 {
		return ""
	}
	return p.Data[len(p.Data)-1].ID
}

// FineTuningEvent is one status event of a job.
type FineTuningEvent struct {
	ID        string          `json:"id"`
	Object    string          `json:"object"`
	CreatedAt int64           `json:"created_at"`
	Level     string          `json:"level"`
	Message   string          `json:"message"`
	Type      string          `json:"type,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// FineTuningEventPage is one page of GET /fine_tuning/jobs/{id}/events.
type FineTuningEventPage struct {
	Object  string            `json:"object"`
	Data    []FineTuningEvent `json:"data"`
	HasMore bool              `json:"has_more"`
}

// NextCursor returns the After value for the next page, or "" when there
// is none.
func (p *FineTuningEventPage) NextCursor() string {
	if !p.HasMore || len(p.Data) == 0 {
		return ""
	}
	return p.Data[len(p.Data)-1].ID
}
