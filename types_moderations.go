package chatjpt

import (
	"encoding/json"

	"github.com/petal-labs/chatjpt/core"
)

// ModerationInput is one or more texts to classify. A single text is sent
// as a plain string.
type ModerationInput []string

// MarshalJSON implements json.Marshaler.
func (in ModerationInput) MarshalJSON() ([]byte, error) {
	if len(in) == 1 {
		return json.Marshal(in[0])
	}
	return json.Marshal([]string(in))
}

// UnmarshalJSON implements json.Unmarshaler.
func (in *ModerationInput) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*in = ModerationInput{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*in = list
	return nil
}

// ModerationRequest is the body of POST /moderations.
type ModerationRequest struct {
	Input ModerationInput `json:"input" validate:"required"`
	Model string          `json:"model,omitempty"`
}

// NewModerationRequest validates r and returns a copy.
func NewModerationRequest(r ModerationRequest) (*ModerationRequest, error) {
	if err := core.Validate(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Moderation is the response of POST /moderations.
type Moderation struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Results []ModerationResult `json:"results"`
}

// ModerationResult classifies one input.
type ModerationResult struct {
	Flagged        bool               `json:"flagged"`
	Categories     map[string]bool    `json:"categories"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

// Flagged reports whether any input was flagged.
func (m *Moderation) Flagged() bool {
	for _, r := range m.Results {
		if r.Flagged {
			return true
		}
	}
	return false
}
