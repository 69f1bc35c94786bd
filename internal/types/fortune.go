package types

import "github.com/go-playground/validator/v10"

// DefaultExpression is used when the caller omits userExpression.
const DefaultExpression = "neutral"

// FortuneRequest is the inbound body of POST /api/getPokemon.
// SmileScore is a pointer so an omitted field is distinguishable from 0.
type FortuneRequest struct {
	SmileScore     *float64 `json:"smileScore" validate:"required"`
	UserExpression string   `json:"userExpression,omitempty"`
}

// Validate validates the FortuneRequest using the validator.
func (r *FortuneRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Expression returns the user expression label, defaulting to "neutral".
func (r *FortuneRequest) Expression() string {
	if r.UserExpression == "" {
		return DefaultExpression
	}
	return r.UserExpression
}

// FortuneResult is the assembled outcome of one request. It is not persisted.
type FortuneResult struct {
	Entity          EntityAttributes
	SmileScore      float64
	BandKey         string
	BandDescription string
	Narrative       string
}

// Analysis echoes the classification back to the caller.
type Analysis struct {
	SmileScore float64 `json:"smileScore"`
	Emotion    string  `json:"emotion"`
	Band       string  `json:"band,omitempty"`
}

// FortuneResponse is the success payload.
type FortuneResponse struct {
	Status   string           `json:"status"`
	Pokemon  EntityAttributes `json:"pokemon"`
	Analysis Analysis         `json:"analysis"`
	Fortune  string           `json:"fortune"`
}

// ErrorResponse is the failure payload. Details is only populated in development.
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Response status values.
const (
	StatusComplete = "complete"
	StatusError    = "error"
)

// NewFortuneResponse converts a result into the wire payload.
func NewFortuneResponse(r *FortuneResult) FortuneResponse {
	return FortuneResponse{
		Status:  StatusComplete,
		Pokemon: r.Entity,
		Analysis: Analysis{
			SmileScore: r.SmileScore,
			Emotion:    r.BandDescription,
			Band:       r.BandKey,
		},
		Fortune: r.Narrative,
	}
}
