package fortune

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/smile-fortune/internal/enrichment"
	"github.com/jonathan/smile-fortune/internal/narration"
)

// Kind classifies a failed request for the HTTP layer and metrics.
type Kind string

// Error kinds.
const (
	KindNone       Kind = ""
	KindValidation Kind = "validation"
	KindUpstream   Kind = "upstream"
	KindNarration  Kind = "narration"
	KindUnexpected Kind = "unexpected"
)

// User-facing messages per kind.
const (
	MessageMissingScore = "表情スコアが提供されていません。"
	MessageInvalidInput = "リクエストの形式が正しくありません。"
	MessageUpstream     = "ポケモン情報の取得に失敗しました"
	MessageNarration    = "占い文章の生成に失敗しました"
	MessageUnexpected   = "予期せぬエラーが発生しました。"
)

// ValidationError reports a malformed request. No external call has been made.
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid request: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// newValidationError converts validator output into a ValidationError naming
// the first offending field.
func newValidationError(err error) *ValidationError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := MessageInvalidInput
		if fe.Field() == "SmileScore" && fe.Tag() == "required" {
			msg = MessageMissingScore
		}
		return &ValidationError{Field: fe.Field(), Message: msg, Cause: err}
	}
	return &ValidationError{Message: MessageInvalidInput, Cause: err}
}

// Classify maps an error to its Kind. nil maps to KindNone.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}

	var validationErr *ValidationError
	var upstreamErr *enrichment.UpstreamFetchError
	var generationErr *narration.GenerationError

	switch {
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &upstreamErr):
		return KindUpstream
	case errors.As(err, &generationErr):
		return KindNarration
	default:
		return KindUnexpected
	}
}

// UserMessage returns the message shown to the caller for err.
func UserMessage(err error) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	switch Classify(err) {
	case KindUpstream:
		return MessageUpstream
	case KindNarration:
		return MessageNarration
	default:
		return MessageUnexpected
	}
}
