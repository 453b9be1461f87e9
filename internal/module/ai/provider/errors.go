package provider

import (
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker/v2"
)

// Kind classifies a provider failure into a closed taxonomy. Callers
// branch on Kind, never on raw provider error text.
type Kind string

const (
	KindUnavailable    Kind = "unavailable"
	KindRateLimited    Kind = "rate_limited"
	KindAuthFailed     Kind = "auth_failed"
	KindQuotaExhausted Kind = "quota_exhausted"
	KindTransient      Kind = "transient"
)

// User-facing messages per failure kind.
var kindMessages = map[Kind]string{
	KindUnavailable:    "AI 서비스를 사용할 수 없습니다. 관리자에게 문의하세요.",
	KindRateLimited:    "API 사용량 한도를 초과했습니다. 잠시 후 다시 시도해주세요.",
	KindAuthFailed:     "API 인증에 실패했습니다.",
	KindQuotaExhausted: "API 크레딧이 부족합니다.",
	KindTransient:      "AI 서비스 일시 오류입니다. 다시 시도해주세요.",
}

// Error is a classified provider failure.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError creates a classified error with the standard message for the kind.
func NewError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Message: kindMessages[kind], cause: cause}
}

// ErrUnavailable is returned for every call attempted while no provider
// client exists.
var ErrUnavailable = NewError(KindUnavailable, nil)

// substringKinds maps raw error text fragments to failure kinds. The
// table is a heuristic over provider error strings and is kept separate
// from Classify so it stays independently testable.
var substringKinds = []struct {
	fragment string
	kind     Kind
}{
	{"rate_limit", KindRateLimited},
	{"rate limit", KindRateLimited},
	{"insufficient_quota", KindQuotaExhausted},
	{"authentication", KindAuthFailed},
	{"invalid api key", KindAuthFailed},
	{"incorrect api key", KindAuthFailed},
}

// Classify maps a raw provider error to a classified *Error. Already
// classified errors pass through unchanged.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return NewError(KindUnavailable, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401, 403:
			return NewError(KindAuthFailed, err)
		case 429:
			if code, ok := apiErr.Code.(string); ok && code == "insufficient_quota" {
				return NewError(KindQuotaExhausted, err)
			}
			return NewError(KindRateLimited, err)
		}
	}

	msg := strings.ToLower(err.Error())
	for _, entry := range substringKinds {
		if strings.Contains(msg, entry.fragment) {
			return NewError(entry.kind, err)
		}
	}

	return NewError(KindTransient, err)
}
