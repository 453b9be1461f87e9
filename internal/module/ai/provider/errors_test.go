package provider

import (
	"errors"
	"fmt"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil error", nil, ""},
		{"rate limit underscore", errors.New("Error: rate_limit_exceeded"), KindRateLimited},
		{"rate limit spaced", errors.New("You hit the Rate Limit"), KindRateLimited},
		{"quota", errors.New("insufficient_quota: billing issue"), KindQuotaExhausted},
		{"authentication", errors.New("Authentication failed for key"), KindAuthFailed},
		{"invalid key", errors.New("Invalid API Key provided"), KindAuthFailed},
		{"anything else", errors.New("connection reset by peer"), KindTransient},
		{"breaker open", gobreaker.ErrOpenState, KindUnavailable},
		{"breaker half open", gobreaker.ErrTooManyRequests, KindUnavailable},
		{"api 401", &openai.APIError{HTTPStatusCode: 401}, KindAuthFailed},
		{"api 403", &openai.APIError{HTTPStatusCode: 403}, KindAuthFailed},
		{"api 429", &openai.APIError{HTTPStatusCode: 429}, KindRateLimited},
		{"api 429 quota", &openai.APIError{HTTPStatusCode: 429, Code: "insufficient_quota"}, KindQuotaExhausted},
		{"api 500", &openai.APIError{HTTPStatusCode: 500, Message: "server error"}, KindTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if tt.err == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestClassify_PassesThroughClassified(t *testing.T) {
	original := NewError(KindRateLimited, errors.New("raw"))

	got := Classify(fmt.Errorf("wrapped: %w", original))
	assert.Same(t, original, got)
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewError(KindTransient, cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "AI 서비스 일시 오류입니다. 다시 시도해주세요.", err.Error())
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{APIKey: "sk-test"}
	cfg.applyDefaults()

	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 1000, cfg.MaxTokens)
	assert.InDelta(t, 0.7, cfg.Temperature, 0.001)
	assert.NotZero(t, cfg.Timeout)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{}, nil)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}
