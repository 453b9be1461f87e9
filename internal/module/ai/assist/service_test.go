package assist

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/smartblog/server/internal/module/ai/provider"
	"github.com/smartblog/server/internal/module/ai/usage"
	"github.com/smartblog/server/internal/shared/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockClient implements provider.Client for testing.
type MockClient struct {
	response string
	err      error
	calls    int
}

func (m *MockClient) Invoke(_ context.Context, messages []provider.Message, _ *provider.Options) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// MockRecorder implements UsageRecorder for testing.
type MockRecorder struct {
	events []usage.Kind
	tokens []int
	err    error
}

func (m *MockRecorder) Record(_ context.Context, _ uuid.UUID, kind usage.Kind, approxTokens int) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, kind)
	m.tokens = append(m.tokens, approxTokens)
	return nil
}

func newLiveService(client *MockClient, recorder *MockRecorder) *Service {
	return NewServiceWithClient(client, recorder, nil, logger.New(nil))
}

func newDegradedService(recorder *MockRecorder) *Service {
	return NewService(provider.Config{}, recorder, nil, logger.New(nil))
}

func TestNewService_ModeDecision(t *testing.T) {
	recorder := &MockRecorder{}

	degraded := NewService(provider.Config{}, recorder, nil, logger.New(nil))
	assert.Equal(t, ModeDegraded, degraded.Mode())

	live := NewService(provider.Config{APIKey: "sk-test"}, recorder, nil, logger.New(nil))
	assert.Equal(t, ModeLive, live.Mode())
}

func TestService_SuggestTitles(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("live result is cleaned and recorded once", func(t *testing.T) {
		client := &MockClient{response: "개발자의 첫 블로그 운영기\n1. 번호 제목\n꾸준히 쓰는 사람이 이기는 이유"}
		recorder := &MockRecorder{}
		svc := newLiveService(client, recorder)

		// 25 runes of Korean content clears the handler minimum of 20.
		content := strings.Repeat("오늘은날씨가좋아서글을씁니다", 2)[:75]
		titles, err := svc.SuggestTitles(ctx, userID, content, 4)
		require.NoError(t, err)
		require.Len(t, titles, 2)
		for _, title := range titles {
			assert.False(t, startsWithDigit(title))
			assert.NotEmpty(t, title)
		}

		require.Equal(t, []usage.Kind{usage.KindTitleSuggest}, recorder.events)
		assert.Equal(t, utf8.RuneCountInString(content)/4, recorder.tokens[0])
		assert.Equal(t, 1, client.calls)
	})

	t.Run("provider failure serves fallback and still records", func(t *testing.T) {
		client := &MockClient{err: provider.NewError(provider.KindRateLimited, errors.New("429"))}
		recorder := &MockRecorder{}
		svc := newLiveService(client, recorder)

		titles, err := svc.SuggestTitles(ctx, userID, "충분히 긴 글 내용입니다. 제목을 추천해주세요.", 4)
		require.NoError(t, err)
		assert.Len(t, titles, 2)
		assert.Len(t, recorder.events, 1)
	})

	t.Run("recorder failure withholds the result", func(t *testing.T) {
		client := &MockClient{response: "잘 만들어진 제목 후보입니다"}
		recorder := &MockRecorder{err: errors.New("db down")}
		svc := newLiveService(client, recorder)

		_, err := svc.SuggestTitles(ctx, userID, "내용", 4)
		assert.Error(t, err)
	})
}

func TestService_CompleteContent(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	client := &MockClient{response: "  이어지는 내용입니다.  "}
	recorder := &MockRecorder{}
	svc := newLiveService(client, recorder)

	completion, err := svc.CompleteContent(ctx, userID, "글의 시작 부분입니다.", "professional")
	require.NoError(t, err)
	assert.Equal(t, "이어지는 내용입니다.", completion)

	// Tokens approximate input plus output.
	expected := utf8.RuneCountInString("글의 시작 부분입니다."+completion) / 4
	assert.Equal(t, expected, recorder.tokens[0])
	assert.Equal(t, []usage.Kind{usage.KindAutocomplete}, recorder.events)
}

func TestService_SuggestTags(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	client := &MockClient{response: "#개발\n블로그운영\n1등태그"}
	recorder := &MockRecorder{}
	svc := newLiveService(client, recorder)

	tags, err := svc.SuggestTags(ctx, userID, "제목", "내용", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"개발", "블로그운영"}, tags)
	assert.Equal(t, []usage.Kind{usage.KindTagSuggest}, recorder.events)
}

func TestService_Summarize(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("over-length response is truncated to the limit", func(t *testing.T) {
		client := &MockClient{response: strings.Repeat("요", 210)}
		recorder := &MockRecorder{}
		svc := newLiveService(client, recorder)

		summary, err := svc.Summarize(ctx, userID, strings.Repeat("글", 250), 200)
		require.NoError(t, err)
		assert.Equal(t, 200, utf8.RuneCountInString(summary))
		assert.True(t, strings.HasSuffix(summary, "..."))
		assert.Len(t, recorder.events, 1)
	})

	t.Run("zero limit uses the default", func(t *testing.T) {
		client := &MockClient{response: "짧은 요약"}
		svc := newLiveService(client, &MockRecorder{})

		summary, err := svc.Summarize(ctx, userID, "내용", 0)
		require.NoError(t, err)
		assert.Equal(t, "짧은 요약", summary)
	})

	t.Run("limit below the floor uses the default", func(t *testing.T) {
		// A limit of 1 or 2 cannot hold the ellipsis truncation and
		// must not slice with a negative bound.
		client := &MockClient{response: strings.Repeat("요", 210)}
		svc := newLiveService(client, &MockRecorder{})

		for _, limit := range []int{1, 2, minSummaryLimit - 1} {
			summary, err := svc.Summarize(ctx, userID, strings.Repeat("글", 250), limit)
			require.NoError(t, err)
			assert.Equal(t, defaultSummaryLimit, utf8.RuneCountInString(summary))
			assert.True(t, strings.HasSuffix(summary, "..."))
		}
	})
}

func TestService_DegradedMode(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	recorder := &MockRecorder{}
	svc := newDegradedService(recorder)

	titles, err := svc.SuggestTitles(ctx, userID, "내용입니다", 4)
	require.NoError(t, err)
	assert.NotEmpty(t, titles)

	completion, err := svc.CompleteContent(ctx, userID, "내용입니다", "friendly")
	require.NoError(t, err)
	assert.Equal(t, completionFallback, completion)

	tags, err := svc.SuggestTags(ctx, userID, "제목", "내용", 5)
	require.NoError(t, err)
	assert.Equal(t, tagsFallbackSet, tags)

	summary, err := svc.Summarize(ctx, userID, "내용입니다", 200)
	require.NoError(t, err)
	assert.Equal(t, summaryFallbackText, summary)

	// Deterministic fallbacks, and every one of them accounted.
	assert.Equal(t, []usage.Kind{
		usage.KindTitleSuggest,
		usage.KindAutocomplete,
		usage.KindTagSuggest,
		usage.KindSummary,
	}, recorder.events)

	again, err := svc.SuggestTags(ctx, userID, "제목", "내용", 5)
	require.NoError(t, err)
	assert.Equal(t, tags, again)
}

func TestService_CanceledRequestRecordsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &MockClient{err: context.Canceled}
	recorder := &MockRecorder{}
	svc := newLiveService(client, recorder)

	_, err := svc.SuggestTitles(ctx, uuid.New(), "내용입니다", 4)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, recorder.events)
}
