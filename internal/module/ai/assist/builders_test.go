package assist

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostprocessTitles(t *testing.T) {
	t.Run("filters enumeration artifacts", func(t *testing.T) {
		raw := "1. 번호가 붙은 제목입니다\n\n  개발자를 위한 블로그 글쓰기 완벽 가이드  \n짧음\nGo 서버를 처음 만드는 사람들이 놓치는 것들\n"

		titles := postprocessTitles(raw, 4)
		require.Len(t, titles, 2)
		assert.Equal(t, "개발자를 위한 블로그 글쓰기 완벽 가이드", titles[0])
		assert.Equal(t, "Go 서버를 처음 만드는 사람들이 놓치는 것들", titles[1])
	})

	t.Run("caps at requested count", func(t *testing.T) {
		raw := "첫 번째 후보 제목입니다\n두 번째 후보 제목입니다\n세 번째 후보 제목입니다\n네 번째 후보 제목입니다\n다섯 번째 후보 제목입니다"

		titles := postprocessTitles(raw, 3)
		assert.Len(t, titles, 3)
	})

	t.Run("never returns digit-leading or empty items", func(t *testing.T) {
		raw := "3가지 방법을 소개합니다\n   \n2025년 결산\n블로그 글을 잘 쓰는 방법을 알아봅시다"

		for _, title := range postprocessTitles(raw, 4) {
			assert.NotEmpty(t, title)
			assert.False(t, startsWithDigit(title), "digit-leading title %q", title)
		}
	})

	t.Run("everything filtered yields placeholder", func(t *testing.T) {
		titles := postprocessTitles("1. one\n2. two\n\n", 4)
		assert.Equal(t, []string{titlePlaceholder}, titles)
	})
}

func TestTitleFallback(t *testing.T) {
	titles := titleFallback("짧은 글")
	require.Len(t, titles, 2)
	for _, title := range titles {
		assert.NotEmpty(t, title)
		assert.False(t, startsWithDigit(title))
	}
}

func TestBuildTitleMessages_TruncatesInput(t *testing.T) {
	content := strings.Repeat("가", 1500)

	messages := buildTitleMessages(content, 4)
	require.Len(t, messages, 2)
	assert.Contains(t, messages[1].Content, strings.Repeat("가", 1000)+"...")
	assert.NotContains(t, messages[1].Content, strings.Repeat("가", 1001))
}

func TestPostprocessCompletion(t *testing.T) {
	assert.Equal(t, "이어지는 문단입니다.", postprocessCompletion("  이어지는 문단입니다.  \n"))
	assert.Equal(t, completionEmpty, postprocessCompletion("   "))
}

func TestBuildCompletionMessages_Style(t *testing.T) {
	tests := []struct {
		style string
		want  string
	}{
		{"professional", "전문적이고 격식있는 톤으로"},
		{"casual", "캐주얼하고 편안한 톤으로"},
		{"informative", "정보 전달에 집중하는 톤으로"},
		{"friendly", "친근하고 대화하는 듯한 톤으로"},
		{"pirate", "친근하고 대화하는 듯한 톤으로"},
		{"", "친근하고 대화하는 듯한 톤으로"},
	}

	for _, tt := range tests {
		messages := buildCompletionMessages("본문", tt.style)
		assert.Contains(t, messages[0].Content, tt.want, "style %q", tt.style)
	}
}

func TestPostprocessTags(t *testing.T) {
	t.Run("strips hashes and filters", func(t *testing.T) {
		raw := "#개발\n웹개발\n1번태그\n  #프로그래밍  \n가\n이태그는열다섯자를넘어가는태그입니다\n"

		tags := postprocessTags(raw, 5)
		assert.Equal(t, []string{"개발", "웹개발", "프로그래밍"}, tags)
	})

	t.Run("length bounds are inclusive", func(t *testing.T) {
		raw := "고\nGo\n정확히열다섯자가되는태그입니다아"
		tags := postprocessTags(raw, 5)

		assert.NotContains(t, tags, "고")
		for _, tag := range tags {
			n := utf8.RuneCountInString(tag)
			assert.GreaterOrEqual(t, n, minTagLen)
			assert.LessOrEqual(t, n, maxTagLen)
		}
	})

	t.Run("caps at max", func(t *testing.T) {
		raw := "태그하나\n태그둘째\n태그셋째\n태그넷째"
		assert.Len(t, postprocessTags(raw, 2), 2)
	})

	t.Run("empty yields generic set", func(t *testing.T) {
		assert.Equal(t, tagsEmptySet, postprocessTags("\n#\n1번\n", 5))
	})
}

func TestPostprocessSummary(t *testing.T) {
	t.Run("short passes through", func(t *testing.T) {
		assert.Equal(t, "짧은 요약입니다.", postprocessSummary("짧은 요약입니다.", 200))
	})

	t.Run("over limit truncates to exactly the limit", func(t *testing.T) {
		raw := strings.Repeat("요", 210)

		summary := postprocessSummary(raw, 200)
		assert.Equal(t, 200, utf8.RuneCountInString(summary))
		assert.True(t, strings.HasSuffix(summary, "..."))
		assert.Equal(t, strings.Repeat("요", 197), strings.TrimSuffix(summary, "..."))
	})

	t.Run("empty yields fallback", func(t *testing.T) {
		assert.Equal(t, summaryEmpty, postprocessSummary("  ", 200))
	})

	t.Run("limit too small for the ellipsis uses the default", func(t *testing.T) {
		raw := strings.Repeat("요", 210)

		for _, limit := range []int{1, 2, minSummaryLimit - 1} {
			summary := postprocessSummary(raw, limit)
			assert.Equal(t, defaultSummaryLimit, utf8.RuneCountInString(summary))
			assert.True(t, strings.HasSuffix(summary, "..."))
		}
	})
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "한글", truncateRunes("한글", 10))
	assert.Equal(t, "한글텍...", truncateRunes("한글텍스트", 3))
}
