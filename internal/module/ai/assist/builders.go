package assist

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/smartblog/server/internal/module/ai/provider"
)

// Per-feature limits. Lengths are in runes, budgets in output tokens.
const (
	titleInputLimit = 1000
	tagInputLimit   = 800

	titleTokenBudget      = 200
	completionTokenBudget = 500
	tagTokenBudget        = 150
	summaryTokenBudget    = 300

	defaultTitleCount   = 4
	defaultMaxTags      = 5
	defaultSummaryLimit = 200
	minSummaryLimit     = 10

	minTagLen = 2
	maxTagLen = 15
)

// Deterministic fallbacks served when the provider is unavailable or
// failed, or when postprocessing filtered everything out.
const (
	titlePlaceholder    = "AI 추천 제목을 생성할 수 없습니다"
	completionEmpty     = "자동완성을 생성할 수 없습니다."
	completionFallback  = "이어서 설명하면, 이 주제에 대해 더 깊이 있게 다뤄보겠습니다. 실무에서 유용한 팁들을 공유하겠습니다."
	summaryEmpty        = "요약을 생성할 수 없습니다."
	summaryFallbackText = "이 글의 핵심 내용을 요약한 정보입니다."
)

var (
	tagsEmptySet    = []string{"기술", "블로그", "개발"}
	tagsFallbackSet = []string{"개발", "웹개발", "프로그래밍", "블로그"}
)

var completionStyles = map[string]string{
	"friendly":     "친근하고 대화하는 듯한 톤으로",
	"professional": "전문적이고 격식있는 톤으로",
	"casual":       "캐주얼하고 편안한 톤으로",
	"informative":  "정보 전달에 집중하는 톤으로",
}

// truncateRunes caps s at limit runes, marking the cut with an ellipsis.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func startsWithDigit(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsDigit(r)
}

// --- Title suggestions ---

func buildTitleMessages(content string, count int) []provider.Message {
	content = truncateRunes(content, titleInputLimit)

	return []provider.Message{
		{
			Role:    provider.RoleSystem,
			Content: "당신은 한국어 블로그 제목을 추천하는 전문가입니다. 매력적이고 클릭하고 싶은 제목을 한국어로 제안해주세요.",
		},
		{
			Role: provider.RoleUser,
			Content: fmt.Sprintf(`다음 글 내용을 바탕으로 %d개의 매력적인 한국어 제목을 추천해주세요.
각 제목은 한 줄씩, 번호나 특수문자 없이 작성해주세요.

글 내용:
%s

조건:
- 50자 이내로 작성
- 궁금증을 유발하는 제목
- 감정적 어필이 있는 제목
- 한국어로만 작성
- SEO에 도움이 되는 키워드 포함`, count, content),
		},
	}
}

// postprocessTitles turns raw response text into at most count clean
// title candidates. Lines that look like enumeration artifacts (blank,
// digit-leading, five runes or fewer) are dropped.
func postprocessTitles(raw string, count int) []string {
	var titles []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || startsWithDigit(line) || utf8.RuneCountInString(line) <= 5 {
			continue
		}
		titles = append(titles, line)
		if len(titles) == count {
			break
		}
	}
	if len(titles) == 0 {
		return []string{titlePlaceholder}
	}
	return titles
}

func titleFallback(content string) []string {
	return []string{
		fmt.Sprintf("📝 %s...에 대한 완벽 가이드", firstRunes(content, 20)),
		fmt.Sprintf("🚀 %s... 시작하기", firstRunes(content, 15)),
	}
}

// --- Content completion ---

func buildCompletionMessages(content, style string) []provider.Message {
	instruction, ok := completionStyles[style]
	if !ok {
		instruction = completionStyles["friendly"]
	}

	return []provider.Message{
		{
			Role:    provider.RoleSystem,
			Content: fmt.Sprintf("당신은 한국어 블로그 글쓰기를 도와주는 AI 어시스턴트입니다. %s 글을 자연스럽게 이어서 작성해주세요.", instruction),
		},
		{
			Role: provider.RoleUser,
			Content: fmt.Sprintf(`다음 글을 자연스럽게 이어서 한국어로 작성해주세요:

%s

조건:
- 2-3 문단 정도로 작성
- 기존 내용과 자연스럽게 연결
- 읽기 쉽고 흥미로운 내용
- 한국어로만 작성
- 실용적이고 도움이 되는 정보 포함`, content),
		},
	}
}

func postprocessCompletion(raw string) string {
	completion := strings.TrimSpace(raw)
	if completion == "" {
		return completionEmpty
	}
	return completion
}

// --- Tag suggestions ---

func buildTagMessages(title, content string, maxTags int) []provider.Message {
	content = truncateRunes(content, tagInputLimit)

	return []provider.Message{
		{
			Role:    provider.RoleSystem,
			Content: "당신은 한국어 블로그 태그를 추천하는 전문가입니다. 글의 주제와 내용을 분석하여 적절한 태그를 제안해주세요.",
		},
		{
			Role: provider.RoleUser,
			Content: fmt.Sprintf(`다음 블로그 글에 적합한 태그 %d개를 추천해주세요.

제목: %s

내용:
%s

조건:
- 각 태그는 한 줄씩, 번호 없이 작성
- 한글과 영어 모두 가능
- 검색에 도움이 되는 키워드
- 글의 주제와 직접적으로 관련
- 간결하고 명확한 단어 (2-10자)
- 해시태그 없이 단어만`, maxTags, title, content),
		},
	}
}

// postprocessTags strips hash prefixes and keeps at most maxTags tags
// whose rune length falls within the valid range.
func postprocessTags(raw string, maxTags int) []string {
	var tags []string
	for _, line := range strings.Split(raw, "\n") {
		tag := strings.TrimSpace(strings.ReplaceAll(line, "#", ""))
		if tag == "" || startsWithDigit(tag) {
			continue
		}
		if n := utf8.RuneCountInString(tag); n < minTagLen || n > maxTagLen {
			continue
		}
		tags = append(tags, tag)
		if len(tags) == maxTags {
			break
		}
	}
	if len(tags) == 0 {
		return tagsEmptySet
	}
	return tags
}

// --- Summary ---

func buildSummaryMessages(content string, maxLength int) []provider.Message {
	return []provider.Message{
		{
			Role:    provider.RoleSystem,
			Content: "당신은 한국어 글 요약 전문가입니다. 주어진 글의 핵심 내용을 간결하고 명확하게 요약해주세요.",
		},
		{
			Role: provider.RoleUser,
			Content: fmt.Sprintf(`다음 글을 %d자 이내로 한국어로 요약해주세요:

%s

조건:
- 글의 핵심 메시지 포함
- 읽기 쉽고 명확한 문장
- 원문의 톤 유지
- 한국어로만 작성
- %d자 이내`, maxLength, content, maxLength),
		},
	}
}

// postprocessSummary hard-truncates an over-length summary so the
// result, ellipsis included, is exactly maxLength runes.
func postprocessSummary(raw string, maxLength int) string {
	if maxLength < minSummaryLimit {
		maxLength = defaultSummaryLimit
	}
	summary := strings.TrimSpace(raw)
	if summary == "" {
		return summaryEmpty
	}
	if utf8.RuneCountInString(summary) > maxLength {
		summary = string([]rune(summary)[:maxLength-3]) + "..."
	}
	return summary
}
