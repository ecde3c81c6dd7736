package driven

import (
	"errors"
	"regexp"
	"strings"

	"github.com/FileLanderScaner/ANALYZER/internal/config"
	"github.com/FileLanderScaner/ANALYZER/internal/models"
)

var (
	ErrNoInput             = errors.New("no input supplied for any analysis category")
	ErrAllCategoriesFailed = errors.New("all requested analysis categories failed")
	ErrEmptyMessage        = errors.New("assistant message is empty")
)

// AI provider failure patterns, checked in order; the first match wins.
// Matching is case-sensitive unless a pattern opts out, and status codes are
// word-bounded so that ids and ports never match.
var failurePatterns = []struct {
	key messageKey
	re  *regexp.Regexp
}{
	{msgInvalidAPIKey, regexp.MustCompile(`API key not valid|API_KEY_INVALID|invalid_api_key|API key is a placeholder|API key is not configured`)},
	{msgQuota, regexp.MustCompile(`(?i:\bquota\b)|RESOURCE_EXHAUSTED|(?i:rate limit exceeded)|\b429\b`)},
	{msgNetwork, regexp.MustCompile(`fetch failed|ENOTFOUND|ECONNREFUSED|no such host|connection refused|dial tcp|i/o timeout`)},
	{msgMalformed, regexp.MustCompile(`JSON|Unexpected token|invalid character|json: cannot unmarshal`)},
}

// UserFacingError maps an error of the AI capability onto a message a user
// can act on. Known provider failures get fixed localized texts; anything
// else passes through. Storage errors never go through here.
func UserFacingError(err error, locale models.Locale) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, config.ErrMissingAPIKey) || errors.Is(err, config.ErrPlaceholderAPIKey) {
		return message(locale, msgInvalidAPIKey)
	}
	if errors.Is(err, ErrNoInput) {
		return message(locale, msgNoInput)
	}
	if errors.Is(err, ErrAllCategoriesFailed) {
		return message(locale, msgAllFailed)
	}

	msg := err.Error()
	for _, p := range failurePatterns {
		if p.re.MatchString(msg) {
			return message(locale, p.key)
		}
	}

	if strings.TrimSpace(msg) == "" {
		return message(locale, msgUnexpected)
	}
	return msg
}

// errorLog accumulates stage failures into the single advisory error string.
type errorLog struct {
	locale  models.Locale
	entries []string
}

func (l *errorLog) add(stage string, err error) {
	l.addText(stage, UserFacingError(err, l.locale))
}

func (l *errorLog) addText(stage, text string) {
	text = strings.TrimSpace(text)
	if !strings.HasSuffix(text, ".") {
		text += "."
	}
	if stage != "" {
		text = stage + ": " + text
	}
	l.entries = append(l.entries, text)
}

func (l *errorLog) empty() bool {
	return len(l.entries) == 0
}

// result returns nil when nothing failed.
func (l *errorLog) result() *string {
	if l.empty() {
		return nil
	}
	s := strings.Join(l.entries, " ")
	return &s
}
