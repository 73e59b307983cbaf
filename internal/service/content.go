package service

import (
	"html"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// 正文允许常见富文本标签，去掉脚本、事件属性等
	contentPolicy = bluemonday.UGCPolicy()
	// 标题、评论只保留纯文本
	plainPolicy = bluemonday.StrictPolicy()
)

func sanitizeContent(s string) string {
	return strings.TrimSpace(contentPolicy.Sanitize(s))
}

func sanitizePlain(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(s)))
}

const slugMaxBase = 80

// slugBase 标题转为小写 ASCII 短横线格式：去掉变音符号，非字母数字折叠为 "-"
func slugBase(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
		if b.Len() >= slugMaxBase {
			break
		}
	}

	base := strings.Trim(b.String(), "-")
	if base == "" {
		return "diary"
	}
	return base
}

func shortSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// newSlug 生成主日记的 slug
func newSlug(title string) string {
	return slugBase(title) + "-" + shortSuffix()
}

// shadowSlug 生成待审核副本的 slug，与主日记可区分且全局唯一
func shadowSlug(canonicalSlug string) string {
	return canonicalSlug + "-pending-" + shortSuffix()
}
