package injection

import (
	"regexp"
	"strings"

	"github.com/kvasir-sec/reflectix/pkg/models"
)

// Classify determines the HTML syntactic context enclosing the token
// occurrence at [offset, offset+length). It works on the raw markup
// with a forward/backward scan instead of a DOM build: the token may
// sit inside structurally broken markup, and a permissive parser's
// repair behavior would make classification irreproducible.
func Classify(body string, offset, length int) models.ReflectionContext {
	if offset < 0 || offset > len(body) {
		return models.ReflectionContext{Kind: models.KindUnknown}
	}

	rc := models.ReflectionContext{
		Kind:    models.KindPlainText,
		Offset:  offset,
		Excerpt: excerpt(body, offset, length),
	}

	before := body[:offset]
	lower := strings.ToLower(before)

	// Opening positions of every construct still unmatched at the
	// offset. The rightmost one is the innermost enclosure and wins.
	commentOpen := unmatchedCommentOpen(before)
	scriptOpen := unmatchedScriptOpen(lower)
	tagOpen := unmatchedTagOpen(before)
	titleOpen := unmatchedTitleOpen(lower)

	switch rightmost(commentOpen, scriptOpen, tagOpen, titleOpen) {
	case -1:
		rc.Tag = enclosingTag(before)
		return rc
	case commentOpen:
		rc.Kind = models.KindComment
		return rc
	case scriptOpen:
		rc.Kind = models.KindScriptBody
		rc.Tag = "script"
		return rc
	case titleOpen:
		rc.Kind = models.KindTitleText
		rc.Tag = "title"
		return rc
	}

	// Inside tag markup: everything between the unmatched '<' and the
	// token decides the slot.
	classifyTagSlot(&rc, before[tagOpen+1:])
	return rc
}

var tagNameRe = regexp.MustCompile(`^/?([a-zA-Z][a-zA-Z0-9-]*)`)

// classifyTagSlot classifies a token sitting inside tag markup. slot
// is the markup between the opening '<' and the token.
func classifyTagSlot(rc *models.ReflectionContext, slot string) {
	if m := tagNameRe.FindStringSubmatch(slot); m != nil {
		rc.Tag = strings.ToLower(m[1])
	}

	// Name slot: only name characters (or a closing-tag slash)
	// between '<' and the token.
	trimmed := strings.TrimPrefix(slot, "/")
	if isNameFragment(trimmed) {
		rc.Kind = models.KindTagName
		return
	}

	prev := lastNonSpace(slot)

	// Quote parity inside the tag tells whether the token sits inside
	// a quoted attribute value.
	if strings.Count(slot, `"`)%2 == 1 {
		rc.Kind = models.KindAttributeValue
		rc.Quote = models.QuoteDouble
		return
	}
	if strings.Count(slot, `'`)%2 == 1 {
		rc.Kind = models.KindAttributeValue
		rc.Quote = models.QuoteSingle
		return
	}

	switch prev {
	case '=':
		rc.Kind = models.KindAttributeValue
		rc.Quote = models.QuoteNone
	case '/':
		// The value sits after a stray '/' or other tag-closing
		// fragment rather than in a regular slot.
		rc.Kind = models.KindPartialTagName
	default:
		rc.Kind = models.KindUnknown
	}
}

// unmatchedCommentOpen returns the position of a "<!--" not yet closed
// by "-->", or -1.
func unmatchedCommentOpen(before string) int {
	open := strings.LastIndex(before, "<!--")
	if open == -1 || strings.LastIndex(before, "-->") > open {
		return -1
	}
	return open
}

// unmatchedScriptOpen returns the position of a complete "<script...>"
// open tag without a following "</script", or -1.
func unmatchedScriptOpen(lower string) int {
	open := strings.LastIndex(lower, "<script")
	if open == -1 || strings.LastIndex(lower, "</script") > open {
		return -1
	}
	// The open tag must be complete, otherwise the token is still
	// inside the tag markup itself.
	if !strings.Contains(lower[open:], ">") {
		return -1
	}
	return open
}

// unmatchedTagOpen returns the position of a '<' with no closing '>'
// before the offset, or -1.
func unmatchedTagOpen(before string) int {
	lt := strings.LastIndex(before, "<")
	if lt == -1 || strings.LastIndex(before, ">") > lt {
		return -1
	}
	return lt
}

// unmatchedTitleOpen returns the position of an open "<title...>" the
// token sits in, with no intervening tag open, or -1.
func unmatchedTitleOpen(lower string) int {
	open := strings.LastIndex(lower, "<title")
	if open == -1 || strings.LastIndex(lower, "</title") > open {
		return -1
	}
	gt := strings.Index(lower[open:], ">")
	if gt == -1 {
		return -1
	}
	// No tag may open between <title> and the token.
	if strings.Contains(lower[open+gt+1:], "<") {
		return -1
	}
	return open
}

func rightmost(positions ...int) int {
	best := -1
	for _, p := range positions {
		if p > best {
			best = p
		}
	}
	return best
}

func isNameFragment(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return false
		}
	}
	return true
}

func lastNonSpace(s string) byte {
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return s[i]
		}
	}
	return 0
}

var tagTokenRe = regexp.MustCompile(`<(/?)([a-zA-Z][a-zA-Z0-9-]*)`)

// enclosingTag walks the markup before the offset with a shallow tag
// stack and returns the name of the innermost still-open element.
func enclosingTag(before string) string {
	var stack []string
	for _, m := range tagTokenRe.FindAllStringSubmatch(before, -1) {
		name := strings.ToLower(m[2])
		if m[1] == "" {
			stack = append(stack, name)
		} else if len(stack) > 0 && stack[len(stack)-1] == name {
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) == 0 {
		return ""
	}
	return stack[len(stack)-1]
}

// excerpt returns the markup surrounding the token, for diagnostics.
func excerpt(body string, offset, length int) string {
	start := max(0, offset-48)
	end := min(len(body), offset+length+48)
	return body[start:end]
}
