// Package format converts the model's Markdown-flavored replies into the
// transcript markup the chat UI renders.
package format

import "regexp"

var (
	boldRe     = regexp.MustCompile(`\*\*(.*?)\*\*`)
	newlineRe  = regexp.MustCompile(`\n`)
	listItemRe = regexp.MustCompile(`- (.*?)<br>`)
)

// FormatReply applies the three transforms in order: bold spans, line
// breaks, then list items (which match on the already-inserted <br>
// markers). Not idempotent; call it exactly once per raw reply.
func FormatReply(text string) string {
	if text == "" {
		return ""
	}
	formatted := boldRe.ReplaceAllString(text, "<b>$1</b>")
	formatted = newlineRe.ReplaceAllString(formatted, "<br>")
	formatted = listItemRe.ReplaceAllString(formatted, "<li>$1</li>")
	return formatted
}
