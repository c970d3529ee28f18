// Package extract — HTML and Markdown cleanup around readability output.
package extract

import (
	"html"
	"regexp"
	"strings"
)

var (
	commentRegex      = regexp.MustCompile(`(?s)<!--.*?-->`)
	firstH2Regex      = regexp.MustCompile(`(?is)<h2(?:\s[^>]*)?>(.*?)</h2\s*>`)
	tagRegex          = regexp.MustCompile(`<[^>]*>`)
	fragmentLinkRegex = regexp.MustCompile(`\[\]\(#[^)]*\)`)
)

// StripComments removes every <!-- ... --> span.
func StripComments(content string) string {
	return commentRegex.ReplaceAllString(content, "")
}

// RepairTitle makes sure the content opens with the article title as <h1>.
// Only the first <h2> is a candidate: when its text contains the title it is
// renamed to <h1> in place, otherwise a new <h1> is prepended.
func RepairTitle(title, content string) string {
	if title == "" {
		return content
	}

	if loc := firstH2Regex.FindStringSubmatchIndex(content); loc != nil {
		text := html.UnescapeString(tagRegex.ReplaceAllString(content[loc[2]:loc[3]], ""))
		if strings.Contains(text, title) {
			return content[:loc[0]] + promoteHeading(content[loc[0]:loc[1]]) + content[loc[1]:]
		}
	}

	return "<h1>" + html.EscapeString(title) + "</h1>\n" + content
}

// promoteHeading renames the tags of a single <h2>...</h2> span to h1.
func promoteHeading(h2 string) string {
	h1 := "<h1" + h2[len("<h2"):]
	i := strings.LastIndex(strings.ToLower(h1), "</h2")
	if i < 0 {
		return h1
	}
	return h1[:i] + "</h1" + h1[i+len("</h2"):]
}

// StripFragmentLinks removes "[](#...)" anchor artifacts that carry no text.
func StripFragmentLinks(markdown string) string {
	return fragmentLinkRegex.ReplaceAllString(markdown, "")
}
