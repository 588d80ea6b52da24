package jira

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	wikiCodeBlock  = regexp.MustCompile("(?s)```(\\w*)\\n(.*?)\\n?```")
	wikiHeadings   [7]*regexp.Regexp
	wikiBold       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	wikiStrike     = regexp.MustCompile(`~~([^~]+)~~`)
	wikiInlineCode = regexp.MustCompile("`([^`]+)`")
	wikiLink       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	wikiBullet     = regexp.MustCompile(`(?m)^[-+] (.+)$`)
	wikiNumbered   = regexp.MustCompile(`(?m)^\d+\. (.+)$`)
	wikiRule       = regexp.MustCompile(`(?m)^---+$`)
)

func init() {
	for i := 1; i <= 6; i++ {
		wikiHeadings[i] = regexp.MustCompile(`(?m)^` + strings.Repeat("#", i) + ` (.+)$`)
	}
}

// MarkdownToWiki converts Markdown to Jira Wiki Markup, the description
// format of Jira Server/Data Center API v2.
func MarkdownToWiki(markdown string) string {
	result := strings.ReplaceAll(markdown, "\r\n", "\n")

	// Code blocks first so their content is left alone by the inline rules.
	var blocks []string
	result = wikiCodeBlock.ReplaceAllStringFunc(result, func(s string) string {
		m := wikiCodeBlock.FindStringSubmatch(s)
		open := "{code}"
		if m[1] != "" {
			open = "{code:" + m[1] + "}"
		}
		blocks = append(blocks, open+"\n"+m[2]+"\n{code}")
		return fmt.Sprintf("\x00%d\x00", len(blocks)-1)
	})

	for i := 6; i >= 1; i-- {
		result = wikiHeadings[i].ReplaceAllString(result, fmt.Sprintf("h%d. $1", i))
	}

	// Bold: **text** -> *text*
	result = wikiBold.ReplaceAllString(result, `*$1*`)
	result = wikiStrike.ReplaceAllString(result, `-$1-`)
	result = wikiInlineCode.ReplaceAllString(result, `{{$1}}`)
	result = wikiQuotes(result)
	result = wikiLink.ReplaceAllString(result, `[$1|$2]`)
	result = wikiBullet.ReplaceAllString(result, `* $1`)
	result = wikiNumbered.ReplaceAllString(result, `# $1`)
	result = wikiRule.ReplaceAllString(result, `----`)

	for i, block := range blocks {
		result = strings.Replace(result, fmt.Sprintf("\x00%d\x00", i), block, 1)
	}
	return result
}

// wikiQuotes wraps runs of "> " lines in {quote} blocks.
func wikiQuotes(text string) string {
	var out, quote []string
	flush := func() {
		if quote != nil {
			out = append(out, "{quote}", strings.Join(quote, "\n"), "{quote}")
			quote = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "> ") {
			quote = append(quote, strings.TrimPrefix(line, "> "))
			continue
		}
		flush()
		out = append(out, line)
	}
	flush()
	return strings.Join(out, "\n")
}

// RenderDescription converts a Markdown description into the field value
// the given API version expects: an ADF document for v3, wiki markup for v2.
func RenderDescription(version APIVersion, markdown string) any {
	if strings.TrimSpace(markdown) == "" {
		return nil
	}
	if version == APIVersionV2 {
		return MarkdownToWiki(markdown)
	}
	return MarkdownToADF(markdown)
}
