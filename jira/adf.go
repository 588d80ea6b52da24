package jira

import (
	"regexp"
	"strings"
)

// ADFDocument represents an Atlassian Document Format document.
// This is used for rich text fields in Jira Cloud API v3.
type ADFDocument struct {
	Version int       `json:"version"` // Always 1
	Type    string    `json:"type"`    // Always "doc"
	Content []ADFNode `json:"content"`
}

// ADFNode represents a node in an ADF document.
type ADFNode struct {
	Type    string         `json:"type"`
	Content []ADFNode      `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []ADFMark      `json:"marks,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// ADFMark represents formatting applied to text.
type ADFMark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// ADF node types
const (
	ADFNodeDoc         = "doc"
	ADFNodeParagraph   = "paragraph"
	ADFNodeText        = "text"
	ADFNodeHardBreak   = "hardBreak"
	ADFNodeHeading     = "heading"
	ADFNodeBulletList  = "bulletList"
	ADFNodeOrderedList = "orderedList"
	ADFNodeListItem    = "listItem"
	ADFNodeCodeBlock   = "codeBlock"
	ADFNodeBlockquote  = "blockquote"
	ADFNodeRule        = "rule"
)

// ADF mark types
const (
	ADFMarkStrong = "strong"
	ADFMarkCode   = "code"
	ADFMarkLink   = "link"
)

// NewADFDocument creates a new empty ADF document.
func NewADFDocument() *ADFDocument {
	return &ADFDocument{
		Version: 1,
		Type:    ADFNodeDoc,
		Content: []ADFNode{},
	}
}

// Validate validates the ADF document structure.
func (d *ADFDocument) Validate() error {
	if d.Version != 1 {
		return ErrADFVersionOnly
	}
	if d.Type != ADFNodeDoc {
		return ErrADFTypeInvalid
	}
	return nil
}

// AddParagraph adds a paragraph. Lines become hard breaks and inline
// markdown (bold, code, links) becomes marks.
func (d *ADFDocument) AddParagraph(lines ...string) {
	var content []ADFNode
	for i, line := range lines {
		if i > 0 {
			content = append(content, ADFNode{Type: ADFNodeHardBreak})
		}
		content = append(content, inlineNodes(line)...)
	}
	d.Content = append(d.Content, ADFNode{Type: ADFNodeParagraph, Content: content})
}

// AddHeading adds a heading to the document.
func (d *ADFDocument) AddHeading(level int, text string) {
	level = min(max(level, 1), 6)
	d.Content = append(d.Content, ADFNode{
		Type:    ADFNodeHeading,
		Attrs:   map[string]any{"level": level},
		Content: inlineNodes(text),
	})
}

// AddCodeBlock adds a code block to the document.
func (d *ADFDocument) AddCodeBlock(code, language string) {
	node := ADFNode{Type: ADFNodeCodeBlock}
	if language != "" {
		node.Attrs = map[string]any{"language": language}
	}
	if code != "" {
		node.Content = []ADFNode{{Type: ADFNodeText, Text: code}}
	}
	d.Content = append(d.Content, node)
}

// AddList adds a bullet or ordered list to the document.
func (d *ADFDocument) AddList(ordered bool, items []string) {
	listType := ADFNodeBulletList
	if ordered {
		listType = ADFNodeOrderedList
	}
	listItems := make([]ADFNode, len(items))
	for i, item := range items {
		listItems[i] = ADFNode{
			Type: ADFNodeListItem,
			Content: []ADFNode{
				{Type: ADFNodeParagraph, Content: inlineNodes(item)},
			},
		}
	}
	d.Content = append(d.Content, ADFNode{Type: listType, Content: listItems})
}

// AddBlockquote adds a blockquote to the document.
func (d *ADFDocument) AddBlockquote(lines ...string) {
	quote := NewADFDocument()
	quote.AddParagraph(lines...)
	d.Content = append(d.Content, ADFNode{Type: ADFNodeBlockquote, Content: quote.Content})
}

// AddRule adds a horizontal rule to the document.
func (d *ADFDocument) AddRule() {
	d.Content = append(d.Content, ADFNode{Type: ADFNodeRule})
}

var (
	inlinePattern  = regexp.MustCompile("\\*\\*([^*]+)\\*\\*|`([^`]+)`|\\[([^\\]]+)\\]\\(([^)\\s]+)\\)")
	orderedPattern = regexp.MustCompile(`^\d+[.)] `)
	headingPattern = regexp.MustCompile(`^(#{1,6}) +(.*)$`)
)

// inlineNodes splits text into text nodes carrying strong, code and link
// marks.
func inlineNodes(text string) []ADFNode {
	var nodes []ADFNode
	last := 0
	for _, m := range inlinePattern.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			nodes = append(nodes, ADFNode{Type: ADFNodeText, Text: text[last:m[0]]})
		}
		switch {
		case m[2] >= 0:
			nodes = append(nodes, markedText(text[m[2]:m[3]], ADFMark{Type: ADFMarkStrong}))
		case m[4] >= 0:
			nodes = append(nodes, markedText(text[m[4]:m[5]], ADFMark{Type: ADFMarkCode}))
		default:
			nodes = append(nodes, markedText(text[m[6]:m[7]],
				ADFMark{Type: ADFMarkLink, Attrs: map[string]any{"href": text[m[8]:m[9]]}}))
		}
		last = m[1]
	}
	if last < len(text) {
		nodes = append(nodes, ADFNode{Type: ADFNodeText, Text: text[last:]})
	}
	return nodes
}

func markedText(text string, mark ADFMark) ADFNode {
	return ADFNode{Type: ADFNodeText, Text: text, Marks: []ADFMark{mark}}
}

// MarkdownToADF converts the subset of Markdown found in ticket
// descriptions into an ADF document: headings, paragraphs, bullet and
// ordered lists, fenced code, blockquotes and rules.
func MarkdownToADF(markdown string) *ADFDocument {
	doc := NewADFDocument()
	lines := strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n")

	for i := 0; i < len(lines); {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			i++

		case strings.HasPrefix(trimmed, "```"):
			language := strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			var code []string
			i++
			for i < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
				code = append(code, lines[i])
				i++
			}
			i++ // closing fence
			doc.AddCodeBlock(strings.Join(code, "\n"), language)

		case headingPattern.MatchString(trimmed):
			m := headingPattern.FindStringSubmatch(trimmed)
			doc.AddHeading(len(m[1]), strings.TrimSpace(m[2]))
			i++

		case trimmed == "---" || trimmed == "***" || trimmed == "___":
			doc.AddRule()
			i++

		case strings.HasPrefix(trimmed, ">"):
			var quote []string
			for i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), ">") {
				quote = append(quote, strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[i]), ">")))
				i++
			}
			doc.AddBlockquote(quote...)

		case isBullet(trimmed):
			var items []string
			for i < len(lines) && isBullet(strings.TrimSpace(lines[i])) {
				items = append(items, strings.TrimSpace(lines[i])[2:])
				i++
			}
			doc.AddList(false, items)

		case orderedPattern.MatchString(trimmed):
			var items []string
			for i < len(lines) && orderedPattern.MatchString(strings.TrimSpace(lines[i])) {
				l := strings.TrimSpace(lines[i])
				items = append(items, l[len(orderedPattern.FindString(l)):])
				i++
			}
			doc.AddList(true, items)

		default:
			var para []string
			for i < len(lines) && isParagraphLine(lines[i]) {
				para = append(para, strings.TrimSpace(lines[i]))
				i++
			}
			doc.AddParagraph(para...)
		}
	}

	return doc
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "+ ")
}

func isParagraphLine(line string) bool {
	t := strings.TrimSpace(line)
	return t != "" &&
		!strings.HasPrefix(t, "```") &&
		!strings.HasPrefix(t, ">") &&
		!headingPattern.MatchString(t) &&
		!isBullet(t) &&
		!orderedPattern.MatchString(t) &&
		t != "---" && t != "***" && t != "___"
}
