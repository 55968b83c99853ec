package pattern

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelim = "---"

// Parse reads a pattern file: a YAML frontmatter block delimited by "---"
// lines, followed by the free-text markdown body.
func Parse(data []byte) (*Pattern, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	if !strings.HasPrefix(text, frontmatterDelim+"\n") {
		return nil, fmt.Errorf("pattern file missing frontmatter header")
	}

	rest := text[len(frontmatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontmatterDelim+"\n")
	if end < 0 {
		// Frontmatter may close at EOF without a trailing newline.
		if strings.HasSuffix(rest, "\n"+frontmatterDelim) {
			end = len(rest) - len(frontmatterDelim) - 1
			rest = rest[:end] + "\n" + frontmatterDelim + "\n"
		} else {
			return nil, fmt.Errorf("pattern file frontmatter not terminated")
		}
	}

	header := rest[:end]
	body := strings.TrimPrefix(rest[end+len(frontmatterDelim)+2:], "\n")

	var meta Metadata
	if err := yaml.Unmarshal([]byte(header), &meta); err != nil {
		return nil, fmt.Errorf("parsing pattern frontmatter: %w", err)
	}

	return &Pattern{Meta: meta, Content: body}, nil
}

// Format renders a pattern back to its on-disk representation:
// frontmatter followed by the body.
func Format(p *Pattern) ([]byte, error) {
	header, err := yaml.Marshal(&p.Meta)
	if err != nil {
		return nil, fmt.Errorf("marshaling pattern frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelim + "\n")
	b.Write(header)
	b.WriteString(frontmatterDelim + "\n\n")
	b.WriteString(strings.TrimLeft(p.Content, "\n"))
	if !strings.HasSuffix(p.Content, "\n") {
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}

// Section extracts the text of one "## Heading" section from a pattern
// body. Returns an empty string if the heading is absent.
func Section(body, heading string) string {
	marker := "## " + heading
	start := strings.Index(body, marker)
	if start < 0 {
		return ""
	}
	start += len(marker)

	rest := body[start:]
	if end := strings.Index(rest, "\n## "); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// CodeBlock extracts the first fenced code block from a pattern body.
// Returns an empty string if none exists.
func CodeBlock(body string) string {
	start := strings.Index(body, "```")
	if start < 0 {
		return ""
	}
	rest := body[start+3:]

	// Skip the language tag on the fence line.
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		rest = rest[nl+1:]
	} else {
		return ""
	}

	end := strings.Index(rest, "```")
	if end < 0 {
		return ""
	}
	return strings.TrimRight(rest[:end], "\n")
}
