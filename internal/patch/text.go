package patch

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/bianoble/todosync/internal/textdiff"
)

// unescaper keeps the text form readable: only characters that would break
// the line-oriented format stay percent-encoded.
var unescaper = strings.NewReplacer(
	"%21", "!", "%7E", "~", "%27", "'",
	"%28", "(", "%29", ")", "%3B", ";",
	"%2F", "/", "%3F", "?", "%3A", ":",
	"%40", "@", "%26", "&", "%3D", "=",
	"%2B", "+", "%24", "$", "%2C", ",", "%23", "#", "%2A", "*",
)

var headerRe = regexp.MustCompile(`^@@ -(\d+),?(\d*) \+(\d+),?(\d*) @@$`)

// String renders the hunk in the GNU-diff-like text form:
//
//	@@ -1,5 +1,7 @@
//	+x
//	 L1%0AL2
//
// Line offsets in the header are 1-based; edit payloads are URL-escaped.
func (p Patch) String() string {
	var sb strings.Builder
	sb.WriteString("@@ -")
	sb.WriteString(coords(p.Start1, p.Length1))
	sb.WriteString(" +")
	sb.WriteString(coords(p.Start2, p.Length2))
	sb.WriteString(" @@\n")
	for _, e := range p.Edits {
		switch e.Op {
		case textdiff.OpInsert:
			sb.WriteByte('+')
		case textdiff.OpDelete:
			sb.WriteByte('-')
		default:
			sb.WriteByte(' ')
		}
		sb.WriteString(escape(e.Text))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func coords(start, length int) string {
	switch length {
	case 0:
		return strconv.Itoa(start) + ",0"
	case 1:
		return strconv.Itoa(start + 1)
	}
	return strconv.Itoa(start+1) + "," + strconv.Itoa(length)
}

func escape(s string) string {
	return unescaper.Replace(strings.ReplaceAll(url.QueryEscape(s), "+", " "))
}

// ToText renders patches in text form, one hunk after another.
func ToText(patches []Patch) string {
	var sb strings.Builder
	for _, p := range patches {
		sb.WriteString(p.String())
	}
	return sb.String()
}

// FromText parses the output of ToText.
func FromText(text string) ([]Patch, error) {
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(text, "\n")
	var patches []Patch

	for i := 0; i < len(lines); {
		if lines[i] == "" {
			i++
			continue
		}
		m := headerRe.FindStringSubmatch(lines[i])
		if m == nil {
			return nil, fmt.Errorf("line %d: invalid patch header %q", i+1, lines[i])
		}
		var p Patch
		p.Start1, p.Length1 = parseCoords(m[1], m[2])
		p.Start2, p.Length2 = parseCoords(m[3], m[4])
		i++

		for ; i < len(lines); i++ {
			line := lines[i]
			if line == "" {
				continue
			}
			if line[0] == '@' {
				break
			}
			payload, err := url.QueryUnescape(strings.ReplaceAll(line[1:], "+", "%2B"))
			if err != nil {
				return nil, fmt.Errorf("line %d: illegal escape in %q: %w", i+1, line, err)
			}
			switch line[0] {
			case '+':
				p.Edits = append(p.Edits, textdiff.Edit{Op: textdiff.OpInsert, Text: payload})
			case '-':
				p.Edits = append(p.Edits, textdiff.Edit{Op: textdiff.OpDelete, Text: payload})
			case ' ':
				p.Edits = append(p.Edits, textdiff.Edit{Op: textdiff.OpEqual, Text: payload})
			default:
				return nil, fmt.Errorf("line %d: invalid patch mode %q in %q", i+1, line[0], line)
			}
		}
		patches = append(patches, p)
	}
	return patches, nil
}

// parseCoords inverts coords. Errors are impossible after headerRe matched.
func parseCoords(startText, lengthText string) (start, length int) {
	start, _ = strconv.Atoi(startText)
	switch lengthText {
	case "":
		return start - 1, 1
	case "0":
		return start, 0
	}
	length, _ = strconv.Atoi(lengthText)
	return start - 1, length
}
