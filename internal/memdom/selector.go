package memdom

import "strings"

// selector is a parsed simple selector: optional tag, optional id,
// zero or more classes. All present parts must match.
type selector struct {
	tag     string
	id      string
	classes []string
}

// parseSelector handles the simple forms "tag", "#id", ".class", and
// combinations like "input.field.primary" or "div#main".
func parseSelector(s string) selector {
	var sel selector
	var cur strings.Builder
	mode := byte('t') // 't' tag, '#' id, '.' class

	flush := func() {
		part := cur.String()
		cur.Reset()
		if part == "" {
			return
		}
		switch mode {
		case 't':
			sel.tag = part
		case '#':
			sel.id = part
		case '.':
			sel.classes = append(sel.classes, part)
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '#' || c == '.' {
			flush()
			mode = c
			continue
		}
		cur.WriteByte(c)
	}
	flush()
	return sel
}

func (sel selector) matches(e *Elem) bool {
	if sel.tag != "" && e.tag != sel.tag {
		return false
	}
	if sel.id != "" && e.id != sel.id {
		return false
	}
	for _, class := range sel.classes {
		if !hasClass(e.classes, class) {
			return false
		}
	}
	return sel.tag != "" || sel.id != "" || len(sel.classes) > 0
}

func hasClass(classes []string, want string) bool {
	for _, c := range classes {
		if c == want {
			return true
		}
	}
	return false
}

func splitClasses(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}
