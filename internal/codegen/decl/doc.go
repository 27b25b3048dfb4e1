package decl

import "strings"

// Doc is the documentation accumulated from "#!" lines preceding a declaration.
type Doc struct {
	Lines []string
	// ContextAt is the index of the line before which the description of the
	// implicit context pointer parameter is spliced. Only valid with HasContext.
	ContextAt  int
	HasContext bool
}

func (d Doc) Empty() bool { return len(d.Lines) == 0 }

// Add appends one doc line. The context splice point is recorded at the first
// @param following an @brief, and only once.
func (d *Doc) Add(line string) {
	if !d.HasContext && strings.Contains(line, "@param") && d.contains("@brief") && !d.contains("@param") {
		d.ContextAt = len(d.Lines)
		d.HasContext = true
	}
	d.Lines = append(d.Lines, line)
}

func (d Doc) contains(s string) bool {
	for _, l := range d.Lines {
		if strings.Contains(l, s) {
			return true
		}
	}
	return false
}

// Body renders the lines as " * <line>" rows, inserting ctxParam (already a
// complete row, or empty) at the splice point.
func (d Doc) Body(ctxParam string) string {
	var sb strings.Builder
	for i, l := range d.Lines {
		if d.HasContext && i == d.ContextAt {
			sb.WriteString(ctxParam)
		}
		sb.WriteString(" * ")
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (d Doc) Clone() Doc {
	d.Lines = append([]string(nil), d.Lines...)
	return d
}
