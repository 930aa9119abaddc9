package doc

import "strings"

// Editable returns text in the form handed to the line editor: CRLF line
// breaks are folded to LF.
func Editable(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// LineCount returns the number of editor lines in text.
func LineCount(text string) int {
	return strings.Count(text, "\n") + 1
}

// Merge applies the change between two editor values, before and after, to
// text, the document before was derived from. Lines outside the changed
// region keep their original bytes and line endings; changed lines take the
// ending of the line they replace, or the dominant ending of text.
//
// ok is false when before does not line up with text line by line. The
// result is then after with the dominant line ending applied.
func Merge(text, before, after string) (string, bool) {
	orig := strings.Split(text, "\n")
	prev := strings.Split(before, "\n")
	next := strings.Split(after, "\n")
	crlf := dominantCRLF(text)

	if len(orig) != len(prev) {
		return withEndings(next, crlf), false
	}

	p := 0
	for p < len(prev) && p < len(next) && prev[p] == next[p] {
		p++
	}
	s := 0
	for s < len(prev)-p && s < len(next)-p && prev[len(prev)-1-s] == next[len(next)-1-s] {
		s++
	}

	out := make([]string, 0, len(next))
	out = append(out, orig[:p]...)
	changed := len(orig) - s
	for j := p; j < len(next)-s; j++ {
		line := next[j]
		cr := crlf
		if j < changed {
			cr = strings.HasSuffix(orig[j], "\r")
		}
		if cr && j < len(next)-1 {
			line += "\r"
		}
		out = append(out, line)
	}
	out = append(out, orig[changed:]...)
	return strings.Join(out, "\n"), true
}

func dominantCRLF(text string) bool {
	return strings.Count(text, "\r\n")*2 > strings.Count(text, "\n")
}

func withEndings(lines []string, crlf bool) string {
	if crlf {
		return strings.Join(lines, "\r\n")
	}
	return strings.Join(lines, "\n")
}
