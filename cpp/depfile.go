package cpp

import (
	"fmt"
	"io"
	"strings"
)

// ParseDepfile parses make style dependency rules ("target: dep dep \" with continuation lines)
// as written by cc -M and bindgen --depfile. It returns the prerequisites of every rule,
// de-duplicated, in first-seen order
func ParseDepfile(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read depfile: %w", err)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\\\n", " ")

	var res []string
	seen := map[string]struct{}{}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		idx := ruleSeparator(line)
		if idx < 0 {
			return nil, fmt.Errorf("malformed depfile rule: %s", line)
		}
		for _, dep := range splitWords(line[idx+1:]) {
			if _, ok := seen[dep]; ok {
				continue
			}
			seen[dep] = struct{}{}
			res = append(res, dep)
		}
	}
	return res, nil
}

// ruleSeparator finds the ':' ending the targets of a rule. A colon followed by a path
// separator is a drive letter (C:\ or C:/) and is skipped
func ruleSeparator(line string) int {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case ':':
			if i+1 < len(line) && (line[i+1] == '\\' || line[i+1] == '/') {
				continue
			}
			return i
		}
	}
	return -1
}

// splitWords splits on unescaped whitespace, undoing "\ ", "\#" and "$$" escapes
func splitWords(s string) []string {
	var res []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			res = append(res, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && (s[i+1] == ' ' || s[i+1] == '#'):
			cur.WriteByte(s[i+1])
			i++
		case c == '$' && i+1 < len(s) && s[i+1] == '$':
			cur.WriteByte('$')
			i++
		case c == ' ' || c == '\t':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return res
}
