package convert

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Patch renders a line diff turning before into after, with "-", "+" and
// " " line prefixes under a header naming the file. It is empty when the
// texts are equal.
func Patch(name, before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()

	src, dst, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(src, dst, false), lines)

	var sb strings.Builder

	sb.WriteString("--- " + name + "\n")
	sb.WriteString("+++ " + name + "\n")

	for _, d := range diffs {
		prefix := " "

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffEqual:
		}

		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}

			sb.WriteString(prefix + line)

			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n")
			}
		}
	}

	return sb.String()
}
