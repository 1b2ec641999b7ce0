package tools

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	diffRemoved = color.New(color.FgRed)
	diffAdded   = color.New(color.FgGreen)
)

// WriteLineDiff writes the lines that differ between before and after. Each
// changed line is prefixed by - or + and its 1-based line number in the
// corresponding text.
func WriteLineDiff(w io.Writer, before, after []byte) error {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(string(before), string(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	oldLine, newLine := 1, 1
	for _, d := range diffs {
		text := strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n")
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldLine += len(text)
			newLine += len(text)
		case diffmatchpatch.DiffDelete:
			for _, l := range text {
				if err := writeDiffLine(w, diffRemoved, "-", oldLine, l); err != nil {
					return err
				}
				oldLine++
			}
		case diffmatchpatch.DiffInsert:
			for _, l := range text {
				if err := writeDiffLine(w, diffAdded, "+", newLine, l); err != nil {
					return err
				}
				newLine++
			}
		}
	}
	return nil
}

func writeDiffLine(w io.Writer, c *color.Color, sign string, line int, text string) error {
	if _, err := c.Fprintf(w, "%s%4d %s", sign, line, text); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
