package diff

import (
	"fmt"
	"io"
	"math"
	"strings"
)

const (
	emojiWorse     = "\U0001F534"
	emojiBetter    = "\U0001F7E2"
	emojiUnchanged = "⚪"
	emojiNew       = "\U0001F195"
)

// Report is the outcome of a diff run. It renders as a markdown table for
// text and markdown output and as the array of file diffs otherwise.
type Report struct {
	From      string
	To        string
	FromLabel string
	Selectors []Selector
	Files     []FileDiff
}

func (r *Report) RenderData() any {
	if r.Files == nil {
		return []FileDiff{}
	}
	return r.Files
}

func (r *Report) RenderText(w io.Writer, _ bool) error {
	return r.RenderMarkdown(w)
}

func (r *Report) RenderMarkdown(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "## [Mehen](https://github.com/ophidiarium/mehen) Summary (`%s`..`%s`)\n\n", r.From, r.To)

	if len(r.Files) == 0 {
		b.WriteString("No metric changes detected.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString("| File |")
	for _, sel := range r.Selectors {
		fmt.Fprintf(&b, " %s |", sel.Label)
	}
	b.WriteString("\n|---|")
	for range r.Selectors {
		b.WriteString("---:|")
	}
	b.WriteByte('\n')

	for _, fd := range r.Files {
		fmt.Fprintf(&b, "| %s |", fd.Path)
		for _, md := range fd.Metrics {
			fmt.Fprintf(&b, " %s |", FormatCell(md, r.FromLabel))
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatCell renders one metric change, labelling the baseline with the
// name of the from revision.
func FormatCell(md MetricDiff, fromLabel string) string {
	current := FormatNumber(md.Current)

	switch {
	case md.IsNew:
		return current + " " + emojiNew
	case md.IsDeleted:
		return fmt.Sprintf("0 (was: %s) %s", FormatNumber(md.Baseline), TrendEmoji(md.Delta, md.Polarity))
	case md.Delta == 0:
		return current + " " + emojiUnchanged
	}
	return fmt.Sprintf("%s (%s: %s) %s", current, fromLabel, FormatNumber(md.Baseline), TrendEmoji(md.Delta, md.Polarity))
}

// TrendEmoji marks a delta as an improvement, a regression or no change.
func TrendEmoji(delta float64, polarity Polarity) string {
	if delta == 0 {
		return emojiUnchanged
	}
	if (delta > 0) == (polarity == HigherIsBetter) {
		return emojiBetter
	}
	return emojiWorse
}

// FormatNumber prints whole numbers without decimals and anything else
// with two.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
