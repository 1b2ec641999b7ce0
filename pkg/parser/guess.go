package parser

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/src-d/enry/v2"
)

// Editor mode lines carry the language of files without a usable extension.
var (
	emacsModeRe  = regexp.MustCompile(`(?i)-\*-.*[^-\w]mode\s*:\s*([^:;\s]+)`)
	emacsShortRe = regexp.MustCompile(`-\*-\s*([^:;\s]+)\s*-\*-`)
	vimModeRe    = regexp.MustCompile(`(?i)vim\s*:.*[^\w]ft\s*=\s*([^:\s]+)`)
)

const modeLineWindow = 4

// GuessLanguage resolves the language of source from its path extension,
// then from emacs or vim mode lines, then from a shebang interpreter.
func GuessLanguage(source []byte, path string) Language {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if lang := fromExtension(ext); lang != LangUnknown {
		return lang
	}
	if lang := fromEditorMode(EditorMode(source)); lang != LangUnknown {
		return lang
	}
	if name, safe := enry.GetLanguageByShebang(source); safe {
		return fromEditorMode(strings.ToLower(name))
	}
	return LangUnknown
}

// EditorMode returns the lower-cased mode declared by an emacs or vim mode
// line. The first four lines are searched for any form, the last four for
// the vim form only.
func EditorMode(source []byte) string {
	lines := bytes.SplitN(source, []byte{'\n'}, modeLineWindow+1)
	for i, line := range lines {
		if i == modeLineWindow {
			break
		}
		for _, re := range []*regexp.Regexp{emacsModeRe, emacsShortRe, vimModeRe} {
			if m := re.FindSubmatch(line); m != nil {
				return strings.ToLower(string(m[1]))
			}
		}
	}

	tail := source
	for i := 0; i < modeLineWindow; i++ {
		idx := bytes.LastIndexByte(tail, '\n')
		line := tail[idx+1:]
		if m := vimModeRe.FindSubmatch(line); m != nil {
			return strings.ToLower(string(m[1]))
		}
		if idx < 0 {
			break
		}
		tail = tail[:idx]
	}
	return ""
}

func fromEditorMode(mode string) Language {
	switch mode {
	case "rust":
		return LangRust
	case "python":
		return LangPython
	case "typescript":
		return LangTypeScript
	case "go":
		return LangGo
	default:
		return LangUnknown
	}
}
