package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language represents a supported programming language.
type Language string

const (
	LangRust       Language = "rust"
	LangPython     Language = "python"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
	LangGo         Language = "go"
	LangUnknown    Language = "unknown"
)

// Languages lists every supported language in a stable order.
var Languages = []Language{LangRust, LangPython, LangTypeScript, LangTSX, LangGo}

// ParseLanguage converts a user supplied name into a Language.
func ParseLanguage(name string) Language {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rust", "rs":
		return LangRust
	case "python", "py":
		return LangPython
	case "typescript", "ts":
		return LangTypeScript
	case "tsx":
		return LangTSX
	case "go", "golang":
		return LangGo
	default:
		return LangUnknown
	}
}

// Parser wraps tree-sitter for multi-language parsing.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the parsed AST and metadata.
type ParseResult struct {
	Tree     *sitter.Tree
	Language Language
	Source   []byte
	Path     string
}

// Close releases the tree.
func (r *ParseResult) Close() {
	if r != nil && r.Tree != nil {
		r.Tree.Close()
	}
}

// New creates a new parser instance.
func New() *Parser {
	return &Parser{
		parser: sitter.NewParser(),
	}
}

// ParseFile reads a source file, normalizes its line endings and parses it.
// A nil result with a nil error means the file was skipped (empty or binary).
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	source, err := ReadFileWithEOL(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if source == nil {
		return nil, nil
	}

	lang := GuessLanguage(source, path)
	if lang == LangUnknown {
		return nil, fmt.Errorf("unsupported language for file: %s", path)
	}

	return p.Parse(source, lang, path)
}

// Parse parses source code with a specified language.
func (p *Parser) Parse(source []byte, lang Language, path string) (*ParseResult, error) {
	return p.ParseContext(context.Background(), source, lang, path)
}

// ParseContext is Parse with a caller supplied context.
func (p *Parser) ParseContext(ctx context.Context, source []byte, lang Language, path string) (*ParseResult, error) {
	tsLang, err := GetTreeSitterLanguage(lang)
	if err != nil {
		return nil, err
	}

	p.parser.SetLanguage(tsLang)
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	return &ParseResult{
		Tree:     tree,
		Language: lang,
		Source:   source,
		Path:     path,
	}, nil
}

// GetTreeSitterLanguage returns the tree-sitter language for a Language enum.
func GetTreeSitterLanguage(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangGo:
		return golang.GetLanguage(), nil
	case LangRust:
		return rust.GetLanguage(), nil
	case LangPython:
		return python.GetLanguage(), nil
	case LangTypeScript:
		return typescript.GetLanguage(), nil
	case LangTSX:
		return tsx.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// DetectLanguage determines the language from a file path.
func DetectLanguage(path string) Language {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return fromExtension(ext)
}

func fromExtension(ext string) Language {
	switch ext {
	case "rs":
		return LangRust
	case "py":
		return LangPython
	case "tsx":
		return LangTSX
	case "ts", "jsw", "jsmw":
		return LangTypeScript
	case "go":
		return LangGo
	default:
		return LangUnknown
	}
}

// Extensions returns the file extensions handled for a language.
func Extensions(lang Language) []string {
	switch lang {
	case LangRust:
		return []string{"rs"}
	case LangPython:
		return []string{"py"}
	case LangTSX:
		return []string{"tsx"}
	case LangTypeScript:
		return []string{"ts", "jsw", "jsmw"}
	case LangGo:
		return []string{"go"}
	default:
		return nil
	}
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}
