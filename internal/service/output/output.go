package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/panbanda/mehen/internal/output"
)

// Format represents output format.
type Format = output.Format

// Supported formats (re-exported for convenience).
const (
	FormatText     = output.FormatText
	FormatJSON     = output.FormatJSON
	FormatYAML     = output.FormatYAML
	FormatTOML     = output.FormatTOML
	FormatTOON     = output.FormatTOON
	FormatMarkdown = output.FormatMarkdown
)

// ErrNotDir is returned when the output directory is not a directory.
var ErrNotDir = errors.New("output must be a directory")

// Document is the result computed for one source file.
type Document struct {
	Path string
	Data any
}

// Service writes results to stdout, a file or one file per source.
type Service struct {
	format   Format
	writer   io.Writer
	colored  bool
	pretty   bool
	filePath string
	file     *os.File
	dir      string
}

// Option configures a Service.
type Option func(*Service)

// WithFormat sets the output format.
func WithFormat(f Format) Option {
	return func(s *Service) {
		s.format = f
	}
}

// WithWriter sets the output writer.
func WithWriter(w io.Writer) Option {
	return func(s *Service) {
		s.writer = w
	}
}

// WithColor enables or disables colored output.
func WithColor(enabled bool) Option {
	return func(s *Service) {
		s.colored = enabled
	}
}

// WithPretty indents structured formats.
func WithPretty(pretty bool) Option {
	return func(s *Service) {
		s.pretty = pretty
	}
}

// WithFile sets output to a file.
func WithFile(path string) Option {
	return func(s *Service) {
		s.filePath = path
	}
}

// WithDir writes every document of OutputFiles to its own file in dir.
func WithDir(dir string) Option {
	return func(s *Service) {
		s.dir = dir
	}
}

// New creates a new output service.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		format:  FormatText,
		writer:  os.Stdout,
		colored: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.dir != "" {
		info, err := os.Stat(s.dir)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s: %w", s.dir, ErrNotDir)
		}
	}

	if s.filePath != "" {
		f, err := os.Create(s.filePath)
		if err != nil {
			return nil, err
		}
		s.file = f
		s.writer = f
		s.colored = false
	}

	return s, nil
}

// Close closes the output service and any open files.
func (s *Service) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

// Format returns the current format.
func (s *Service) Format() Format {
	return s.format
}

// Writer returns the current writer.
func (s *Service) Writer() io.Writer {
	return s.writer
}

// Colored returns whether output should be colored.
func (s *Service) Colored() bool {
	return s.colored
}

// Output writes data in the configured format.
func (s *Service) Output(data any) error {
	return output.NewWriterFormatter(s.format, s.writer, s.colored).SetPretty(s.pretty).Output(data)
}

// OutputFiles writes per-file results. With an output directory each
// document gets its own file. Otherwise one document is written on its
// own and several as a list.
func (s *Service) OutputFiles(docs []Document) error {
	if s.dir == "" {
		if len(docs) == 1 {
			return s.Output(docs[0].Data)
		}
		data := make([]any, len(docs))
		for i, d := range docs {
			data[i] = d.Data
		}
		return s.Output(data)
	}

	for _, d := range docs {
		if err := s.writeFile(d); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) writeFile(d Document) error {
	path := DocumentPath(s.dir, d.Path, s.format)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = output.NewWriterFormatter(s.format, f, false).SetPretty(s.pretty).Output(d.Data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

var separators = strings.NewReplacer(`\`, "_", ":", "_", "/", "_")

// DocumentPath names the output file of source inside dir: the base name
// plus the format extension, or the whole source path with separators
// turned into underscores when the base name is already taken.
func DocumentPath(dir, source string, format Format) string {
	path := filepath.Join(dir, filepath.Base(source)+format.Extension())
	if _, err := os.Stat(path); err == nil {
		path = filepath.Join(dir, separators.Replace(source)+format.Extension())
	}
	return path
}
