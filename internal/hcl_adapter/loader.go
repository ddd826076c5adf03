package hcl_adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/buildplan/internal/config"
	"github.com/specialistvlad/buildplan/internal/ctxlog"
	"github.com/specialistvlad/buildplan/internal/fsutil"
)

// BuildFileName is the file that marks a directory as a module.
const BuildFileName = "build.hcl"

// Loader reads build scripts and plugin manifests written in HCL. It keeps
// every parsed file so later diagnostics can quote the source.
type Loader struct {
	mu    sync.Mutex
	files map[string]*hcl.File
}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL build-script loader.
func NewLoader() *Loader {
	return &Loader{files: make(map[string]*hcl.File)}
}

// Discover expands paths into build files. A directory contributes every
// build.hcl below it; a file is taken as is. The result is sorted.
func (l *Loader) Discover(paths ...string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			add(filepath.Clean(path))
			continue
		}
		found, err := fsutil.FindFilesNamed(path, BuildFileName)
		if err != nil {
			return nil, fmt.Errorf("error searching %s for build files: %w", path, err)
		}
		for _, f := range found {
			add(filepath.Clean(f))
		}
	}
	sort.Strings(files)
	return files, nil
}

// LoadModule parses one build file. The module is named after the
// directory holding the file.
func (l *Loader) LoadModule(ctx context.Context, path string) (*config.Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read build file %s: %w", path, err)
	}
	return l.ParseModule(ctx, ModuleName(path), path, src)
}

// ParseModule parses build-script source.
func (l *Loader) ParseModule(ctx context.Context, name, filename string, src []byte) (*config.Module, error) {
	logger := ctxlog.FromContext(ctx).With("module", name)
	logger.Debug("Parsing build file.", "file", filename)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	l.remember(parser)
	if diags.HasErrors() {
		return nil, &DiagnosticsError{Diags: diags, Files: parser.Files()}
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("build file %s: unexpected body type %T", filename, file.Body)
	}

	d := &decoder{}
	d.file(body)
	if d.diags.HasErrors() {
		return nil, &DiagnosticsError{Diags: d.diags, Files: parser.Files()}
	}

	logger.Debug("Build file parsed.", "statements", len(d.stmts))
	return &config.Module{Name: name, Path: filename, Statements: d.stmts}, nil
}

// Sources returns every file parsed so far, keyed by filename.
func (l *Loader) Sources() map[string]*hcl.File {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]*hcl.File, len(l.files))
	for name, f := range l.files {
		out[name] = f
	}
	return out
}

func (l *Loader) remember(parser *hclparse.Parser) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for name, f := range parser.Files() {
		l.files[name] = f
	}
}

// ModuleName derives a module name from the path of its build file.
func ModuleName(path string) string {
	dir := filepath.Dir(path)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	name := filepath.Base(dir)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "app"
	}
	return name
}

func errorDiag(rng hcl.Range, summary, detail string, args ...any) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   fmt.Sprintf(detail, args...),
		Subject:  rng.Ptr(),
	}
}
