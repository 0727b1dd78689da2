// Package linter orchestrates a single parse-once, analyze-twice pass over
// JavaScript source: one go-tree-sitter parse feeding both the scope
// analyzer and the code-path analyzer (spec.md §2 Control flow), the way
// analyzer.Analyzer in the teacher drives a single CST walk and hands the
// resulting model to callers (analyzer/analyzer.go, analyzer/package.go).
// Unlike the teacher's Analyzer, which emits a lineage graph, Linter emits
// only the two read-only side tables spec.md names as the core.
package linter

import (
	"context"
	"fmt"
	"io"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"

	"github.com/viant/jslint/codepath"
	"github.com/viant/jslint/scope"
)

// FileAnalysis is the pair of read-only side tables produced for one
// source file: the whole of the core's external interface (spec.md §6),
// bundled alongside the parse that produced them so a rule body can still
// walk the raw CST (e.g. linter/rules' no-unsafe-finally).
type FileAnalysis struct {
	Path         string
	Tree         *sitter.Tree
	Source       []byte
	ScopeManager *scope.Manager
	CodePaths    *codepath.Set
}

// Linter drives construction. It owns no per-file analysis state of its
// own: once AnalyzeSource returns a FileAnalysis, nothing about it is
// mutated again, carrying scope/codepath's own "becomes read-only"
// contract (spec.md §5) into the orchestrator.
type Linter struct {
	fs        afs.Service
	scopeOpts []scope.Option
	matcher   FileMatcher
}

// NewLinter creates a Linter backed by fs, mirroring analyzer.Analyzer's
// own afs.Service field (analyzer/analyzer.go's NewAnalyzer: fs: afs.New()),
// so sources can be addressed by URL scheme (file://, mem://, s3://, ...)
// instead of only os.ReadFile.
func NewLinter(fs afs.Service, opts ...Option) *Linter {
	l := &Linter{fs: fs, matcher: JSFiles}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// AnalyzeSource parses src and runs both analyzers over the resulting
// tree, path is carried through only for error messages and map keys.
func (l *Linter) AnalyzeSource(path string, src []byte) (*FileAnalysis, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("linter: parse %s: %w", path, err)
	}

	scopeManager, err := scope.Analyze(tree, src, l.scopeOpts...)
	if err != nil {
		return nil, fmt.Errorf("linter: scope analysis %s: %w", path, err)
	}
	codePaths, err := codepath.Analyze(tree, src)
	if err != nil {
		return nil, fmt.Errorf("linter: code-path analysis %s: %w", path, err)
	}

	return &FileAnalysis{Path: path, Tree: tree, Source: src, ScopeManager: scopeManager, CodePaths: codePaths}, nil
}

// AnalyzeFile downloads the source addressed by URL through fs and
// analyzes it, mirroring coder.Coder/analyzer.Analyzer's
// fs.DownloadWithURL usage (inspector/coder/coder.go, analyzer/package.go).
func (l *Linter) AnalyzeFile(ctx context.Context, URL string) (*FileAnalysis, error) {
	content, err := l.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("linter: download %s: %w", URL, err)
	}
	return l.AnalyzeSource(URL, content)
}

// AnalyzeDir walks root through fs, analyzing every file the configured
// matcher accepts, mirroring analyzer.Analyzer.analyzePackages's
// storage.OnVisit walk (analyzer/package.go).
func (l *Linter) AnalyzeDir(ctx context.Context, root string) (map[string]*FileAnalysis, error) {
	out := make(map[string]*FileAnalysis)
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if !l.matcher(info) {
			return false, nil
		}
		if info.IsDir() {
			return true, nil
		}
		fileURL := url.Join(url.Join(baseURL, parent), info.Name())
		analysis, err := l.AnalyzeFile(ctx, fileURL)
		if err != nil {
			return false, err
		}
		out[fileURL] = analysis
		return true, nil
	}
	if err := l.fs.Walk(ctx, root, visitor); err != nil {
		return nil, err
	}
	return out, nil
}
