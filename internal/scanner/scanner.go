package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/autodoc-ai/ragpipe/pkg/types"
)

// DefaultMaxFileSize caps individual file reads at 1 MiB.
const DefaultMaxFileSize = 1 << 20

// DefaultIncludeExtensions lists the source, doc, and config extensions
// scanned when the caller does not supply an explicit set.
var DefaultIncludeExtensions = []string{
	".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs",
	".py", ".go", ".java", ".rb", ".rs", ".php", ".cs", ".swift", ".kt",
	".c", ".h", ".cpp", ".hpp",
	".md", ".mdx", ".txt",
	".yaml", ".yml", ".json", ".toml",
}

// DefaultExcludeGlobs are always applied in addition to caller-supplied
// exclusions.
var DefaultExcludeGlobs = []string{
	"node_modules/**", ".git/**", "dist/**", "build/**",
	".next/**", "out/**", ".turbo/**", ".cache/**",
}

// defaultSkipDirs are pruned from the walk entirely so large dependency
// trees are never descended into.
var defaultSkipDirs = map[string]bool{
	"node_modules": true, ".git": true, "dist": true, "build": true,
	".next": true, "out": true, ".turbo": true, ".cache": true,
}

// Options configures a scan. Zero values select the defaults.
type Options struct {
	IncludeExtensions []string
	ExcludeGlobs      []string
	MaxFileSize       int64

	// DisableGitignore skips loading the project's root .gitignore.
	DisableGitignore bool
}

// Report counts what a scan did besides returning files.
type Report struct {
	Scanned         int
	SkippedExcluded int
	SkippedSize     int
	SkippedErrors   int
}

// Scanner discovers project files. It only reads the filesystem and
// never writes.
type Scanner struct {
	opts Options
	log  *slog.Logger
}

// New creates a Scanner with defaults applied to the given options.
// Malformed exclude globs are rejected here so they cannot silently
// stop matching during the walk.
func New(opts Options) (*Scanner, error) {
	if len(opts.IncludeExtensions) == 0 {
		opts.IncludeExtensions = DefaultIncludeExtensions
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	for _, pattern := range opts.ExcludeGlobs {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude glob %q", pattern)
		}
	}
	opts.ExcludeGlobs = append(append([]string{}, DefaultExcludeGlobs...), opts.ExcludeGlobs...)

	return &Scanner{
		opts: opts,
		log:  slog.Default(),
	}, nil
}

// Scan walks rootDir and returns every readable, included file as a
// ProjectFile, in lexical walk order. A failure to read the root itself
// is fatal; per-file failures are counted in the report and skipped.
func (s *Scanner) Scan(ctx context.Context, rootDir string) ([]types.ProjectFile, *Report, error) {
	if rootDir == "" {
		return nil, nil, types.ErrMissingRootDir
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve root dir: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("stat root dir: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("root path %s is not a directory", absRoot)
	}

	ignorer := s.loadGitignore(absRoot)
	extSet := make(map[string]bool, len(s.opts.IncludeExtensions))
	for _, ext := range s.opts.IncludeExtensions {
		extSet[strings.ToLower(ext)] = true
	}

	var files []types.ProjectFile
	report := &Report{}

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if walkErr != nil {
			report.SkippedErrors++
			return nil
		}

		relPath, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			report.SkippedErrors++
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if relPath == "." {
				return nil
			}
			if defaultSkipDirs[d.Name()] {
				return filepath.SkipDir
			}
			if ignorer != nil && ignorer.MatchesPath(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !extSet[strings.ToLower(filepath.Ext(relPath))] {
			report.SkippedExcluded++
			return nil
		}
		if s.excluded(relPath) {
			report.SkippedExcluded++
			return nil
		}
		if ignorer != nil && ignorer.MatchesPath(relPath) {
			report.SkippedExcluded++
			return nil
		}

		fileInfo, statErr := d.Info()
		if statErr != nil {
			report.SkippedErrors++
			s.log.Debug("skipping unreadable file", "path", relPath, "error", statErr)
			return nil
		}
		if !fileInfo.Mode().IsRegular() {
			report.SkippedExcluded++
			return nil
		}
		if fileInfo.Size() > s.opts.MaxFileSize {
			report.SkippedSize++
			s.log.Debug("skipping oversized file", "path", relPath, "size", fileInfo.Size())
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			report.SkippedErrors++
			s.log.Debug("skipping unreadable file", "path", relPath, "error", readErr)
			return nil
		}

		files = append(files, types.ProjectFile{
			AbsolutePath: path,
			RelativePath: relPath,
			Size:         fileInfo.Size(),
			Content:      string(content),
		})
		report.Scanned++
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return files, report, nil
}

// excluded checks caller and default exclusion globs against a relative
// path. Patterns were validated in New, so Match cannot fail here.
func (s *Scanner) excluded(relPath string) bool {
	for _, pattern := range s.opts.ExcludeGlobs {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

// loadGitignore compiles the root .gitignore if present and enabled.
// A missing or unreadable ignore file disables ignore matching.
func (s *Scanner) loadGitignore(absRoot string) *gitignore.GitIgnore {
	if s.opts.DisableGitignore {
		return nil
	}
	ignorer, err := gitignore.CompileIgnoreFile(filepath.Join(absRoot, ".gitignore"))
	if err != nil {
		return nil
	}
	return ignorer
}
