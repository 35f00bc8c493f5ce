package security

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/teemow/scriptsync/internal/logging"
)

// maxScanSize bounds the size of a scanned source file.
const maxScanSize = 1 << 20

// skipDirs are never descended into while scanning sources.
var skipDirs = []string{".git", "node_modules", "vendor"}

// Auditor runs the security checks against a directory.
type Auditor struct {
	root           string
	sensitiveFiles []string
	sourcePatterns []string
	listGitFiles   GitLister
	logger         logging.Logger
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithGitLister replaces the git ls-files call.
func WithGitLister(l GitLister) Option {
	return func(a *Auditor) {
		a.listGitFiles = l
	}
}

// WithSourcePatterns replaces SourcePatterns.
func WithSourcePatterns(patterns ...string) Option {
	return func(a *Auditor) {
		a.sourcePatterns = patterns
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(a *Auditor) {
		a.logger = logger
	}
}

// NewAuditor creates an Auditor for root.
func NewAuditor(root string, opts ...Option) *Auditor {
	a := &Auditor{
		root:           root,
		sensitiveFiles: SensitiveFiles,
		sourcePatterns: SourcePatterns,
		listGitFiles:   gitLsFiles,
		logger:         logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes all checks.
func (a *Auditor) Run(ctx context.Context) *Report {
	return &Report{Results: []CheckResult{
		a.checkGitignore(),
		a.checkGitTracking(ctx),
		a.checkSources(),
		a.checkPermissions(),
	}}
}

func (a *Auditor) checkGitignore() CheckResult {
	res := CheckResult{Name: CheckGitignore, Status: StatusPass}

	b, err := os.ReadFile(filepath.Join(a.root, ".gitignore"))
	if err != nil {
		res.Status = StatusFail
		res.Issues = append(res.Issues, fmt.Sprintf("cannot read .gitignore: %v", err))
		return res
	}

	ignore := gitignore.CompileIgnoreLines(strings.Split(string(b), "\n")...)
	for _, name := range a.sensitiveFiles {
		if !ignore.MatchesPath(name) {
			res.Status = StatusFail
			res.Issues = append(res.Issues, fmt.Sprintf("%s is not ignored", name))
		}
	}

	return res
}

func (a *Auditor) checkGitTracking(ctx context.Context) CheckResult {
	res := CheckResult{Name: CheckGitTracking, Status: StatusPass}

	tracked, err := a.listGitFiles(ctx, a.root)
	if err != nil {
		res.Status = StatusWarn
		if errors.Is(err, ErrGitUnavailable) {
			res.Issues = append(res.Issues, "git not available, tracking not checked")
		} else {
			res.Issues = append(res.Issues, err.Error())
		}
		return res
	}

	for _, p := range tracked {
		if slices.Contains(a.sensitiveFiles, path.Base(p)) {
			res.Status = StatusFail
			res.Issues = append(res.Issues, fmt.Sprintf("%s is tracked by git, remove it with: git rm --cached %s", p, p))
		}
	}

	return res
}

func (a *Auditor) checkSources() CheckResult {
	res := CheckResult{Name: CheckSource, Status: StatusPass}

	err := filepath.WalkDir(a.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(a.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && (slices.Contains(skipDirs, d.Name()) || strings.HasPrefix(d.Name(), "_")) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasSuffix(rel, "_test.go") || !a.isSource(rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > maxScanSize {
			a.logger.Warn("skipping large file", logging.File(rel), "size", humanize.Bytes(uint64(info.Size())))
			return nil
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}

		for _, name := range findSecrets(content) {
			res.Status = StatusFail
			res.Issues = append(res.Issues, fmt.Sprintf("%s may contain a hard-coded %s", rel, name))
		}
		return nil
	})
	if err != nil {
		res.Status = StatusFail
		res.Issues = append(res.Issues, fmt.Sprintf("scan failed: %v", err))
	}

	return res
}

func (a *Auditor) isSource(rel string) bool {
	for _, pattern := range a.sourcePatterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (a *Auditor) checkPermissions() CheckResult {
	res := CheckResult{Name: CheckPermissions, Status: StatusPass}
	if runtime.GOOS == "windows" {
		return res
	}

	for _, name := range a.sensitiveFiles {
		info, err := os.Stat(filepath.Join(a.root, name))
		if err != nil {
			continue
		}
		if perm := info.Mode().Perm(); perm&0o007 != 0 {
			res.Status = StatusWarn
			res.Issues = append(res.Issues, fmt.Sprintf("%s is accessible by other users (%04o), run: chmod 600 %s", name, perm, name))
		}
	}

	return res
}
