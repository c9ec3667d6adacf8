// Package runner executes lint runs over a Hansl project. It coordinates
// script scanning, rule execution, result caching, and baseline filtering,
// and records run history in the state store.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hansl-tools/hanslint/internal/baseline"
	"github.com/hansl-tools/hanslint/internal/state"
	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/parser"
)

// Options configures a lint run.
type Options struct {
	// Root is the project root. Report paths are made relative to it.
	Root string
	// ScriptsDir is the directory scanned for scripts.
	ScriptsDir string
	// Config is the rule configuration (nil for defaults).
	Config *lint.Config
	// ProjectConfig holds thresholds for project-level rules and the
	// accepted script extensions used during discovery.
	ProjectConfig lint.ProjectConfig
	// Store caches per-file results and records run history (optional).
	Store state.Store
	// Baseline suppresses previously recorded findings (optional).
	Baseline *baseline.Baseline
	// Version participates in the cache key, so upgrading the linter
	// re-lints everything.
	Version string
	// Concurrency bounds parallel file linting (0 uses all CPUs).
	Concurrency int
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Runner executes lint runs.
type Runner struct {
	opts      Options
	logger    *slog.Logger
	analyzer  *lint.Analyzer
	rulesHash string
}

// New creates a runner. The rule set is fingerprinted once here, so
// plugin rules must be registered before the runner is constructed.
func New(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}
	if len(opts.ProjectConfig.ScriptExtensions) == 0 {
		opts.ProjectConfig.ScriptExtensions = lint.DefaultProjectConfig().ScriptExtensions
	}

	return &Runner{
		opts:      opts,
		logger:    logger,
		analyzer:  lint.NewAnalyzer(opts.Config),
		rulesHash: state.RulesHash(opts.Version, ruleFingerprints(), opts.Config),
	}
}

// RulesHash returns the fingerprint of the effective rule set. Cached
// results are only reused while it stays the same.
func (r *Runner) RulesHash() string {
	return r.rulesHash
}

// FileReport is the outcome of linting one script.
type FileReport struct {
	Path        string // relative to the project root
	Script      *parser.Script
	Diagnostics []lint.Diagnostic // sorted, after baseline filtering
	Suppressed  []lint.Diagnostic // dropped by the baseline
	FromCache   bool
}

// FileError is a non-fatal per-file failure, such as an unreadable file.
type FileError struct {
	Path    string
	Message string
}

// Result aggregates a completed lint run.
type Result struct {
	RunID    string
	Files    []*FileReport
	Errors   []FileError
	Summary  state.RunSummary
	Stale    int // baseline entries that matched nothing
	Duration time.Duration
}

// HasErrors reports whether any file failed to lint.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// TotalSuppressed returns how many findings the baseline dropped.
func (r *Result) TotalSuppressed() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Suppressed)
	}
	return n
}

// Run discovers scripts under ScriptsDir and lints them.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	files, err := Discover(r.opts.ScriptsDir, r.opts.ProjectConfig.ScriptExtensions)
	if err != nil {
		return nil, err
	}
	return r.LintFiles(ctx, files)
}

// LintFiles lints the given script files. Files lint in parallel; the
// project-level rules and the baseline apply once all files are in.
func (r *Runner) LintFiles(ctx context.Context, paths []string) (*Result, error) {
	start := time.Now()
	result := &Result{}

	r.logger.Info("starting lint run", "files", len(paths))

	if r.opts.Store != nil {
		run, err := r.opts.Store.BeginRun()
		if err != nil {
			r.logger.Warn("failed to record run start", "error", err)
		} else {
			result.RunID = run.ID
		}
	}

	reports := make([]*FileReport, len(paths))
	fileErrs := make([]*FileError, len(paths))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.opts.Concurrency)

	for i, path := range paths {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			reports[i], fileErrs[i] = r.lintFile(path)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return result, err
	}

	for _, report := range reports {
		if report != nil {
			result.Files = append(result.Files, report)
		}
	}
	for _, fe := range fileErrs {
		if fe != nil {
			result.Errors = append(result.Errors, *fe)
		}
	}

	r.applyProjectRules(result)
	r.applyBaseline(result)

	result.Summary = summarize(result.Files)
	result.Duration = time.Since(start)

	if r.opts.Store != nil && result.RunID != "" {
		if err := r.opts.Store.CompleteRun(result.RunID, result.Summary); err != nil {
			r.logger.Warn("failed to record run completion", "error", err)
		}
	}

	r.logger.Info("lint run completed",
		"files", result.Summary.FilesAnalyzed,
		"issues", result.Summary.TotalIssues,
		"duration_ms", result.Duration.Milliseconds())

	return result, nil
}

// lintFile scans and lints one file, consulting the result cache. The
// script is scanned even on a cache hit because project-level rules
// re-run every time.
func (r *Runner) lintFile(path string) (*FileReport, *FileError) {
	relPath := r.displayPath(path)

	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from discovery or the CLI arguments
	if err != nil {
		return nil, &FileError{Path: relPath, Message: fmt.Sprintf("failed to read file: %v", err)}
	}

	contentHash := state.ContentHash(data)
	script := parser.ScanScript(relPath, string(data))

	if r.opts.Store != nil {
		cached, err := r.opts.Store.CachedResult(relPath, contentHash, r.rulesHash)
		if err != nil {
			r.logger.Warn("cache lookup failed", "path", relPath, "error", err)
		} else if cached != nil {
			r.logger.Debug("using cached result", "path", relPath)
			return &FileReport{
				Path:        relPath,
				Script:      script,
				Diagnostics: cached.Diagnostics,
				FromCache:   true,
			}, nil
		}
	}

	diags := r.analyzer.Analyze(script)

	if r.opts.Store != nil {
		res := &state.FileResult{
			Path:        relPath,
			ContentHash: contentHash,
			RulesHash:   r.rulesHash,
			Diagnostics: diags,
		}
		if err := r.opts.Store.SaveResult(res); err != nil {
			r.logger.Warn("failed to cache result", "path", relPath, "error", err)
		}
	}

	r.logger.Debug("linted file", "path", relPath, "issues", len(diags))
	return &FileReport{Path: relPath, Script: script, Diagnostics: diags}, nil
}

// applyProjectRules runs project-level rules over all scanned scripts
// and merges their findings into the per-file reports.
func (r *Runner) applyProjectRules(result *Result) {
	if len(result.Files) == 0 {
		return
	}

	byPath := make(map[string]*FileReport, len(result.Files))
	scripts := make([]*parser.Script, 0, len(result.Files))
	for _, f := range result.Files {
		byPath[f.Path] = f
		scripts = append(scripts, f.Script)
	}

	pctx := &projectContext{
		scripts: scripts,
		root:    r.opts.Root,
		config:  r.opts.ProjectConfig,
	}
	for _, d := range r.analyzer.AnalyzeProject(pctx) {
		f, ok := byPath[d.FilePath]
		if !ok {
			f = &FileReport{Path: d.FilePath}
			byPath[d.FilePath] = f
			result.Files = append(result.Files, f)
		}
		f.Diagnostics = append(f.Diagnostics, d)
	}

	for _, f := range result.Files {
		lint.SortDiagnostics(f.Diagnostics)
	}
}

// applyBaseline drops findings recorded in the baseline.
func (r *Runner) applyBaseline(result *Result) {
	b := r.opts.Baseline
	if b.Len() == 0 {
		return
	}

	for _, f := range result.Files {
		kept, suppressed := b.Filter(f.Path, f.Script, f.Diagnostics)
		f.Diagnostics = kept
		f.Suppressed = suppressed
	}

	result.Stale = b.Remaining()
	if result.Stale > 0 {
		r.logger.Debug("baseline has stale entries", "count", result.Stale)
	}
}

// displayPath makes a path relative to the project root when possible.
func (r *Runner) displayPath(path string) string {
	if r.opts.Root == "" {
		return path
	}
	rel, err := filepath.Rel(r.opts.Root, path)
	if err != nil {
		return path
	}
	return rel
}

func summarize(files []*FileReport) state.RunSummary {
	summary := state.RunSummary{FilesAnalyzed: len(files)}
	for _, f := range files {
		for _, d := range f.Diagnostics {
			summary.TotalIssues++
			switch d.Severity {
			case lint.SeverityError:
				summary.Errors++
			case lint.SeverityWarning:
				summary.Warnings++
			case lint.SeverityInfo:
				summary.Info++
			case lint.SeverityHint:
				summary.Hints++
			}
		}
	}
	return summary
}

// projectContext supplies scanned scripts to project-level rules.
type projectContext struct {
	scripts []*parser.Script
	root    string
	config  lint.ProjectConfig
}

func (p *projectContext) Scripts() []*parser.Script { return p.scripts }

func (p *projectContext) Root() string { return p.root }

func (p *projectContext) Config() lint.ProjectConfig { return p.config }

type fingerprinter interface {
	Fingerprint() string
}

// ruleFingerprints identifies the registered rules for cache keying.
// Plugin rules fingerprint their source content, so editing a plugin
// file invalidates cached results even though the rule ID is unchanged.
func ruleFingerprints() []string {
	infos := lint.AllRules()
	prints := make([]string, 0, len(infos))
	for _, info := range infos {
		if rule, ok := lint.GetRuleByID(info.ID); ok {
			if fp, ok := rule.(fingerprinter); ok {
				prints = append(prints, fp.Fingerprint())
				continue
			}
		}
		prints = append(prints, info.ID)
	}
	return prints
}
