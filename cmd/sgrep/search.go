package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/sgrep/internal/config"
	"github.com/standardbeagle/sgrep/internal/display"
	sgerrors "github.com/standardbeagle/sgrep/internal/errors"
	"github.com/standardbeagle/sgrep/internal/grammar"
	"github.com/standardbeagle/sgrep/internal/search"
	"github.com/standardbeagle/sgrep/internal/types"
	"github.com/standardbeagle/sgrep/internal/walker"
	"github.com/standardbeagle/sgrep/internal/watch"
	"github.com/standardbeagle/sgrep/pkg/pathutil"
)

// searchAction resolves flags and config into one run, executes it, and
// in watch mode keeps rerunning on file changes until interrupted.
func searchAction(c *cli.Context) error {
	queryExpr := c.String("query")

	var pattern, root string
	if queryExpr != "" {
		if c.NArg() > 1 {
			return cli.Exit("sgrep: --query replaces the pattern (usage: sgrep [flags] -q EXPR [PATH])", 2)
		}
		root = c.Args().Get(0)
	} else {
		if c.NArg() == 0 {
			return cli.Exit("sgrep: missing pattern (usage: sgrep [flags] PATTERN [PATH])", 2)
		}
		if c.NArg() > 2 {
			return cli.Exit("sgrep: too many arguments (usage: sgrep [flags] PATTERN [PATH])", 2)
		}
		pattern = c.Args().Get(0)
		root = c.Args().Get(1)
		if pattern == "" {
			return cli.Exit("sgrep: empty pattern", 2)
		}
	}
	if root == "" {
		root = "."
	}

	registry := grammar.Builtin()
	tag, err := selectedLanguage(c)
	if err != nil {
		return cli.Exit("sgrep: "+err.Error(), 2)
	}
	lang, err := registry.ByTag(tag)
	if err != nil {
		if hint := registry.SuggestTag(tag); hint != "" {
			return cli.Exit(fmt.Sprintf("sgrep: unknown language %q (did you mean %q?)", tag, hint), 2)
		}
		return cli.Exit(fmt.Sprintf("sgrep: unknown language %q (known: %s)", tag, strings.Join(registry.Tags(), ", ")), 2)
	}

	cfg, err := config.Load(configRoot(root))
	if err != nil {
		return err
	}

	run, err := buildRun(c, cfg, lang, pattern, queryExpr, root)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run.once(ctx); err != nil {
		var qerr *sgerrors.QueryError
		if errors.As(err, &qerr) {
			return cli.Exit("sgrep: "+qerr.Error(), 2)
		}
		if ctx.Err() != nil {
			return cli.Exit("", 1)
		}
		return err
	}

	if !c.Bool("watch") {
		return nil
	}
	return run.watchLoop(ctx, time.Duration(cfg.Watch.DebounceMs)*time.Millisecond)
}

// selectedLanguage enforces the one-language rule across the boolean
// selector flags and --lang.
func selectedLanguage(c *cli.Context) (string, error) {
	var tags []string
	for _, tag := range languageTags {
		if c.Bool(tag) {
			tags = append(tags, tag)
		}
	}
	if lang := c.String("lang"); lang != "" {
		tags = append(tags, lang)
	}
	switch len(tags) {
	case 0:
		return "", errors.New("no language selected (use --rust, --go, ... or --lang TAG)")
	case 1:
		return tags[0], nil
	default:
		return "", fmt.Errorf("more than one language selected (%s)", strings.Join(tags, ", "))
	}
}

// configRoot picks the directory whose .sgrep.kdl/.sgrep.toml applies: the
// searched directory itself, or the parent of an explicit file argument.
func configRoot(root string) string {
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		return filepath.Dir(root)
	}
	return root
}

// searchRun is one fully resolved invocation, reusable across watch-mode
// reruns.
type searchRun struct {
	lang      *grammar.Language
	root      string
	pattern   string
	queryExpr string
	request   types.SearchRequest
	walker    *walker.Walker
	engine    *search.Engine
	printer   *display.Printer
	excludes  []string
	cwd       string
}

// buildRun layers CLI flags over config defaults. Flag mistakes come back
// as usage errors; everything else is ready to execute.
func buildRun(c *cli.Context, cfg *config.Config, lang *grammar.Language, pattern, queryExpr, root string) (*searchRun, error) {
	kindSpec := cfg.Search.Kinds
	if c.IsSet("kind") {
		kindSpec = c.String("kind")
	}
	cats, err := types.ParseCategorySet(kindSpec)
	if err != nil {
		return nil, cli.Exit("sgrep: "+err.Error(), 2)
	}

	caseMode, err := resolveCaseMode(c, cfg.Search.Case)
	if err != nil {
		return nil, cli.Exit("sgrep: "+err.Error(), 2)
	}

	maxFileSize := cfg.Walk.MaxFileSize
	if c.IsSet("max-file-size") {
		maxFileSize, err = config.ParseSize(c.String("max-file-size"))
		if err != nil {
			return nil, cli.Exit("sgrep: "+err.Error(), 2)
		}
	}

	maxCount := cfg.Search.MaxCount
	if c.IsSet("max-count") {
		maxCount = c.Int("max-count")
	}
	workers := cfg.Search.Workers
	if c.IsSet("workers") {
		workers = c.Int("workers")
	}

	excludes := append([]string(nil), cfg.Walk.Exclude...)
	excludes = append(excludes, c.StringSlice("exclude")...)

	w := walker.New(walker.Options{
		Excludes:        excludes,
		FollowSymlinks:  cfg.Walk.FollowSymlinks || c.Bool("follow-symlinks"),
		DetectArtifacts: cfg.Walk.ArtifactDetection && !c.Bool("no-artifact-detection"),
	})

	engine := search.NewEngine(grammar.Builtin(), search.Options{
		Workers:     workers,
		MaxFileSize: maxFileSize,
	})

	printer := display.NewPrinter(c.App.Writer, c.App.ErrWriter, display.Options{
		NoGroup:    c.Bool("nogroup"),
		ShowColumn: c.Bool("column"),
		NoColor:    c.Bool("nocolor"),
		JSON:       c.Bool("json"),
		NoTruncate: c.Bool("no-truncate"),
	})

	cwd, _ := os.Getwd()

	return &searchRun{
		lang:      lang,
		root:      root,
		pattern:   pattern,
		queryExpr: queryExpr,
		request: types.SearchRequest{
			Pattern:       pattern,
			Categories:    cats,
			CaseSensitive: caseMode.Resolve(pattern),
			WholeWord:     cfg.Search.WholeWord || c.Bool("word"),
			MaxPerFile:    maxCount,
		},
		walker:   w,
		engine:   engine,
		printer:  printer,
		excludes: excludes,
		cwd:      cwd,
	}, nil
}

func resolveCaseMode(c *cli.Context, configured string) (types.CaseMode, error) {
	if c.Bool("sensitive") && c.Bool("insensitive") {
		return 0, errors.New("-s and -S are mutually exclusive")
	}
	if c.Bool("sensitive") {
		return types.CaseSensitive, nil
	}
	if c.Bool("insensitive") {
		return types.CaseInsensitive, nil
	}
	return types.ParseCaseMode(configured)
}

// once executes a single discover-search-print cycle.
func (r *searchRun) once(ctx context.Context) error {
	start := time.Now()

	tasks, walkWarnings, err := r.walker.Discover(ctx, r.root, r.lang)
	if err != nil {
		return err
	}

	var result *types.Result
	if r.queryExpr != "" {
		result, err = r.engine.QuerySearch(ctx, r.queryExpr, tasks)
	} else {
		result, err = r.engine.Search(ctx, r.request, tasks)
	}
	if err != nil {
		return err
	}

	query, highlight := r.pattern, len(r.pattern)
	if r.queryExpr != "" {
		query, highlight = r.queryExpr, 0
	}

	warnings := append(walkWarnings, result.Warnings...)
	report := &display.Report{
		Query:         query,
		Language:      r.lang.Tag,
		CaseSensitive: r.request.CaseSensitive,
		Count:         len(result.Matches),
		TimeMs:        time.Since(start).Milliseconds(),
		Matches:       pathutil.ToRelativeMatches(result.Matches, r.cwd),
		Warnings:      pathutil.ToRelativeWarnings(warnings, r.cwd),
		Highlight:     highlight,
	}
	return r.printer.Print(report)
}

// watchLoop reruns the search on every debounced change signal until the
// context is canceled. Cancellation is the normal way out, so it exits
// clean.
func (r *searchRun) watchLoop(ctx context.Context, debounce time.Duration) error {
	w, err := watch.New(watchRoot(r.root), watch.Options{
		Debounce:   debounce,
		Extensions: r.lang.Extensions(),
		Excludes:   r.excludes,
	})
	if err != nil {
		return err
	}
	w.Start(ctx)
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.Changes():
			r.printer.Separator()
			if err := r.once(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

// watchRoot maps a file argument to its parent directory so editors that
// save via rename still produce events.
func watchRoot(root string) string {
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		return filepath.Dir(root)
	}
	return root
}
