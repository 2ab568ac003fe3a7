package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/content"
	"github.com/goliatone/go-catalog/internal/commands"
	catalogcmd "github.com/goliatone/go-catalog/internal/commands/catalog"
)

const usage = `usage: catalog [global flags] <command> [args]

commands:
  search [-kind guides] [-category c] [-matches-only] <query>
  latest [-limit 10] [-language uk]
  get <id>
  locale <code>
  refresh [kind...]
  clear-cache
  stats
`

var errUsage = errors.New("invalid usage")

// Options captures the global flags shared by every command.
type Options struct {
	ConfigPath   string
	SeedsDir     string
	Locale       string
	CacheBackend string
	CacheDir     string
	RemoteURL    string
	Timeout      time.Duration
}

var moduleBuilder = buildModule

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		log.Fatalf("catalog: %v", err)
	}
}

func buildModule(opts Options) (*catalog.Module, error) {
	cfg, err := catalog.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.SeedsDir != "" {
		cfg.Seeds.Dir = opts.SeedsDir
	}
	if opts.Locale != "" {
		cfg.Locale = opts.Locale
	}
	if opts.CacheBackend != "" {
		cfg.Cache.Backend = opts.CacheBackend
	}
	if opts.CacheDir != "" {
		cfg.Cache.Dir = opts.CacheDir
	}
	if opts.RemoteURL != "" {
		cfg.Features.Remote = true
		cfg.Remote.BaseURL = opts.RemoteURL
	}
	return catalog.New(cfg)
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var opts Options
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to a YAML configuration file")
	fs.StringVar(&opts.SeedsDir, "seeds", "", "Directory holding the bundled seed files")
	fs.StringVar(&opts.Locale, "locale", "", "Active locale (defaults to the configured locale)")
	fs.StringVar(&opts.CacheBackend, "cache", "", "Cache backend: memory, file or bun")
	fs.StringVar(&opts.CacheDir, "cache-dir", "", "Directory of the file cache backend")
	fs.StringVar(&opts.RemoteURL, "remote", "", "Base URL of the content API; enables remote fetches")
	fs.DurationVar(&opts.Timeout, "timeout", 2*time.Minute, "Overall command timeout")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("%w: command is required", errUsage)
	}

	module, err := moduleBuilder(opts)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	name, cmdArgs := rest[0], rest[1:]
	if name != "clear-cache" {
		if err := module.Load(ctx); err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
	}

	logger := commands.CommandLogger(module.Container().LoggerProvider(), "cli")
	switch name {
	case "search":
		return runSearch(module, cmdArgs, stdout)
	case "latest":
		return runLatest(module, cmdArgs, stdout)
	case "get":
		return runGet(module, cmdArgs, stdout)
	case "locale":
		if len(cmdArgs) != 1 {
			return fmt.Errorf("%w: locale takes exactly one code", errUsage)
		}
		handler := catalogcmd.NewSwitchLocaleHandler(module.Engine(), logger)
		if err := handler.Execute(ctx, catalogcmd.SwitchLocaleCommand{Locale: cmdArgs[0]}); err != nil {
			return fmt.Errorf("execute locale command: %w", err)
		}
		return writeStats(ctx, module, stdout)
	case "refresh":
		handler := catalogcmd.NewRefreshHandler(module.Engine(), logger)
		if err := handler.Execute(ctx, catalogcmd.RefreshCatalogCommand{Kinds: cmdArgs}); err != nil {
			return fmt.Errorf("execute refresh command: %w", err)
		}
		return writeStats(ctx, module, stdout)
	case "clear-cache":
		handler := catalogcmd.NewClearCacheHandler(module.Engine(), logger)
		if err := handler.Execute(ctx, catalogcmd.ClearCacheCommand{}); err != nil {
			return fmt.Errorf("execute clear-cache command: %w", err)
		}
		fmt.Fprintln(stdout, "cache cleared")
		return nil
	case "stats":
		return writeStats(ctx, module, stdout)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}
}

func runSearch(module *catalog.Module, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	kind := fs.String("kind", string(content.KindGuide), "Content kind to search")
	category := fs.String("category", "", "Restrict results to a category")
	matchesOnly := fs.Bool("matches-only", false, "Drop items that do not match the query")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	parsed, err := content.ParseKind(*kind)
	if err != nil {
		return err
	}
	results := module.Search(catalog.SearchRequest{
		Kind:        parsed,
		Query:       strings.Join(fs.Args(), " "),
		Category:    *category,
		Locale:      module.Language(),
		MatchesOnly: *matchesOnly,
	})
	return writeItems(stdout, results)
}

func runLatest(module *catalog.Module, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("latest", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	limit := fs.Int("limit", 10, "Maximum number of news items")
	language := fs.String("language", "", "Language filter (empty keeps every language)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	news := module.Latest(*limit, *language)
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, item := range news {
		published := ""
		if at := item.Published(); !at.IsZero() {
			published = at.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", item.ID, published, item.LanguageCode, item.Title)
	}
	return w.Flush()
}

func runGet(module *catalog.Module, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: get takes exactly one id", errUsage)
	}
	item, ok := module.Get(content.ParseID(args[0]))
	if !ok {
		return fmt.Errorf("item %q not found", args[0])
	}
	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(item)
}

func writeItems(stdout io.Writer, items []content.Item) error {
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, item := range items {
		meta := item.Metadata()
		text := item.SearchText()
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", meta.ID, meta.LanguageCode, text.Category, text.Title)
	}
	return w.Flush()
}

func writeStats(ctx context.Context, module *catalog.Module, stdout io.Writer) error {
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "locale\t%s\n", module.Language())
	for _, kind := range content.Kinds() {
		origin := "none"
		count := 0
		if snap, ok := module.Snapshot(kind); ok {
			origin = string(snap.Origin)
			count = len(module.ItemsForLocale(kind, ""))
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", kind, module.State(kind), count, origin)
	}
	stats, err := module.CacheStats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "cache\t%d entries\t%d items\t%d bytes\n", stats.Entries, stats.Items, stats.Bytes)
	return w.Flush()
}
