package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/campusqa"
	"github.com/fwojciec/campusqa/crawl"
	"github.com/fwojciec/campusqa/extract"
	"github.com/fwojciec/campusqa/fs"
	"github.com/fwojciec/campusqa/gemini"
	"github.com/fwojciec/campusqa/goquery"
	qahttp "github.com/fwojciec/campusqa/http"
	"github.com/fwojciec/campusqa/minhash"
	"github.com/fwojciec/campusqa/pdf"
	"github.com/fwojciec/campusqa/rag"
	"github.com/fwojciec/campusqa/readability"
	"github.com/fwojciec/campusqa/rod"
	qaslog "github.com/fwojciec/campusqa/slog"
	"github.com/fwojciec/campusqa/sqlite"
	"github.com/fwojciec/campusqa/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stdin feeds confirmation prompts and the chat loop.
	Stdin io.Reader

	// Getenv looks up environment variables. Defaults to os.Getenv.
	Getenv func(string) string

	// ConfigPaths are JSON files consulted for flag defaults.
	ConfigPaths []string

	// SQLite database used by the vector index.
	DB *sqlite.DB

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Stdin:       os.Stdin,
		Getenv:      os.Getenv,
		ConfigPaths: []string{"~/.campusqa/config.json", "campusqa.json"},
	}
}

// Close releases the resources opened by Run in reverse order.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("campusqa"),
		kong.Description("Crawl a college website and answer questions about it"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Configuration(kong.JSON, m.ConfigPaths...),
		kong.Vars{
			"ignored": strings.Join(crawl.DefaultIgnoredExtensions(), ","),
			"confirm": strings.Join(crawl.DefaultConfirmExtensions(), ","),
			"db":      defaultDBPath(m.Getenv),
		},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'campusqa --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	defer m.Close()

	switch kongCtx.Command() {
	case "crawl <url>":
		err = m.wireCrawl(deps, &cli.Crawl, cli.Verbose)
	case "dedup":
		m.wireDedup(deps, &cli.Dedup.DedupFlags)
	case "index":
		err = m.wireIndex(ctx, deps, &cli.Index, cli.Verbose)
	case "ask <question>":
		err = m.wireAsker(ctx, deps, &cli.Ask.AskFlags, cli.Verbose)
	case "chat":
		err = m.wireAsker(ctx, deps, &cli.Chat.AskFlags, cli.Verbose)
	}
	if err != nil {
		return err
	}

	return kongCtx.Run(deps)
}

func (m *Main) wireCrawl(deps *Dependencies, c *CrawlCmd, verbose bool) error {
	stateDir := c.StateDir
	if stateDir == "" {
		stateDir = fs.ParentDir(c.Output)
	}
	deps.State = fs.NewStateLog(stateDir)
	m.closers = append(m.closers, deps.State)

	logf := func(format string, args ...any) {
		deps.Logger.Warn(fmt.Sprintf(format, args...))
	}

	httpOpts := []qahttp.Option{qahttp.WithTimeout(c.Timeout)}
	if c.UserAgent != "" {
		httpOpts = append(httpOpts, qahttp.WithUserAgent(c.UserAgent))
	}
	httpFetcher := qahttp.NewFetcher(httpOpts...)
	var downloader campusqa.Downloader = httpFetcher
	var sitemaps campusqa.SitemapService = qahttp.NewSitemapService(httpFetcher.Client(), qahttp.WithMaxURLs(c.SitemapMax))
	if verbose {
		downloader = qaslog.NewLoggingDownloader(downloader, deps.Logger)
		sitemaps = qaslog.NewLoggingSitemapService(sitemaps, deps.Logger)
	}

	stripper := goquery.NewStripper()
	parser := pdf.NewParser()
	router := &extract.Router{
		HTMLMethod: campusqa.MethodStaticHTML,
		PDF: &extract.PDF{
			Downloader:  downloader,
			Parser:      parser,
			RetryDelays: c.Retry,
			Log:         logf,
		},
		Static: &extract.Static{
			Downloader:  downloader,
			Stripper:    stripper,
			Parser:      parser,
			RetryDelays: c.Retry,
			Log:         logf,
		},
	}

	if c.Render {
		manager, err := rod.NewBrowserManager(rod.WithBin(c.Chrome))
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		var fetcher campusqa.Fetcher = rod.NewFetcher(manager,
			rod.WithFetchTimeout(c.Timeout+c.RenderWait),
			rod.WithRenderWait(c.RenderWait),
		)
		m.closers = append(m.closers, fetcher)
		if verbose {
			fetcher = qaslog.NewLoggingFetcher(fetcher, deps.Logger)
		}

		var content campusqa.ContentExtractor = trafilatura.NewExtractor()
		if c.Heuristic == "readability" {
			content = readability.NewExtractor()
		}

		router.HTMLMethod = campusqa.MethodRenderedHTML
		router.Rendered = &extract.Rendered{
			Fetcher:     fetcher,
			Content:     content,
			Stripper:    stripper,
			RetryDelays: c.Retry,
			Log:         logf,
		}
	}

	var extractor campusqa.Extractor = router
	if verbose {
		extractor = qaslog.NewLoggingExtractor(extractor, deps.Logger)
	}

	crawler := &crawl.Crawler{
		Extractor:   extractor,
		Links:       goquery.NewLinkSelector(),
		Documents:   fs.NewCorpus(c.Output),
		RateLimiter: crawl.NewDomainLimiter(c.Delay),
		Sitemaps:    sitemaps,
	}
	if c.Interactive {
		crawler.Confirmer = NewPromptConfirmer(deps.Stdin, deps.Stdout)
	}
	deps.Crawler = crawler
	return nil
}

func (m *Main) wireDedup(deps *Dependencies, f *DedupFlags) {
	deps.Documents = fs.NewCorpus(f.Output)
	deps.Deduplicator = minhash.NewFilter(f.Threshold, f.NumPerm)
}

func (m *Main) wireIndex(ctx context.Context, deps *Dependencies, c *IndexCmd, verbose bool) error {
	client, err := m.genaiClient(ctx, deps.Stderr)
	if err != nil {
		return err
	}
	store, err := m.openStore(c.DB, deps.Stderr)
	if err != nil {
		return err
	}

	var embedder campusqa.Embedder = gemini.NewEmbedder(client,
		gemini.WithEmbeddingModel(c.EmbeddingModel),
		gemini.WithTaskType(gemini.TaskRetrievalDocument),
		gemini.WithDimensions(c.Dimensions),
	)
	if verbose {
		embedder = qaslog.NewLoggingEmbedder(embedder, deps.Logger)
	}

	m.wireDedup(deps, &c.DedupFlags)
	ix := &rag.Indexer{
		Documents:    deps.Documents,
		Embedder:     embedder,
		Store:        store,
		Deduplicator: deps.Deduplicator,
		ChunkSize:    c.ChunkSize,
		ChunkOverlap: c.ChunkOverlap,
		BatchSize:    c.BatchSize,
		Concurrency:  c.Concurrency,
	}
	if c.NoDedup {
		ix.Deduplicator = nil
	}
	deps.Indexer = ix
	return nil
}

func (m *Main) wireAsker(ctx context.Context, deps *Dependencies, f *AskFlags, verbose bool) error {
	client, err := m.genaiClient(ctx, deps.Stderr)
	if err != nil {
		return err
	}
	store, err := m.openStore(f.DB, deps.Stderr)
	if err != nil {
		return err
	}
	if n, err := store.Count(ctx); err != nil {
		return fmt.Errorf("failed to count chunks: %w", err)
	} else if n == 0 {
		fmt.Fprintln(deps.Stderr, "Hint: Run 'campusqa index' to build the index first")
		return campusqa.Errorf(campusqa.ENOTFOUND, "index at %q is empty", f.DB)
	}

	var embedder campusqa.Embedder = gemini.NewEmbedder(client,
		gemini.WithEmbeddingModel(f.EmbeddingModel),
		gemini.WithTaskType(gemini.TaskRetrievalQuery),
		gemini.WithDimensions(f.Dimensions),
	)
	var generator campusqa.Generator = gemini.NewGenerator(client, f.Model)
	if verbose {
		embedder = qaslog.NewLoggingEmbedder(embedder, deps.Logger)
		generator = qaslog.NewLoggingGenerator(generator, deps.Logger)
	}

	chain := &rag.Chain{
		Embedder:  embedder,
		Store:     store,
		Generator: generator,
		TopK:      f.TopK,
	}
	if f.Budget > 0 {
		tokens, err := gemini.NewTokenCounter(f.TokenizerModel)
		if err != nil {
			return fmt.Errorf("failed to create token counter: %w", err)
		}
		chain.Tokens = tokens
		chain.ContextBudget = f.Budget
	}
	deps.Asker = chain
	return nil
}

func (m *Main) genaiClient(ctx context.Context, stderr io.Writer) (*genai.Client, error) {
	apiKey := m.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, campusqa.Errorf(campusqa.EINVALID, "GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return client, nil
}

func (m *Main) openStore(path string, stderr io.Writer) (*sqlite.ChunkStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, campusqa.Errorf(campusqa.EIO, "create database directory: %w", err)
		}
	}

	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set CAMPUSQA_DB to use a different database path\n")
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.closers = append(m.closers, m.DB)
	return sqlite.NewChunkStore(m.DB), nil
}

func defaultDBPath(getenv func(string) string) string {
	if path := getenv("CAMPUSQA_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "campusqa.db"
	}
	return filepath.Join(home, ".campusqa", "campusqa.db")
}
