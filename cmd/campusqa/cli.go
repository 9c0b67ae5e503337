package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/campusqa"
	"github.com/fwojciec/campusqa/crawl"
	"github.com/fwojciec/campusqa/fs"
	"github.com/fwojciec/campusqa/rag"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	State        *fs.StateLog
	Crawler      *crawl.Crawler
	Documents    campusqa.DocumentReader
	Deduplicator campusqa.Deduplicator
	Indexer      *rag.Indexer
	Asker        campusqa.Asker
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  kong.ConfigFlag `help:"Load flag defaults from a JSON file."`
	Verbose bool            `short:"v" env:"CAMPUSQA_VERBOSE" help:"Log every fetch, extraction and model call"`

	Crawl CrawlCmd `cmd:"" help:"Crawl a college website into a text corpus"`
	Dedup DedupCmd `cmd:"" help:"Report near-duplicate documents in the corpus"`
	Index IndexCmd `cmd:"" help:"Chunk, embed and index the corpus"`
	Ask   AskCmd   `cmd:"" help:"Ask a single question about the indexed site"`
	Chat  ChatCmd  `cmd:"" help:"Ask questions interactively"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL         string          `arg:"" help:"Start URL; its host is the crawl domain"`
	Output      string          `short:"o" default:"corpus" env:"CAMPUSQA_OUTPUT" help:"Corpus output directory"`
	StateDir    string          `name:"state" env:"CAMPUSQA_STATE" help:"Directory for visited.log and queue.log (default: parent of the output directory)"`
	Reset       bool            `help:"Forget the persisted crawl state and start over"`
	Sitemap     bool            `help:"Seed the frontier from the site's sitemap"`
	SitemapMax  int             `name:"sitemap-limit" help:"Most URLs taken from the sitemap (0: protocol limit)"`
	Render      bool            `short:"r" help:"Render HTML pages in headless Chrome"`
	Chrome      string          `env:"CAMPUSQA_CHROME" type:"path" help:"Chrome binary for --render (default: detect or download)"`
	Heuristic   string          `default:"trafilatura" enum:"trafilatura,readability" help:"Main-content heuristic for rendered pages (${enum})"`
	Interactive bool            `short:"i" help:"Ask before fetching confirm-listed file types"`
	MaxPages    int             `short:"n" help:"Stop after this many URLs (0: no limit)"`
	Delay       time.Duration   `default:"1s" help:"Minimum delay between requests to the site"`
	Timeout     time.Duration   `short:"t" default:"10s" help:"Request timeout"`
	UserAgent   string          `env:"CAMPUSQA_USER_AGENT" help:"User-Agent header for HTTP requests"`
	RenderWait  time.Duration   `default:"10s" help:"How long to wait for a rendered page body"`
	Retry       []time.Duration `help:"Retry failed fetches after these delays (e.g. 2s,5s)"`
	Ignore      []string        `default:"${ignored}" help:"Extensions skipped without fetching"`
	Confirm     []string        `default:"${confirm}" help:"Extensions that need confirmation in interactive mode"`
}

// DedupFlags configure the near-duplicate filter.
type DedupFlags struct {
	Output    string  `short:"o" default:"corpus" env:"CAMPUSQA_OUTPUT" help:"Corpus directory"`
	Threshold float64 `default:"0.85" help:"Jaccard similarity at which documents count as duplicates"`
	NumPerm   int     `default:"128" help:"MinHash permutations"`
}

// DedupCmd is the "dedup" subcommand.
type DedupCmd struct {
	DedupFlags `embed:""`

	List bool `short:"l" help:"List each removed document"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	DedupFlags `embed:""`

	DB             string `default:"${db}" help:"SQLite database path"`
	NoDedup        bool   `help:"Index every document, skipping near-duplicate removal"`
	ChunkSize      int    `default:"1500" help:"Chunk size in characters"`
	ChunkOverlap   int    `default:"300" help:"Overlap between chunks in characters"`
	BatchSize      int    `default:"100" help:"Chunks per embedding request"`
	Concurrency    int    `short:"c" default:"4" help:"Concurrent embedding requests"`
	EmbeddingModel string `env:"CAMPUSQA_EMBEDDING_MODEL" help:"Gemini embedding model"`
	Dimensions     int32  `help:"Truncate embeddings to this many dimensions (0: model default)"`
}

// AskFlags configure retrieval and generation.
type AskFlags struct {
	DB             string `default:"${db}" help:"SQLite database path"`
	TopK           int    `short:"k" default:"5" help:"Chunks retrieved per question"`
	Model          string `env:"CAMPUSQA_MODEL" help:"Gemini generation model"`
	EmbeddingModel string `env:"CAMPUSQA_EMBEDDING_MODEL" help:"Gemini embedding model; must match the index"`
	Dimensions     int32  `help:"Embedding dimensions; must match the index"`
	Budget         int    `help:"Cap retrieved context at this many tokens (0: no cap)"`
	TokenizerModel string `help:"Model whose tokenizer enforces --budget"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	AskFlags `embed:""`

	Question string `arg:"" help:"Question to ask"`
	Sources  bool   `short:"s" default:"true" negatable:"" help:"Print the source URLs after the answer"`
}

// ChatCmd is the "chat" subcommand.
type ChatCmd struct {
	AskFlags `embed:""`
}
