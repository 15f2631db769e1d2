// Package main is the shirabe CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/shirabe/internal/cli"
	"github.com/hyperjump/shirabe/internal/config"
	"github.com/hyperjump/shirabe/internal/embedding"
	"github.com/hyperjump/shirabe/internal/eval"
	"github.com/hyperjump/shirabe/internal/extract"
	"github.com/hyperjump/shirabe/internal/ingest"
	"github.com/hyperjump/shirabe/internal/models"
	"github.com/hyperjump/shirabe/internal/retrieval"
	"github.com/hyperjump/shirabe/internal/server"
	"github.com/hyperjump/shirabe/internal/storage"
	"github.com/hyperjump/shirabe/internal/vector"
	"github.com/hyperjump/shirabe/internal/watcher"
	"github.com/hyperjump/shirabe/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/shirabe/config.yaml"

// loadConfig loads config from path. When path is the default, a config.yaml
// in the current directory takes precedence so running from the project dir
// picks up the project's config.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "query":
		runQuery()
	case "ingest":
		runIngest()
	case "validate":
		runValidate()
	case "eval":
		runEval()
	case "delete":
		runDelete()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("shirabe version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	var watchSvc *watcher.Watcher
	if len(cfg.Watch.Directories) > 0 {
		ing := components.Ingestor
		watchSvc = watcher.NewWatcher(
			cfg.Watch.Directories,
			cfg.Watch.Extensions,
			cfg.Watch.RecursiveOrDefault(),
			func(path string) {
				if err := ing.IngestFile(context.Background(), path); err != nil {
					logger.Warn("watch ingest failed", zap.String("path", path), zap.Error(err))
				}
			},
			func(path string) {
				doc, err := components.Storage.GetDocumentBySourcePath(context.Background(), path)
				if err != nil {
					logger.Warn("watch remove lookup failed", zap.String("path", path), zap.Error(err))
					return
				}
				if err := ing.DeleteDocument(context.Background(), doc.ID); err != nil {
					logger.Warn("watch delete failed", zap.String("doc_id", doc.ID), zap.Error(err))
				}
			},
			logger,
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		watchSvc.SyncExistingFiles()
	}

	srv := server.NewServer(
		components.Pipeline,
		components.Ingestor,
		components.Storage,
		components.VectorIndex,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if cfg.Storage.VectorIndexPath != "" {
		if err := components.VectorIndex.Save(cfg.Storage.VectorIndexPath); err != nil {
			logger.Warn("vector index save failed", zap.String("path", cfg.Storage.VectorIndexPath), zap.Error(err))
		}
	}
	if watchSvc != nil {
		watchSvc.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// queryArgsReorder moves flags that appear after the query to the front so
// flag.Parse sees them. The flag package stops at the first non-flag argument.
func queryArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func printQueryUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: shirabe query [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  shirabe query how do I restart the payments gateway
  shirabe query --top-k 10 "database migration standard"
  shirabe query --system billing-service --output json "retry policy"
  shirabe query --exclude-types TMP,PM "incident escalation"
`)
}

func runQuery() {
	queryArgs := queryArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("query", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage when server is not running)")
	topK := fs.Int("top-k", 0, "number of results (0 = config default)")
	pool := fs.Int("pool", 0, "candidate pool size (0 = config default)")
	system := fs.String("system", "", "target system for the system-match boost")
	excludeTypes := fs.String("exclude-types", "", "comma-separated doc types to exclude (e.g. TMP,PM)")
	excludeStatuses := fs.String("exclude-statuses", "", "comma-separated statuses to exclude (default: withdrawn)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printQueryUsage(fs) }
	_ = fs.Parse(queryArgs)

	queryStr := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if queryStr == "" {
		printQueryUsage(fs)
		os.Exit(1)
	}

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "text":
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	req := &models.RetrieveRequest{
		Query:         queryStr,
		TopK:          *topK,
		CandidatePool: *pool,
		TargetSystem:  *system,
	}
	for _, t := range splitList(*excludeTypes) {
		req.ExcludedDocTypes = append(req.ExcludedDocTypes, models.DocType(t))
	}
	for _, s := range splitList(*excludeStatuses) {
		req.ExcludedStatuses = append(req.ExcludedStatuses, models.Status(s))
	}

	if *serverURL != "" {
		response, err := retrieveViaHTTP(*serverURL, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteResults(os.Stdout, response, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	if req.TopK == 0 {
		req.TopK = cfg.Retrieval.DefaultTopK
	}
	if req.CandidatePool == 0 {
		req.CandidatePool = cfg.Retrieval.CandidatePool
	}

	response, err := components.Pipeline.Retrieve(context.Background(), req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func retrieveViaHTTP(serverURL string, req *models.RetrieveRequest) (*models.RetrieveResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/retrieve", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.RetrieveResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	strict := fs.Bool("strict", false, "abort files with validation errors")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *strict {
		cfg.Ingest.StrictValidation = true
	}
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	path := cfg.Ingest.CorpusDir
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	ctx := context.Background()
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Failed to stat path: %v\n", err)
		os.Exit(1)
	}
	if info.IsDir() {
		stats, err := components.Ingestor.IngestDirectory(ctx, path)
		if err != nil {
			fmt.Printf("Ingestion failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Run %s: %d files, %d documents ingested, %d failed\n",
			stats.RunID, stats.Files, stats.Documents, stats.Failed)
	} else {
		if err := components.Ingestor.IngestFile(ctx, path); err != nil {
			fmt.Printf("Ingestion failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Ingested %s\n", path)
	}

	if cfg.Storage.VectorIndexPath != "" {
		if err := components.VectorIndex.Save(cfg.Storage.VectorIndexPath); err != nil {
			fmt.Printf("Warning: vector index save failed: %v\n", err)
		}
	}
}

func runValidate() {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	var path string
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Printf("Failed to load config: %v\n", err)
			os.Exit(1)
		}
		path = cfg.Ingest.CorpusDir
	}

	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Failed to stat path: %v\n", err)
		os.Exit(1)
	}

	var issues []ingest.Issue
	checked := 0
	validateOne := func(p string) error {
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		checked++
		issues = append(issues, ingest.ValidateFile(p, string(data))...)
		return nil
	}
	if info.IsDir() {
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			if strings.ToLower(filepath.Ext(p)) != ".md" {
				return nil
			}
			return validateOne(p)
		})
	} else {
		err = validateOne(path)
	}
	if err != nil {
		fmt.Printf("Validation failed: %v\n", err)
		os.Exit(1)
	}

	errors := cli.WriteIssues(os.Stdout, issues)
	fmt.Printf("\n%d files checked, %d errors, %d warnings\n", checked, errors, len(issues)-errors)
	if errors > 0 {
		os.Exit(1)
	}
}

func runEval() {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	topK := fs.Int("top-k", 5, "results to grade against")
	pool := fs.Int("pool", 30, "candidate pool size")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: shirabe eval [flags] <questions.jsonl>")
		os.Exit(1)
	}
	casesPath := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	cases, err := eval.LoadCases(casesPath)
	if err != nil {
		fmt.Printf("Failed to load cases: %v\n", err)
		os.Exit(1)
	}

	runner := eval.NewRunner(components.Pipeline, *topK, *pool)
	summary, err := runner.Run(context.Background(), cases)
	if err != nil {
		fmt.Printf("Evaluation failed: %v\n", err)
		os.Exit(1)
	}
	cli.WriteEvalSummary(os.Stdout, summary)
	if summary.Failed() {
		os.Exit(1)
	}
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: shirabe delete [flags] <document-id>")
		os.Exit(1)
	}
	docID := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	if err := components.Ingestor.DeleteDocument(context.Background(), docID); err != nil {
		fmt.Printf("Deletion failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Document deleted: %s\n", docID)
}

// statusResponse is the shape of GET /api/v1/status.
type statusResponse struct {
	Documents       int64                  `json:"documents"`
	Chunks          int64                  `json:"chunks"`
	VectorIndexSize int                    `json:"vector_index_size"`
	Config          map[string]interface{} `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()
		ctx := context.Background()
		docCount, err := components.Storage.CountDocuments(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count documents failed: %v\n", err)
			os.Exit(1)
		}
		chunkCount, err := components.Storage.CountChunks(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count chunks failed: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{
			Documents:       docCount,
			Chunks:          chunkCount,
			VectorIndexSize: components.VectorIndex.Size(),
			Config: map[string]interface{}{
				"vector_index_type":    cfg.Storage.VectorIndexType,
				"embedding_type":       cfg.Embedding.Type,
				"embedding_dimensions": cfg.Embedding.Dimensions,
				"chunk_size":           cfg.Ingest.ChunkSize,
				"chunk_overlap":        cfg.Ingest.ChunkOverlap,
				"database_path":        cfg.Storage.DatabasePath,
			},
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("documents:          %d\n", status.Documents)
		fmt.Printf("chunks:             %d\n", status.Chunks)
		fmt.Printf("vector_index_size:  %d\n", status.VectorIndexSize)
		if len(status.Config) > 0 {
			fmt.Println()
			fmt.Println("# configuration")
			for _, key := range []string{"vector_index_type", "embedding_type", "embedding_dimensions", "chunk_size", "chunk_overlap", "database_path"} {
				if v, ok := status.Config[key]; ok {
					fmt.Printf("%-20s %v\n", key+":", v)
				}
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// Components holds initialized services.
type Components struct {
	Storage     storage.Storage
	Embedder    embedding.Embedder
	VectorIndex vector.VectorIndex
	Pipeline    *retrieval.Pipeline
	Ingestor    *ingest.Ingestor
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.VectorIndex != nil {
		_ = c.VectorIndex.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	embedder, err := embedding.NewEmbedder(
		cfg.Embedding.Type,
		cfg.Embedding.ModelPath,
		cfg.Embedding.Dimensions,
		cfg.Embedding.MaxTokens,
		cfg.Embedding.CacheSize,
	)
	if err != nil {
		// The ONNX runtime may be unavailable on this host; degrade to the
		// deterministic mock so ingestion and retrieval still work.
		logger.Warn("embedder init failed, falling back to mock",
			zap.String("type", cfg.Embedding.Type), zap.Error(err))
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	}

	vectorIndex, err := vector.NewVectorIndex(cfg.Storage.VectorIndexType, cfg.Embedding.Dimensions)
	if err != nil {
		if cfg.Storage.VectorIndexType != "memory" && cfg.Storage.VectorIndexType != "" {
			logger.Warn("failed to create vector index, falling back to memory",
				zap.String("requested_type", cfg.Storage.VectorIndexType),
				zap.Error(err))
			vectorIndex, err = vector.NewVectorIndex("memory", cfg.Embedding.Dimensions)
			if err != nil {
				return nil, fmt.Errorf("failed to initialize vector index: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to initialize vector index: %w", err)
		}
	}
	if cfg.Storage.VectorIndexPath != "" {
		if loadErr := vectorIndex.Load(cfg.Storage.VectorIndexPath); loadErr != nil {
			logger.Debug("vector index load skipped",
				zap.String("path", cfg.Storage.VectorIndexPath), zap.Error(loadErr))
		}
	}
	logger.Info("vector index initialized",
		zap.String("type", cfg.Storage.VectorIndexType),
		zap.Bool("faiss_available", vector.IsFAISSAvailable()))

	pipeline := retrieval.NewPipeline(embedder, vectorIndex, store, &cfg.Policy, logger)
	ingestor := ingest.NewIngestor(
		store, embedder, vectorIndex,
		cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap,
		extract.NewExtractor(),
		ingest.WithLogger(logger),
		ingest.WithStrictValidation(cfg.Ingest.StrictValidation),
	)

	return &Components{
		Storage:     store,
		Embedder:    embedder,
		VectorIndex: vectorIndex,
		Pipeline:    pipeline,
		Ingestor:    ingestor,
	}, nil
}

func printUsage() {
	fmt.Println(`shirabe - policy-aware retrieval over governed engineering documents

Usage:
  shirabe server [flags]              Start the HTTP server
  shirabe query [flags] <query>       Retrieve citations for a question
  shirabe ingest [flags] [path]       Ingest a corpus file or directory
  shirabe validate [flags] [path]     Check corpus metadata contracts
  shirabe eval [flags] <cases.jsonl>  Grade retrieval against a question set
  shirabe delete [flags] <id>         Delete a document
  shirabe status [flags]              Show storage and index status
  shirabe version                     Show version
  shirabe help                        Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/shirabe/config.yaml)
  --debug            Enable debug logging

Query Flags:
  --config string            Config file path (for direct storage mode)
  --server string            Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --top-k int                Number of results (default from config)
  --pool int                 Candidate pool size (default from config)
  --system string            Target system for the system-match boost
  --exclude-types string     Comma-separated doc types to exclude (ADR, STD, RBK, PM, TMP)
  --exclude-statuses string  Comma-separated statuses to exclude
  --output string            Output format: text or json

Examples:
  shirabe server
  shirabe ingest ./corpus
  shirabe validate ./corpus
  shirabe query how do I restart the payments gateway
  shirabe query --system billing-service "retry policy"
  shirabe eval questions.jsonl
  shirabe status --output json`)
}
