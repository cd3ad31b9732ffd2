package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"attackmap/config"
	"attackmap/internal/coverage"
	"attackmap/internal/dataset"
	"attackmap/internal/index"
	"attackmap/internal/layer"
	"attackmap/internal/logger"
	"attackmap/internal/mapper"
	"attackmap/internal/report"
	"attackmap/internal/resolver"
)

func findConfigFile(configArg string) string {
	if configArg != "" {
		if _, err := os.Stat(configArg); err == nil {
			return configArg
		}
		log.Printf("Warning: config file not found at %s, trying default locations", configArg)
	}

	if _, err := os.Stat("attackmap.yml"); err == nil {
		return "attackmap.yml"
	}

	exePath, err := os.Executable()
	if err == nil {
		path := filepath.Join(filepath.Dir(exePath), "attackmap.yml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "attackmap.yml"
}

func applyDefaults(cfg *config.Config) {
	if cfg.AttackMap.Dataset.URL == "" {
		cfg.AttackMap.Dataset.URL = dataset.DefaultURL
	}
	if cfg.AttackMap.Dataset.Timeout <= 0 {
		cfg.AttackMap.Dataset.Timeout = 30 * time.Second
	}
	if cfg.AttackMap.Dataset.Cache.Redis.Addr == "" {
		cfg.AttackMap.Dataset.Cache.Redis.Addr = "127.0.0.1:6379"
	}
	if cfg.AttackMap.Dataset.Cache.Redis.Key == "" {
		cfg.AttackMap.Dataset.Cache.Redis.Key = "attackmap:bundle:enterprise"
	}
	if cfg.AttackMap.Dataset.Cache.TTL <= 0 {
		cfg.AttackMap.Dataset.Cache.TTL = 24 * time.Hour
	}

	if cfg.AttackMap.Resolver.FuzzyThreshold <= 0 {
		cfg.AttackMap.Resolver.FuzzyThreshold = resolver.DefaultFuzzyThreshold
	}
	if cfg.AttackMap.Resolver.MaxSuggestions <= 0 {
		cfg.AttackMap.Resolver.MaxSuggestions = resolver.DefaultMaxSuggestions
	}

	if cfg.AttackMap.Layer.Score <= 0 {
		cfg.AttackMap.Layer.Score = layer.DefaultScore
	}
	if cfg.AttackMap.Layer.Color == "" {
		cfg.AttackMap.Layer.Color = layer.DefaultColor
	}
	if cfg.AttackMap.Layer.CoveredColor == "" {
		cfg.AttackMap.Layer.CoveredColor = layer.DefaultCoveredColor
	}

	if cfg.AttackMap.Logging.Level == "" {
		cfg.AttackMap.Logging.Level = "info"
	}
}

func run(args []string) int {
	fs := flag.NewFlagSet("attackmap", flag.ContinueOnError)
	configArg := fs.String("config", "", "Config file path")
	output := fs.String("o", "", "Output JSON file name (auto-generated if not specified)")
	fs.StringVar(output, "output", "", "Output JSON file name (auto-generated if not specified)")
	listGroups := fs.Bool("list-groups", false, "List all available APT groups")
	interactive := fs.Bool("interactive", false, "Force interactive prompting even if a group is provided")
	sigmaRules := fs.String("sigma-rules", "", "Sigma rule file or directory for detection-coverage overlay")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	configPath := findConfigFile(*configArg)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "failed to load config %s: %v\n", configPath, err)
			return 1
		}
		cfg = &config.Config{}
	}
	applyDefaults(cfg)

	if *sigmaRules != "" {
		cfg.AttackMap.Coverage.Enabled = true
		cfg.AttackMap.Coverage.Path = *sigmaRules
	}

	if err := logger.Init(cfg.AttackMap.Logging.Enabled, cfg.AttackMap.Logging.Level, cfg.AttackMap.Logging.File, cfg.AttackMap.Logging.Console); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}

	console := report.NewConsole(os.Stdout)
	ctx := context.Background()

	var src dataset.Source = dataset.NewHTTPSource(dataset.HTTPConfig{
		URL:     cfg.AttackMap.Dataset.URL,
		Timeout: cfg.AttackMap.Dataset.Timeout,
	})
	if cfg.AttackMap.Dataset.Cache.Enabled {
		cache, err := dataset.NewCache(src, dataset.CacheConfig{
			Addr:     cfg.AttackMap.Dataset.Cache.Redis.Addr,
			Password: cfg.AttackMap.Dataset.Cache.Redis.Password,
			DB:       cfg.AttackMap.Dataset.Cache.Redis.DB,
			Key:      cfg.AttackMap.Dataset.Cache.Redis.Key,
			TTL:      cfg.AttackMap.Dataset.Cache.TTL,
		})
		if err != nil {
			logger.Warnf("Bundle cache unavailable, fetching directly: %v", err)
		} else {
			defer cache.Close()
			src = cache
		}
	}

	cols, err := dataset.Load(ctx, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading MITRE ATT&CK data: %v\n", err)
		return 1
	}

	idx, err := index.Build(cols)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error indexing MITRE ATT&CK data: %v\n", err)
		return 1
	}
	logger.Infof("Index built: groups=%d techniques=%d tactics=%d",
		idx.GroupCount(), idx.TechniqueCount(), idx.TacticCount())

	if *listGroups {
		console.ListGroups(idx.Groups())
		return 0
	}

	var cov *coverage.Set
	if cfg.AttackMap.Coverage.Enabled && cfg.AttackMap.Coverage.Path != "" {
		set, stats, err := coverage.LoadRules(cfg.AttackMap.Coverage.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading Sigma rules: %v\n", err)
			return 1
		}
		logger.Infof("Sigma rules loaded: loaded=%d skipped_invalid=%d skipped_untagged=%d files=%d",
			stats.Loaded, stats.SkippedInvalid, stats.SkippedUntagged, stats.TotalFiles)
		cov = set
	}

	res := resolver.New(idx, resolver.Config{
		FuzzyThreshold: cfg.AttackMap.Resolver.FuzzyThreshold,
		MaxSuggestions: cfg.AttackMap.Resolver.MaxSuggestions,
	})

	query := strings.TrimSpace(fs.Arg(0))
	promptMode := *interactive || query == ""

	console.Banner()
	if promptMode {
		console.UsageGuide()
	}

	stdin := bufio.NewScanner(os.Stdin)
	for {
		if promptMode {
			q, ok := prompt(stdin)
			if !ok {
				return 1
			}
			query = q
		}

		group, err := res.Resolve(query)
		if err != nil {
			var notFound *resolver.NotFoundError
			if errors.As(err, &notFound) {
				console.NotFound(notFound)
				if promptMode {
					continue
				}
				return 1
			}
			fmt.Fprintf(os.Stderr, "error resolving group: %v\n", err)
			return 1
		}

		mapping := mapper.New(idx).Map(group)
		console.Analysis(mapping, cov)

		doc := layer.Build(mapping, layer.Options{
			Score:        cfg.AttackMap.Layer.Score,
			Color:        cfg.AttackMap.Layer.Color,
			CoveredColor: cfg.AttackMap.Layer.CoveredColor,
			Coverage:     cov,
		})

		outPath := *output
		if outPath == "" {
			outPath = defaultOutputName(query)
		}
		if err := layer.WriteFile(outPath, doc); err != nil {
			fmt.Fprintf(os.Stderr, "error saving layer file: %v\n", err)
			return 1
		}

		console.Success(outPath)
		return 0
	}
}

func prompt(stdin *bufio.Scanner) (string, bool) {
	for {
		fmt.Print("Enter APT group name or ID: ")
		if !stdin.Scan() {
			return "", false
		}
		if q := strings.TrimSpace(stdin.Text()); q != "" {
			return q, true
		}
		fmt.Println("Please enter a valid APT group name or ID.")
	}
}

// defaultOutputName derives a filesystem-safe layer filename from the query.
func defaultOutputName(query string) string {
	safe := strings.ToLower(query)
	safe = strings.ReplaceAll(safe, " ", "_")
	safe = strings.ReplaceAll(safe, "/", "_")
	var b strings.Builder
	for _, r := range safe {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		name = "group"
	}
	return name + "_navigator_layer.json"
}

func main() {
	os.Exit(run(os.Args[1:]))
}
