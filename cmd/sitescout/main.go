// Command sitescout crawls a single web site from the command line and
// writes each fetched page as a line of JSON to stdout.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sitescout/crawler/config"
	"github.com/sitescout/crawler/crawler"
)

var (
	cfgFile     string
	baseURL     string
	userAgent   string
	maxDepth    int
	maxPages    int
	timeout     time.Duration
	rateLimit   float64
	retryTimes  int
	concurrency int
)

type pageLine struct {
	URL    string `json:"url"`
	Bytes  int    `json:"bytes"`
	IsText bool   `json:"is_text"`
}

var rootCmd = &cobra.Command{
	Use:   "sitescout",
	Short: "A polite, concurrent, breadth-first web-site crawler.",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "path to a YAML or JSON config file")
	rootCmd.Flags().StringVar(&baseURL, "base-url", "", "seed URL to crawl")
	rootCmd.Flags().StringVar(&userAgent, "user-agent", "", "User-Agent header and robots.txt identity")
	rootCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum BFS depth from the seed")
	rootCmd.Flags().IntVar(&maxPages, "max-pages", 0, "maximum number of pages admitted")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "per-request timeout")
	rootCmd.Flags().Float64Var(&rateLimit, "rate-limit", 0, "maximum requests per second")
	rootCmd.Flags().IntVar(&retryTimes, "retry-times", 0, "retry budget per URL")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent fetch workers")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	setFlagEnvOverrides(cmd)
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	records, stats, err := crawler.New().Run(ctx, cfg)
	encoder := json.NewEncoder(os.Stdout)
	for _, r := range records {
		line := pageLine{URL: r.URL, IsText: r.IsText}
		if r.IsText {
			line.Bytes = len(r.Text)
		} else {
			line.Bytes = len(r.Data)
		}
		_ = encoder.Encode(line)
	}

	fmt.Fprintf(os.Stderr, "admitted=%d fetched=%d disallowed=%d failed=%d\n",
		stats.Admitted, stats.Fetched, stats.Disallowed, stats.Failed)

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// setFlagEnvOverrides maps every explicitly-set flag onto the matching
// SITESCOUT_* variable, so a single code path (config.Load) resolves
// file, environment and flag precedence.
func setFlagEnvOverrides(cmd *cobra.Command) {
	set := func(flag, env string) {
		if cmd.Flags().Changed(flag) {
			os.Setenv(env, cmd.Flags().Lookup(flag).Value.String())
		}
	}
	set("base-url", "SITESCOUT_BASE_URL")
	set("user-agent", "SITESCOUT_USER_AGENT")
	set("max-depth", "SITESCOUT_MAX_DEPTH")
	set("max-pages", "SITESCOUT_MAX_PAGES")
	set("timeout", "SITESCOUT_TIMEOUT")
	set("rate-limit", "SITESCOUT_RATE_LIMIT")
	set("retry-times", "SITESCOUT_RETRY_TIMES")
	set("concurrency", "SITESCOUT_CONCURRENCY")
}
