// Command analyst answers analytical questions over a local PIRLS 2021
// dataset from the terminal.
package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/breakingread/analyst"
	"github.com/breakingread/analyst/artifact"
	"github.com/breakingread/analyst/llm/openai"
	"github.com/breakingread/analyst/search"
	"github.com/breakingread/analyst/tools"
)

var (
	configPath string
	dbPath     string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "analyst",
		Short:        "Answer analytical questions over the PIRLS 2021 dataset",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "pirls.db", "path to the SQLite dataset")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	askCmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask one question and print the narrative answer",
		Args:  cobra.ExactArgs(1),
		RunE:  runAsk,
	}
	rootCmd.AddCommand(askCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
	// Missing .env is fine; secrets may come from the environment.
	_ = godotenv.Load()

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := analyst.LoadConfig(configPath)
	if err != nil {
		return err
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}
	modelID := os.Getenv("ANALYST_MODEL")
	if modelID == "" {
		modelID = "gpt-4o"
	}

	model := openai.New(openai.Config{
		APIKey:  apiKey,
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   modelID,
		Timeout: 10 * time.Minute,
	})

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	defer db.Close()

	provider := search.NewTavily(os.Getenv("TAVILY_API_KEY"), cfg.Search.Depth)

	opts := []analyst.Option{
		analyst.WithTools(tools.Registry(db, cfg.Schema, cfg.Chart.BaseURL, provider)...),
		analyst.WithStepBudget(cfg.StepBudget),
		analyst.WithLogger(logger),
	}
	if cfg.Storage.Bucket != "" {
		store := artifact.NewS3Store(cfg.Storage.Bucket, cfg.Storage.Host)
		opts = append(opts, analyst.WithPersister(
			artifact.NewPersister(store, artifact.WithLogger(logger)),
		))
	} else {
		logger.Debug("no storage bucket configured, charts stay transient")
	}

	pipeline := analyst.NewPipeline(model, opts...)

	answer, err := pipeline.Answer(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
