package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zhubert/travelchat/internal/server"
)

var (
	serveAddr string
	serveDB   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local Travel Assistant API",
	Long: `Runs the Travel Assistant HTTP API backed by SQLite.

Answers come from OpenAI when OPENAI_API_KEY is set (OPENAI_MODEL and
OPENAI_BASE_URL are honoured too). Without a key the server still stores
threads and replies with a canned offline answer.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default $TRAVELCHAT_ADDR or :8000)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite database path (default $TRAVELCHAT_DB or ./data/travelchat.db)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := server.LoadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if serveDB != "" {
		cfg.DBPath = serveDB
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if debugMode && !quietMode {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	store, err := server.NewSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer store.Close()

	assistant, err := server.NewAssistant(cfg)
	if err != nil {
		return fmt.Errorf("error creating assistant: %w", err)
	}
	if !cfg.Online() {
		log.Warn("OPENAI_API_KEY is not set, replies will be offline placeholders")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting travel assistant", "db", cfg.DBPath, "model", cfg.OpenAIModel, "online", cfg.Online())
	return server.New(store, assistant, log).ListenAndServe(ctx, cfg.Addr)
}
