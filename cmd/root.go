package cmd

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/travelchat/internal/api"
	"github.com/zhubert/travelchat/internal/app"
	"github.com/zhubert/travelchat/internal/config"
	"github.com/zhubert/travelchat/internal/logger"
)

var (
	debugMode             bool
	quietMode             bool
	apiURLFlag            string
	logFile               string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "travelchat",
	Short: "Terminal chat client for the Travel Assistant",
	Long: `Travelchat is a terminal client for the Travel Assistant API.
Conversations are listed on the left; the open conversation and its input
are on the right. Run "travelchat serve" to start a local backend.`,
	PersistentPreRunE: loadEnv,
	RunE:              runTUI,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.Flags().StringVar(&apiURLFlag, "api-url", "", "Travel Assistant API base URL (overrides env and config)")
	rootCmd.Flags().StringVar(&logFile, "log-file", logger.DefaultLogPath, "Where the TUI writes its log")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// loadEnv reads a .env from the working directory. It can carry the API URL
// for the TUI or the OpenAI settings for serve.
func loadEnv(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnv(); err != nil {
		return fmt.Errorf("error loading .env: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("travelchat %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("travelchat %s\n", version)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if err := logger.Init(logFile); err != nil {
		return err
	}
	defer logger.Close()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	apiURL := cfg.ResolveAPIURL(apiURLFlag)
	if err := config.ValidateAPIURL(apiURL); err != nil {
		return err
	}
	logger.Info("starting travelchat %s against %s", version, apiURL)

	m := app.New(cfg, api.NewClient(apiURL, version), apiURL, version)
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
