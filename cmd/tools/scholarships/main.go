// Command scholarships browses the university scholarship catalog from a
// terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/david/scholarship-finder/internal/catalog"
	"github.com/david/scholarship-finder/internal/config"
	"github.com/david/scholarship-finder/internal/identity"
	"github.com/david/scholarship-finder/internal/logging"
	"github.com/david/scholarship-finder/internal/transport"
)

var (
	configPath string
	baseURL    string
	verbose    bool

	cfg     *config.Config
	logger  *zap.Logger
	service *catalog.Service
)

var rootCmd = &cobra.Command{
	Use:           "scholarships",
	Short:         "Browse and get recommendations for scholarships",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		if cfg.API.BaseURL == "" {
			return fmt.Errorf("no backend configured: set SCHOLARSHIP_API_BASE_URL or --base-url")
		}
		client := transport.NewClient(cfg.API.BaseURL, transport.WithLogger(logger))
		service = catalog.NewService(client, logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loadConfig reads configuration and builds the logger.
func loadConfig() error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	logger, err = logging.New(cfg.Log.Level)
	return err
}

func studentID() string {
	path := cfg.Identity.StateFile
	if path == "" {
		path = identity.DefaultStatePath()
	}
	var store identity.Store
	if path != "" {
		store = identity.NewFileStore(path)
	}
	return identity.NewProvider(store, logger).GetOrCreateStudentID()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log API traffic")

	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(homeCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(resumeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
