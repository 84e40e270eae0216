package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/avatar-faces/internal/config"
)

var captureDir string

var rootCmd = &cobra.Command{
	Use:   "avatar-faces",
	Short: "Gallery of top Stack Overflow users with their faces highlighted",
	Long: `Avatar Faces fetches the top Stack Overflow user profiles, downloads each
avatar, runs a frontal-face detector over it and renders a gallery in which
every detected face is outlined in green.

Use "serve" for the browser UI or "generate" to write the gallery to a file.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		return setupLogging(cfg.Log.Level, cfg.Log.Format)
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&captureDir, "capture", "", "Directory to save API responses for testing")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// setupLogging configures the global logrus logger. Empty values keep the
// defaults (info, text).
func setupLogging(level, format string) error {
	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		logrus.SetLevel(lvl)
	}

	switch strings.ToLower(format) {
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q: expected text or json", format)
	}
	logrus.SetOutput(os.Stderr)
	return nil
}
