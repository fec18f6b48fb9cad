package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-harvest/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration settings",
	Long:  `Manage configuration settings for ytharvest.`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init [API_KEY]",
	Short: "Initialize configuration file",
	Long:  `Create a new configuration file holding the YouTube Data API key and default harvest settings.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var apiKey string
		if len(args) > 0 {
			apiKey = args[0]
		}

		if err := config.InitConfig(apiKey); err != nil {
			return err
		}

		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created configuration file: %s\n", configPath)
		if apiKey == "" {
			fmt.Fprintln(out, "Please set api_key in this file or export YOUTUBE_API_KEY.")
		}

		return nil
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the configuration file path and the effective settings, with the API key masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration file: %s\n\n", configPath)
		fmt.Fprintf(out, "API_KEY:         %s\n", cfg.MaskedAPIKey())
		fmt.Fprintf(out, "DATABASE_URL:    %s\n", maskedDatabaseURL(cfg))
		fmt.Fprintf(out, "OUTPUT_FILE:     %s\n", cfg.OutputFile)
		fmt.Fprintf(out, "SUBTITLES_DIR:   %s\n", cfg.SubtitlesDir)
		fmt.Fprintf(out, "LANGUAGE:        %s\n", cfg.Language)
		fmt.Fprintf(out, "CAPTION_TIMEOUT: %s\n", cfg.CaptionTimeout)
		fmt.Fprintf(out, "YTDLP_PATH:      %s\n", cfg.YtDlpPath)

		return nil
	},
}

// maskedDatabaseURL hides the password component of the database URL
func maskedDatabaseURL(cfg *config.Config) string {
	if cfg.DatabaseURL == "" {
		return "(not set)"
	}
	dbConfig, err := cfg.ParseDatabaseConfig()
	if err != nil {
		return "(invalid)"
	}
	if dbConfig.Password != "" {
		dbConfig.Password = "xxxxx"
	}
	return dbConfig.URL()
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
