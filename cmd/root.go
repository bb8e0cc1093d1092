package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roessland/syncwich/pkg/output"
	"github.com/roessland/syncwich/sw"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "syncwich",
	Short: "A tool to sync and dump Suunto workouts",
	Long: `Syncwich is a CLI tool to sync and dump Suunto workouts as FIT files for analysis and backup purposes.

It provides an interactive terminal interface with progress bars and structured logging.`,
	SilenceUsage: true,
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorise syncwich with your Suunto account",
	Long:  `Prints the Suunto consent URL, reads the authorization code and stores the resulting tokens.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return app.Authorize(cmd.Context(), cmd.InOrStdin(), viper.GetString("redirect_url"))
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Exchange the stored refresh token for a new access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return app.Refresh(cmd.Context())
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List workouts on Suunto",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return app.List(cmd.Context(), time.Now())
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download workouts from Suunto",
	Long:  `Download workouts from Suunto as FIT files with progress bars and structured logging.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return app.Download(cmd.Context(), time.Now())
	},
}

// newApp gathers configuration from flags and viper and builds the connector
func newApp(cmd *cobra.Command) (*sw.App, error) {
	since, _ := cmd.Flags().GetString("since")
	until, _ := cmd.Flags().GetString("until")
	jsonMode, _ := cmd.Flags().GetBool("json")

	config := sw.Config{
		ClientID:          viper.GetString("client_id"),
		ClientSecret:      viper.GetString("client_secret"),
		SubscriptionKey:   viper.GetString("subscription_key"),
		TokenPath:         viper.GetString("token_path"),
		SaveDir:           viper.GetString("save_dir"),
		UntilStr:          until,
		SinceStr:          since,
		JSONMode:          output.UseJSON(jsonMode),
		RequestsPerSecond: viper.GetFloat64("requests_per_second"),
	}

	return sw.NewApp(config)
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Viper defaults
	viper.SetDefault("save_dir", "~/.syncwich/suunto")
	viper.SetDefault("token_path", "~/.syncwich/suunto-token.yaml")
	viper.SetDefault("requests_per_second", 2.0)
	viper.SetDefault("redirect_url", "http://localhost:8080/callback")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.syncwich/syncwich.yaml)")
	rootCmd.PersistentFlags().String("save_dir", "", "Directory to save downloaded files (default: ~/.syncwich/suunto)")
	rootCmd.PersistentFlags().String("token_path", "", "File the Suunto tokens are kept in (default: ~/.syncwich/suunto-token.yaml)")
	rootCmd.PersistentFlags().Bool("json", false, "Output structured JSON logs instead of interactive mode")
	viper.BindPFlag("save_dir", rootCmd.PersistentFlags().Lookup("save_dir"))
	viper.BindPFlag("token_path", rootCmd.PersistentFlags().Lookup("token_path"))

	for _, c := range []*cobra.Command{listCmd, downloadCmd} {
		c.Flags().String("since", "4w", "Workouts since this date (e.g., '2023-12-01', '30d', '4w')")
		c.Flags().String("until", "", "Workouts until this date (optional, default now)")
	}

	// Bind environment variables
	viper.BindEnv("client_id", "SW_SUUNTO_CLIENT_ID")
	viper.BindEnv("client_secret", "SW_SUUNTO_CLIENT_SECRET")
	viper.BindEnv("subscription_key", "SW_SUUNTO_SUBSCRIPTION_KEY")
	viper.BindEnv("token_path", "SW_SUUNTO_TOKEN_PATH")
	viper.BindEnv("save_dir", "SW_SUUNTO_SAVE_DIR")

	rootCmd.AddCommand(authCmd, refreshCmd, listCmd, downloadCmd)
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in ~/.syncwich/ directory with name "syncwich" (without extension).
		viper.AddConfigPath(filepath.Join(home, ".syncwich"))
		viper.SetConfigName("syncwich")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in silently (logging is via LOG_LEVEL env var)
	viper.ReadInConfig()
}
