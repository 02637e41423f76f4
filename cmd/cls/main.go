// Package main fournit la CLI d'administration du serveur cls.
package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/church-livestream/cls/internal/buildinfo"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		serverURL string
		token     string
		timeout   time.Duration
	)
	api := &apiClient{}

	root := &cobra.Command{
		Use:           "cls",
		Short:         "Administer a church livestream switcher server",
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			api.configure(serverURL, token, timeout)
		},
	}
	root.SetVersionTemplate("cls version {{.Version}}\n")

	root.PersistentFlags().StringVar(&serverURL, "server", envOr("CLS_SERVER_URL", "http://127.0.0.1:8080"), "URL du serveur")
	root.PersistentFlags().StringVar(&token, "token", os.Getenv("CLS_ADMIN_TOKEN"), "Jeton admin (Bearer)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Timeout HTTP")

	root.AddCommand(
		newGetCmd(api, "health", "Check server health", "/api/v1/health"),
		newGetCmd(api, "version", "Show server build information", "/api/v1/version"),
		newStatusCmd(api),
		newScheduleCmd(api),
		newUpdatesCmd(api),
	)
	return root
}

func newGetCmd(api *apiClient, use, short, path string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := api.get(cmd.Context(), path)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
}

func newStatusCmd(api *apiClient) *cobra.Command {
	var debug bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current live/playlist decision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/status"
			if debug {
				path += "?debug=1"
			}
			body, err := api.get(cmd.Context(), path)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "Bypass the status cache and show upstream errors (admin)")
	return cmd
}

func newUpdatesCmd(api *apiClient) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "updates",
		Short: "Check GitHub for a newer release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/updates"
			if force {
				path += "?force=1"
			}
			body, err := api.get(cmd.Context(), path)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Ignore cached release information")
	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

