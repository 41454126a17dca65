// Command chat is a terminal client for the campus chat room.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	token     string
)

var rootCmd = &cobra.Command{
	Use:           "chat",
	Short:         "Terminal client for Campus Connect",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", envOr("CHAT_SERVER", "http://localhost:8000"), "Server base URL")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", os.Getenv("CHAT_TOKEN"), "Access token (see the login command)")

	rootCmd.AddCommand(loginCmd, connectCmd, searchCmd, loadtestCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
