package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/johndosdos/campus-connect/internal/chatclient"
)

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search the message history",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if token == "" {
			return errors.New("a token is required; run the login command or pass --token")
		}

		results, err := chatclient.Search(cmd.Context(), serverURL, token, strings.Join(args, " "))
		if err != nil {
			return err
		}

		if len(results) == 0 {
			color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "No messages found.")
			return nil
		}
		for _, f := range results {
			fmt.Fprintln(cmd.OutOrStdout(), chatclient.Render(f).Text)
		}
		return nil
	},
}
