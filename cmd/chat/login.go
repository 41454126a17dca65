package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/johndosdos/campus-connect/internal/chatclient"
)

var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Sign in with a password account and print the access token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tok, err := chatclient.Login(cmd.Context(), serverURL, args[0], args[1])
		var apiErr *chatclient.APIError
		if errors.As(err, &apiErr) {
			return errors.New(apiErr.Detail)
		}
		if err != nil {
			return err
		}

		color.New(color.FgGreen, color.Bold).Fprintln(cmd.ErrOrStderr(), "Signed in. Export the token to reuse it:")
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}
