package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/johndosdos/campus-connect/internal/chatclient"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Join the chat room",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if token == "" {
			return errors.New("a token is required; run the login command or pass --token")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := chatclient.Dial(ctx, serverURL, token)
		if err != nil {
			return err
		}
		defer s.Close()

		boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
		fmt.Println(boldGreen("Connected. Type a message and press Enter; Ctrl+C quits."))

		errCh := make(chan error, 1)
		go func() { errCh <- receive(ctx, s) }()

		lines := make(chan string)
		go func() {
			defer close(lines)
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				lines <- scanner.Text()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return nil
			case err := <-errCh:
				return err
			case line, ok := <-lines:
				if !ok {
					return nil
				}
				if strings.TrimSpace(line) == "/quit" {
					return nil
				}
				if _, err := s.Send(ctx, line); err != nil {
					return err
				}
			}
		}
	},
}

func receive(ctx context.Context, s *chatclient.Session) error {
	alert := color.New(color.FgRed, color.Bold).SprintFunc()

	for {
		f, err := s.Receive(ctx)
		if errors.Is(err, chatclient.ErrUnauthorized) {
			return errors.New("invalid authentication credentials")
		}
		if errors.Is(err, chatclient.ErrClosed) || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}

		line := chatclient.Render(f)
		if line.Alert {
			fmt.Println(alert(line.Text))
			continue
		}
		fmt.Println(line.Text)
	}
}
