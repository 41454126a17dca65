package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/johndosdos/campus-connect/internal/chatclient"
)

var (
	ltUsers    []string
	ltMessages int
	ltInterval time.Duration
)

var loadtestCmd = &cobra.Command{
	Use:   "loadtest",
	Short: "Sign in several accounts, connect them and send messages concurrently",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if len(ltUsers) == 0 {
			return errors.New("at least one --user email:password is required")
		}

		ctx := cmd.Context()
		var sent, received, failed atomic.Int64
		var wg sync.WaitGroup
		start := time.Now()

		for i, u := range ltUsers {
			wg.Add(1)
			go func(i int, u string) {
				defer wg.Done()
				if err := runLoadUser(ctx, i, u, &sent, &received); err != nil {
					failed.Add(1)
					color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "user %d: %v\n", i, err)
				}
			}(i, u)
		}
		wg.Wait()

		fmt.Fprintf(cmd.OutOrStdout(), "users=%d failed=%d sent=%d received=%d elapsed=%s\n",
			len(ltUsers), failed.Load(), sent.Load(), received.Load(), time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	loadtestCmd.Flags().StringSliceVarP(&ltUsers, "user", "u", nil, "Account as email:password, repeatable")
	loadtestCmd.Flags().IntVarP(&ltMessages, "messages", "n", 10, "Messages per user")
	loadtestCmd.Flags().DurationVar(&ltInterval, "interval", 100*time.Millisecond, "Delay between messages")
}

func runLoadUser(ctx context.Context, i int, account string, sent, received *atomic.Int64) error {
	email, password, ok := strings.Cut(account, ":")
	if !ok || email == "" || password == "" {
		return fmt.Errorf("malformed account %q", account)
	}

	tok, err := chatclient.Login(ctx, serverURL, email, password)
	if err != nil {
		return err
	}

	s, err := chatclient.Dial(ctx, serverURL, tok)
	if err != nil {
		return err
	}
	defer s.Close()

	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		for {
			if _, err := s.Receive(readCtx); err != nil {
				return
			}
			received.Add(1)
		}
	}()

	for n := range ltMessages {
		if _, err := s.Send(ctx, fmt.Sprintf("load test message %d from user %d", n, i)); err != nil {
			return err
		}
		sent.Add(1)
		time.Sleep(ltInterval)
	}

	// Let the last broadcasts arrive.
	time.Sleep(time.Second)
	return nil
}
