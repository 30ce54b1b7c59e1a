package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"lens-agent/internal/di"
	"lens-agent/internal/infrastructure/userinteraction"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the agent in the terminal (/quit to exit)",
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	container, err := di.NewContainer(ctx, loadConfig(), log)
	if err != nil {
		return err
	}
	defer closeContainer(container)

	session := container.NewSession()
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := session.Close(closeCtx); err != nil {
			log.Warn("Abandoned in-flight turn", "error", err)
		}
	}()

	err = userinteraction.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx, session)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
