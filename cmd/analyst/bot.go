package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ai-analyst/internal/config"
	"ai-analyst/internal/telegram"
)

func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Start the Telegram bot front-end",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New()
			if cfg.TelegramBotToken == "" {
				return errors.New("TELEGRAM_BOT_TOKEN is required")
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			sched, err := a.startScheduler()
			if err != nil {
				return err
			}
			defer sched.Stop()

			bot, err := telegram.New(cfg.TelegramBotToken, a.orch, a.sessions, cfg.MaxUploadBytes)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			bot.Start(ctx)
			log.Println("bot stopped")
			return nil
		},
	}
}
