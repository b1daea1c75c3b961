package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhi-srivathsa/ai-restaurant-reserve/assistant"
	"github.com/abhi-srivathsa/ai-restaurant-reserve/pkg/config"
	"github.com/abhi-srivathsa/ai-restaurant-reserve/pkg/gemini"
)

func newChatCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive assistant that searches restaurants and books through the tool server",
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCfg, err := config.LoadFile[assistant.Config](*envFile, "MCP")
			if err != nil {
				return err
			}
			geminiCfg, err := config.LoadFile[gemini.Config](*envFile, "GEMINI")
			if err != nil {
				return err
			}

			model, err := gemini.NewClient(*geminiCfg)
			if err != nil {
				return err
			}
			tools, err := assistant.NewToolClient(*clientCfg)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := tools.Ping(ctx); err != nil {
				return fmt.Errorf("tool server unreachable at %s: %w", clientCfg.ServerURL, err)
			}

			a := assistant.New(tools, assistant.NewGeminiExtractor(model), cmd.InOrStdin(), cmd.OutOrStdout())
			return a.Run(ctx)
		},
	}
}
