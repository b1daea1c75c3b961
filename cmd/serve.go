package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhi-srivathsa/ai-restaurant-reserve/booking"
	"github.com/abhi-srivathsa/ai-restaurant-reserve/pkg/config"
	"github.com/abhi-srivathsa/ai-restaurant-reserve/pkg/places"
	"github.com/abhi-srivathsa/ai-restaurant-reserve/toolserver"
)

func newServeCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the reservation tool server",
		RunE: func(cmd *cobra.Command, args []string) error {
			serverCfg, err := config.LoadFile[toolserver.Config](*envFile, "RESERVE")
			if err != nil {
				return err
			}
			placesCfg, err := config.LoadFile[places.Config](*envFile, "")
			if err != nil {
				return err
			}
			searcher, err := places.NewClient(*placesCfg)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			service := booking.NewService(booking.NewMemoryStore())
			dispatcher := toolserver.NewDispatcher(service, searcher)
			return toolserver.NewServer(*serverCfg, dispatcher).Start(ctx)
		},
	}
}
