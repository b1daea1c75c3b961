package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:   "reserve",
		Short: "Restaurant reservation tool server and interactive booking assistant",
	}
	root.PersistentFlags().StringVar(&envFile, "env", "", "env file exported into the environment before reading configuration")

	root.AddCommand(newServeCmd(&envFile))
	root.AddCommand(newChatCmd(&envFile))
	root.AddCommand(newVersionCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
