package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leli-rentals/leli-assist/cmd/service"
)

func main() {
	root := &cobra.Command{
		Use:   "leli-assist",
		Short: "leli rentals support assistant",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("empty command")
		},
	}

	root.AddCommand(service.NewCommand(), service.NewProcessCommand(), service.NewSweepCommand(), service.NewTokenCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
