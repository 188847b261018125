package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// handlersCmd lists the handler chain
var handlersCmd = &cobra.Command{
	Use:   "handlers",
	Short: "List handlers in resolution order with converter availability",
	Run: func(cmd *cobra.Command, args []string) {
		h, err := NewAppHandler()
		exitOnError(err)

		fmt.Println("🧩 Handlers (first match wins)")
		fmt.Println("==============================")
		for i, status := range h.processor.Registry().Describe() {
			mark := "✅"
			if !status.Available {
				mark = "❌"
			}
			fmt.Printf("%2d. %s %-13s %s\n", i+1, mark, status.Name, strings.Join(status.MediaTypes, ", "))
			if len(status.Command) > 0 {
				fmt.Printf("       command: %s\n", strings.Join(status.Command, " "))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(handlersCmd)
}
