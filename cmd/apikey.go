package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Print the gateway subscription key scraped from the client bundle",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		client, err := buildClient(cfg)
		if err != nil {
			exitWithError(err)
		}
		key, err := client.APIKey(cmd.Context(), false)
		if err != nil {
			exitWithError(err)
		}
		fmt.Println(key)
	},
}

func init() {
	rootCmd.AddCommand(apikeyCmd)
}
