package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"burritowatch/internal/chipotle"
)

var locationsOutputPath string

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Fetch all US store locations",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		client, err := buildClient(cfg)
		if err != nil {
			exitWithError(err)
		}

		locations, err := client.AllLocations(cmd.Context())
		if err != nil {
			exitWithError(err)
		}

		if locationsOutputPath != "" {
			if err := chipotle.SaveLocations(locationsOutputPath, locations); err != nil {
				exitWithError(err)
			}
			return
		}
		serialized, err := json.Marshal(locations)
		if err != nil {
			exitWithError(err)
		}
		fmt.Println(string(serialized))
	},
}

func init() {
	locationsCmd.Flags().StringVarP(&locationsOutputPath, "output", "o", "", "write locations to this file instead of stdout")
	rootCmd.AddCommand(locationsCmd)
}
