package cmd

import (
	"errors"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"burritowatch/internal/batch"
	"burritowatch/internal/chipotle"
	"burritowatch/internal/output"
)

var (
	menuZipCode        string
	menuAll            bool
	menuLocationsCache string
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Fetch bowl-price summaries for stores by ZIP code, or nationwide",
	Run: func(cmd *cobra.Command, args []string) {
		if menuZipCode == "" && !menuAll {
			exitWithError(errors.New("either --zip-code or --all is required"))
		}

		cfg := loadConfig()
		client, err := buildClient(cfg)
		if err != nil {
			exitWithError(err)
		}

		var locations []chipotle.Location
		if menuLocationsCache != "" {
			locations, err = chipotle.LoadLocations(menuLocationsCache)
		} else {
			locations, err = client.AllLocations(cmd.Context())
		}
		if err != nil {
			exitWithError(err)
		}

		if menuZipCode != "" {
			filtered := locations[:0]
			for _, location := range locations {
				if location.ZipCode == menuZipCode {
					filtered = append(filtered, location)
				}
			}
			locations = filtered
		}

		bar := progressbar.NewOptions(len(locations),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("fetching menus"),
		)
		fetcher := batch.New(client, batch.Options{
			Concurrency: cfg.Batch.Size,
			Delay:       cfg.Batch.Delay,
			Progress: func(completed, total int) {
				bar.Set(completed)
			},
		})
		entries := fetcher.Run(cmd.Context(), locations)
		bar.Finish()

		dest, err := output.ForConfig(cfg)
		if err != nil {
			exitWithError(err)
		}
		if err := output.EmitEntries(dest, output.NewRunID(), entries); err != nil {
			dest.Close()
			exitWithError(err)
		}
		if err := dest.Close(); err != nil {
			exitWithError(err)
		}
	},
}

func init() {
	menuCmd.Flags().StringVarP(&menuZipCode, "zip-code", "z", "", "only stores in this ZIP code")
	menuCmd.Flags().BoolVar(&menuAll, "all", false, "every US store")
	menuCmd.Flags().StringVar(&menuLocationsCache, "locations-cache", "", "read locations from this file instead of the API")
	menuCmd.Flags().Int("batch-size", 5, "menu requests in flight at once")
	menuCmd.Flags().Duration("batch-delay", 0, "pause between request batches")
	menuCmd.Flags().String("output-type", "console", "where results go: console, json, postgres, kafka, parquet")
	menuCmd.Flags().String("output-path", "", "base path for file-based outputs")

	viper.BindPFlag("batch.size", menuCmd.Flags().Lookup("batch-size"))
	viper.BindPFlag("batch.delay", menuCmd.Flags().Lookup("batch-delay"))
	viper.BindPFlag("output.type", menuCmd.Flags().Lookup("output-type"))
	viper.BindPFlag("output.path", menuCmd.Flags().Lookup("output-path"))

	rootCmd.AddCommand(menuCmd)
}
