package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"burritowatch/internal/chipotle"
	"burritowatch/internal/models"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "burritowatch",
	Short: "Track Chipotle bowl prices across every US store",
	Long: `burritowatch talks to the Chipotle ordering API: it scrapes the rotating
gateway subscription key out of the order-web bundle, lists every US store
location, and reduces each store's menu to veggie/chicken/steak bowl prices.
Batch runs are chunked and rate-limited so the upstream service sees a
predictable load shape.`,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./burritowatch.yaml)")
	pf.StringP("api-key", "k", "", "API key to use; if not provided, one is scraped from the bundle")
	pf.StringP("api-key-endpoint", "a", "", "endpoint to extract the API key from")
	pf.StringP("locations-endpoint", "l", "", "endpoint to retrieve locations from")
	pf.StringP("menu-endpoint", "m", "", "menu endpoint format containing the store-id token")
	pf.String("menu-replace-token", chipotle.DefaultMenuReplaceToken, "store-id token inside the menu endpoint")
	pf.Duration("key-ttl", 0, "how long a scraped API key is reused (0 = forever)")
	pf.Duration("request-timeout", 30*time.Second, "per-request timeout")
	pf.Float64("requests-per-second", 0, "client-side request rate cap (0 = unlimited)")
	rootCmd.MarkFlagsMutuallyExclusive("api-key", "api-key-endpoint")

	viper.BindPFlag("api_key", pf.Lookup("api-key"))
	viper.BindPFlag("api_key_endpoint", pf.Lookup("api-key-endpoint"))
	viper.BindPFlag("locations_endpoint", pf.Lookup("locations-endpoint"))
	viper.BindPFlag("menu_endpoint", pf.Lookup("menu-endpoint"))
	viper.BindPFlag("menu_replace_token", pf.Lookup("menu-replace-token"))
	viper.BindPFlag("key_ttl", pf.Lookup("key-ttl"))
	viper.BindPFlag("request_timeout", pf.Lookup("request-timeout"))
	viper.BindPFlag("requests_per_second", pf.Lookup("requests-per-second"))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the merged flag/env/file configuration.
func loadConfig() *models.Config {
	cfg, err := models.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// buildClient turns the config into an API client. Endpoint validation
// happens here, before any network call.
func buildClient(cfg *models.Config) (*chipotle.Client, error) {
	var endpoints chipotle.EndpointConfig
	if cfg.APIKeyEndpoint != "" {
		ep, err := chipotle.NewEndpoint(cfg.APIKeyEndpoint)
		if err != nil {
			return nil, err
		}
		endpoints.APIKey = ep
	}
	if cfg.LocationsEndpoint != "" {
		ep, err := chipotle.NewEndpoint(cfg.LocationsEndpoint)
		if err != nil {
			return nil, err
		}
		endpoints.Locations = ep
	}
	if cfg.MenuEndpoint != "" {
		token := cfg.MenuReplaceToken
		if token == "" {
			token = chipotle.DefaultMenuReplaceToken
		}
		ep, err := chipotle.NewTemplateEndpoint(cfg.MenuEndpoint, token)
		if err != nil {
			return nil, err
		}
		endpoints.Menu = ep
	}

	return chipotle.NewClient(chipotle.ClientOptions{
		Endpoints:         endpoints,
		APIKey:            cfg.APIKey,
		KeyTTL:            cfg.KeyTTL,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Timeout:           cfg.RequestTimeout,
	})
}

// exitWithError emits a structured error object on stdout and terminates
// with a non-zero status. Used for batch-fatal failures only; per-location
// failures stay inside the result set.
func exitWithError(err error) {
	payload, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		payload = []byte(`{"error": "unprintable error"}`)
	}
	fmt.Println(string(payload))
	os.Exit(1)
}
