package chipotle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
)

// Location is the part of a store record the rest of the system cares about.
type Location struct {
	ID      int    `json:"id"`
	ZipCode string `json:"zip_code"`
}

// A few stores report a postal code that doesn't match where they actually
// are. The override wins over whatever the address says.
var zipCodeOverrides = map[int]string{
	3065: "75235",
}

// Fixed search body covering the whole chain: an unbounded radius from the
// origin, open and lab stores only, and one page big enough for every
// location. 4000 is a good upper limit for the store count; raise it when
// there are more.
var locationsRequestBody = map[string]any{
	"latitude":           0,
	"longitude":          0,
	"radius":             999999999,
	"restaurantStatuses": []string{"OPEN", "LAB"},
	"conceptIds":         []string{"CMG"},
	"orderBy":            "distance",
	"orderByDescending":  false,
	"pageSize":           4000,
	"pageIndex":          0,
	"embeds": map[string]any{
		"addressTypes":   []string{"MAIN"},
		"realHours":      false,
		"directions":     false,
		"catering":       false,
		"onlineOrdering": true,
		"timezone":       false,
		"marketing":      false,
		"chipotlane":     false,
		"sustainability": false,
		"experience":     false,
	},
}

// Raw restaurant-service response shapes.
type locationsResponse struct {
	Data []rawLocation `json:"data"`
}

type rawLocation struct {
	ID        int          `json:"restaurantNumber"`
	Addresses []rawAddress `json:"addresses"`
}

type rawAddress struct {
	PostalCode  string `json:"postalCode"`
	CountryCode string `json:"countryCode"`
}

// AllLocations fetches every US store. Records with no address are logged
// and skipped, non-US records are dropped silently, and zip codes are
// normalized to at most five characters with the override table taking
// precedence. Any transport, status, or parse failure fails the whole call.
func (c *Client) AllLocations(ctx context.Context) ([]Location, error) {
	key, err := c.keys.Key(ctx, false)
	if err != nil {
		return nil, err
	}

	url := DefaultLocationsURL
	if c.endpoints.Locations != nil {
		url = c.endpoints.Locations.URL
	}

	body, err := json.Marshal(locationsRequestBody)
	if err != nil {
		return nil, &RequestError{Err: err}
	}

	if err := c.throttle(ctx); err != nil {
		return nil, &RequestError{Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(APIKeyHeader, key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode}
	}
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &BodyError{Err: err}
	}

	var parsed locationsResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &ParseError{Err: err}
	}

	locations := make([]Location, 0, len(parsed.Data))
	for _, raw := range parsed.Data {
		if len(raw.Addresses) == 0 {
			log.Printf("location %d has no addresses, skipping", raw.ID)
			continue
		}
		// Only the first address is considered; stores can carry several
		// address types but MAIN is the one we embed.
		addr := raw.Addresses[0]
		if addr.CountryCode != "US" {
			continue
		}
		locations = append(locations, Location{ID: raw.ID, ZipCode: normalizeZip(raw.ID, addr.PostalCode)})
	}
	return locations, nil
}

func normalizeZip(id int, postalCode string) string {
	zip, ok := zipCodeOverrides[id]
	if !ok {
		zip = postalCode
	}
	if len(zip) > 5 {
		zip = zip[:5]
	}
	return zip
}

// LoadLocations reads a locations cache file written by SaveLocations.
func LoadLocations(path string) ([]Location, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read locations file: %w", err)
	}
	var locations []Location
	if err := json.Unmarshal(contents, &locations); err != nil {
		return nil, fmt.Errorf("unable to parse locations file: %w", err)
	}
	return locations, nil
}

// SaveLocations writes the locations verbatim as a JSON array.
func SaveLocations(path string, locations []Location) error {
	serialized, err := json.Marshal(locations)
	if err != nil {
		return fmt.Errorf("unable to serialize locations: %w", err)
	}
	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("unable to write locations file: %w", err)
	}
	return nil
}
