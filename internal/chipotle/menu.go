package chipotle

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// Price of a single menu item through the two order channels.
type Price struct {
	NormalPrice   float64 `json:"normal_price"`
	DeliveryPrice float64 `json:"delivery_price"`
}

// Summary is the fixed three-bowl reduction of a store's menu. It is never
// observable half-built: construction either fills every field or fails
// with the list of missing ones.
type Summary struct {
	RestaurantID     int   `json:"restaurant_id"`
	VeggieBowlPrice  Price `json:"veggie_bowl_price"`
	ChickenBowlPrice Price `json:"chicken_bowl_price"`
	SteakBowlPrice   Price `json:"steak_bowl_price"`
}

// MenuItem is an untrusted raw item from the menu service. Category, type
// and name are free text.
type MenuItem struct {
	ItemCategory      string  `json:"itemCategory"`
	ItemType          string  `json:"itemType"`
	ItemID            string  `json:"itemId"`
	ItemName          string  `json:"itemName"`
	UnitPrice         float64 `json:"unitPrice"`
	UnitDeliveryPrice float64 `json:"unitDeliveryPrice"`
}

type menuResponse struct {
	RestaurantID int        `json:"restaurantId"`
	Entrees      []MenuItem `json:"entrees"`
	Sides        []MenuItem `json:"sides"`
}

// SummaryBuilder accumulates optional fields and validates completeness once
// at Build time, so a partially filled summary never escapes.
type SummaryBuilder struct {
	restaurantID *int
	veggie       *Price
	chicken      *Price
	steak        *Price
}

func NewSummaryBuilder() *SummaryBuilder { return &SummaryBuilder{} }

func (b *SummaryBuilder) RestaurantID(id int) *SummaryBuilder {
	b.restaurantID = &id
	return b
}

func (b *SummaryBuilder) VeggieBowlPrice(p Price) *SummaryBuilder {
	b.veggie = &p
	return b
}

func (b *SummaryBuilder) ChickenBowlPrice(p Price) *SummaryBuilder {
	b.chicken = &p
	return b
}

func (b *SummaryBuilder) SteakBowlPrice(p Price) *SummaryBuilder {
	b.steak = &p
	return b
}

// Complete reports whether every field has been set.
func (b *SummaryBuilder) Complete() bool {
	return b.restaurantID != nil && b.veggie != nil && b.chicken != nil && b.steak != nil
}

// Build returns the summary, or a BuildError naming the absent fields in a
// fixed order.
func (b *SummaryBuilder) Build() (*Summary, error) {
	if !b.Complete() {
		var missing []string
		if b.restaurantID == nil {
			missing = append(missing, "restaurant_id")
		}
		if b.veggie == nil {
			missing = append(missing, "veggie_bowl_price")
		}
		if b.chicken == nil {
			missing = append(missing, "chicken_bowl_price")
		}
		if b.steak == nil {
			missing = append(missing, "steak_bowl_price")
		}
		return nil, &BuildError{Missing: missing}
	}
	return &Summary{
		RestaurantID:     *b.restaurantID,
		VeggieBowlPrice:  *b.veggie,
		ChickenBowlPrice: *b.chicken,
		SteakBowlPrice:   *b.steak,
	}, nil
}

// ReduceMenu folds a raw item list into a Summary. Items whose type is not
// "bowl" and names outside the three known variants are ignored on purpose;
// the first item matching a variant wins and later duplicates are dropped.
func ReduceMenu(items []MenuItem, restaurantID int) (*Summary, error) {
	builder := NewSummaryBuilder().RestaurantID(restaurantID)
	for _, item := range items {
		if builder.Complete() {
			break
		}
		if !strings.EqualFold(strings.TrimSpace(item.ItemType), "bowl") {
			continue
		}
		name := strings.TrimSpace(strings.ReplaceAll(strings.ToLower(item.ItemName), "bowl", ""))
		price := Price{NormalPrice: item.UnitPrice, DeliveryPrice: item.UnitDeliveryPrice}
		switch name {
		case "veggie":
			if builder.veggie == nil {
				builder.VeggieBowlPrice(price)
			}
		case "chicken":
			if builder.chicken == nil {
				builder.ChickenBowlPrice(price)
			}
		case "steak":
			if builder.steak == nil {
				builder.SteakBowlPrice(price)
			}
		}
	}
	return builder.Build()
}

// MenuSummary fetches a store's online menu and reduces it to the fixed
// summary shape.
func (c *Client) MenuSummary(ctx context.Context, restaurantID int) (*Summary, error) {
	key, err := c.keys.Key(ctx, false)
	if err != nil {
		return nil, err
	}

	endpoint := c.endpoints.Menu
	if endpoint == nil {
		endpoint = &Endpoint{URL: DefaultMenuURLFormat, ReplaceToken: DefaultMenuReplaceToken}
	}
	url := endpoint.Render(strconv.Itoa(restaurantID))

	if err := c.throttle(ctx); err != nil {
		return nil, &RequestError{Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	req.Header.Set(APIKeyHeader, key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &BodyError{Err: err}
	}

	var parsed menuResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &ParseError{Err: err}
	}
	return ReduceMenu(parsed.Entrees, parsed.RestaurantID)
}
