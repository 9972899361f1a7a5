package chipotle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bowlItem(name string, unitPrice, deliveryPrice float64) MenuItem {
	return MenuItem{
		ItemCategory:      "Entree",
		ItemType:          "Bowl",
		ItemID:            "1",
		ItemName:          name,
		UnitPrice:         unitPrice,
		UnitDeliveryPrice: deliveryPrice,
	}
}

func TestSummaryBuilderComplete(t *testing.T) {
	builder := NewSummaryBuilder().
		RestaurantID(1).
		VeggieBowlPrice(Price{NormalPrice: 1, DeliveryPrice: 1}).
		ChickenBowlPrice(Price{NormalPrice: 1, DeliveryPrice: 1})
	assert.False(t, builder.Complete())

	builder.SteakBowlPrice(Price{NormalPrice: 1, DeliveryPrice: 1})
	assert.True(t, builder.Complete())
}

func TestSummaryBuilderBuildMissingFields(t *testing.T) {
	_, err := NewSummaryBuilder().
		RestaurantID(1).
		ChickenBowlPrice(Price{NormalPrice: 1, DeliveryPrice: 1}).
		Build()

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, []string{"veggie_bowl_price", "steak_bowl_price"}, buildErr.Missing,
		"missing fields must come back in a fixed order")
}

func TestReduceMenuSuccess(t *testing.T) {
	items := []MenuItem{
		bowlItem("Veggie Bowl", 7.99, 8.99),
		bowlItem("Chicken Bowl", 8.99, 9.99),
		bowlItem("Steak Bowl", 9.99, 10.99),
	}

	summary, err := ReduceMenu(items, 1234)
	require.NoError(t, err)
	assert.Equal(t, 1234, summary.RestaurantID)
	assert.InDelta(t, 7.99, summary.VeggieBowlPrice.NormalPrice, 1e-9)
	assert.InDelta(t, 8.99, summary.VeggieBowlPrice.DeliveryPrice, 1e-9)
	assert.InDelta(t, 8.99, summary.ChickenBowlPrice.NormalPrice, 1e-9)
	assert.InDelta(t, 9.99, summary.ChickenBowlPrice.DeliveryPrice, 1e-9)
	assert.InDelta(t, 9.99, summary.SteakBowlPrice.NormalPrice, 1e-9)
	assert.InDelta(t, 10.99, summary.SteakBowlPrice.DeliveryPrice, 1e-9)
}

func TestReduceMenuCaseInsensitive(t *testing.T) {
	items := []MenuItem{
		{ItemType: "BOWL", ItemName: "VEGGIE BOWL", UnitPrice: 1, UnitDeliveryPrice: 2},
		{ItemType: "bowl", ItemName: "chicken bowl", UnitPrice: 3, UnitDeliveryPrice: 4},
		{ItemType: "Bowl", ItemName: "  Steak Bowl  ", UnitPrice: 5, UnitDeliveryPrice: 6},
	}

	summary, err := ReduceMenu(items, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1, summary.VeggieBowlPrice.NormalPrice, 1e-9)
	assert.InDelta(t, 3, summary.ChickenBowlPrice.NormalPrice, 1e-9)
	assert.InDelta(t, 5, summary.SteakBowlPrice.NormalPrice, 1e-9)
}

func TestReduceMenuMissingSteak(t *testing.T) {
	items := []MenuItem{
		bowlItem("Veggie Bowl", 1, 1),
		bowlItem("Chicken Bowl", 2, 2),
	}

	_, err := ReduceMenu(items, 1)
	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, []string{"steak_bowl_price"}, buildErr.Missing)
}

func TestReduceMenuIgnoresNonBowlsAndUnknownNames(t *testing.T) {
	items := []MenuItem{
		{ItemType: "Burrito", ItemName: "Steak Burrito", UnitPrice: 99, UnitDeliveryPrice: 99},
		{ItemType: "Bowl", ItemName: "Carnitas Bowl", UnitPrice: 98, UnitDeliveryPrice: 98},
		bowlItem("Veggie Bowl", 1, 1),
		bowlItem("Chicken Bowl", 2, 2),
		bowlItem("Steak Bowl", 3, 3),
	}

	summary, err := ReduceMenu(items, 1)
	require.NoError(t, err)
	assert.InDelta(t, 3, summary.SteakBowlPrice.NormalPrice, 1e-9)
}

func TestReduceMenuFirstMatchWins(t *testing.T) {
	items := []MenuItem{
		bowlItem("Veggie Bowl", 1.50, 2.50),
		bowlItem("Veggie Bowl", 9.50, 9.50),
		bowlItem("Chicken Bowl", 2, 2),
		bowlItem("Steak Bowl", 3, 3),
	}

	summary, err := ReduceMenu(items, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.50, summary.VeggieBowlPrice.NormalPrice, 1e-9)
	assert.InDelta(t, 2.50, summary.VeggieBowlPrice.DeliveryPrice, 1e-9)
}

func menuClientFor(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	endpoint, err := NewTemplateEndpoint(server.URL+"/restaurants/$store_id/onlinemenu", "$store_id")
	require.NoError(t, err)
	client, err := NewClient(ClientOptions{
		Endpoints: EndpointConfig{Menu: endpoint},
		APIKey:    fakeAPIKey,
	})
	require.NoError(t, err)
	return client
}

func TestMenuSummarySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fakeAPIKey, r.Header.Get(APIKeyHeader))
		assert.True(t, strings.HasPrefix(r.URL.Path, "/restaurants/1234/"), "store id must be substituted into the path")

		json.NewEncoder(w).Encode(map[string]any{
			"restaurantId": 1234,
			"entrees": []map[string]any{
				{"itemCategory": "Entree", "itemType": "Bowl", "itemId": "1", "itemName": "Veggie Bowl", "unitPrice": 7.99, "unitDeliveryPrice": 8.99},
				{"itemCategory": "Entree", "itemType": "Bowl", "itemId": "2", "itemName": "Chicken Bowl", "unitPrice": 8.99, "unitDeliveryPrice": 9.99},
				{"itemCategory": "Entree", "itemType": "Bowl", "itemId": "3", "itemName": "Steak Bowl", "unitPrice": 9.99, "unitDeliveryPrice": 10.99},
			},
			"sides": []map[string]any{},
		})
	}))
	defer server.Close()

	summary, err := menuClientFor(t, server).MenuSummary(context.Background(), 1234)
	require.NoError(t, err)
	assert.Equal(t, 1234, summary.RestaurantID)
	assert.InDelta(t, 7.99, summary.VeggieBowlPrice.NormalPrice, 1e-9)
}

func TestMenuSummaryIncomplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"restaurantId": 1234,
			"entrees": []map[string]any{
				{"itemType": "Bowl", "itemName": "Chicken Bowl", "unitPrice": 8.99, "unitDeliveryPrice": 9.99},
			},
			"sides": []map[string]any{},
		})
	}))
	defer server.Close()

	_, err := menuClientFor(t, server).MenuSummary(context.Background(), 1234)
	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, []string{"veggie_bowl_price", "steak_bowl_price"}, buildErr.Missing)
}

func TestMenuSummaryBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := menuClientFor(t, server).MenuSummary(context.Background(), 1234)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Status)
}
