package chipotle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplateEndpoint(t *testing.T) {
	endpoint, err := NewTemplateEndpoint("https://example.com/$store_id/menu", "$store_id")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/42/menu", endpoint.Render("42"))
}

func TestNewTemplateEndpointMissingURL(t *testing.T) {
	_, err := NewTemplateEndpoint("", "$store_id")
	assert.ErrorIs(t, err, ErrMissingEndpoint)
}

func TestNewTemplateEndpointMissingToken(t *testing.T) {
	_, err := NewTemplateEndpoint("https://example.com/$store_id/menu", "")
	assert.ErrorIs(t, err, ErrMissingReplaceToken)
}

func TestNewTemplateEndpointTokenNotInURL(t *testing.T) {
	_, err := NewTemplateEndpoint("https://example.com/store_id/menu", "$store_id")
	assert.ErrorIs(t, err, ErrTokenNotInEndpoint)
}

func TestNewEndpointMissingURL(t *testing.T) {
	_, err := NewEndpoint("")
	assert.ErrorIs(t, err, ErrMissingEndpoint)
}

func TestRenderWithoutToken(t *testing.T) {
	endpoint, err := NewEndpoint("https://example.com/locations")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/locations", endpoint.Render("42"))
}

func TestRenderReplacesEveryOccurrence(t *testing.T) {
	endpoint, err := NewTemplateEndpoint("https://example.com/$id/menu?id=$id", "$id")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/7/menu?id=7", endpoint.Render("7"))
}

func TestEndpointConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  EndpointConfig
		wantErr error
	}{
		{
			name:    "empty config is valid",
			config:  EndpointConfig{},
			wantErr: nil,
		},
		{
			name: "valid full config",
			config: EndpointConfig{
				APIKey:    &Endpoint{URL: "https://example.com/app.js"},
				Locations: &Endpoint{URL: "https://example.com/restaurants"},
				Menu:      &Endpoint{URL: "https://example.com/$store_id/menu", ReplaceToken: "$store_id"},
			},
			wantErr: nil,
		},
		{
			name: "api key endpoint with token",
			config: EndpointConfig{
				APIKey: &Endpoint{URL: "https://example.com/app.js", ReplaceToken: "$x"},
			},
			wantErr: ErrUnnecessaryReplaceToken,
		},
		{
			name: "locations endpoint with token",
			config: EndpointConfig{
				Locations: &Endpoint{URL: "https://example.com/restaurants", ReplaceToken: "$x"},
			},
			wantErr: ErrUnnecessaryReplaceToken,
		},
		{
			name: "menu endpoint without token",
			config: EndpointConfig{
				Menu: &Endpoint{URL: "https://example.com/menu"},
			},
			wantErr: ErrMissingReplaceToken,
		},
		{
			name: "menu endpoint token not in url",
			config: EndpointConfig{
				Menu: &Endpoint{URL: "https://example.com/menu", ReplaceToken: "$store_id"},
			},
			wantErr: ErrTokenNotInEndpoint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}
