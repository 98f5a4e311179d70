package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderUnknownVendor(t *testing.T) {
	t.Parallel()

	_, err := NewProvider("gpt-oss", Config{APIKey: "k"}, nil)
	assert.ErrorIs(t, err, ErrUnknownVendor)
}

func TestNewProviderPresets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		vendor string
		model  string
	}{
		{VendorDoubao, "doubao-1-5-pro-32k-250115"},
		{VendorKimi, "moonshot-v1-32k"},
		{VendorTongyi, "qwen-plus"},
	}

	for _, tc := range tests {
		t.Run(tc.vendor, func(t *testing.T) {
			t.Parallel()
			provider, err := NewProvider(tc.vendor, Config{APIKey: "k"}, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.vendor, provider.Name())
			assert.Equal(t, tc.model, provider.ModelName())
			assert.NoError(t, provider.ValidateConfig())
		})
	}
}

func TestNewProviderOverrides(t *testing.T) {
	t.Parallel()

	provider, err := NewProvider(VendorKimi, Config{
		APIKey:    "k",
		BaseURL:   "http://localhost:9999/v1",
		ModelName: "kimi-latest",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "kimi-latest", provider.ModelName())
}

func TestValidateConfigMissingKey(t *testing.T) {
	t.Parallel()

	provider, err := NewProvider(VendorDoubao, Config{}, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, provider.ValidateConfig(), ErrMissingAPIKey)

	gemini, err := NewProvider(VendorGemini, Config{}, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, gemini.ValidateConfig(), ErrMissingAPIKey)
}

func TestVendors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"doubao", "gemini", "kimi", "tongyi"}, Vendors())
}
