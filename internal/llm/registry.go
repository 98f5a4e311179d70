package llm

import (
	"fmt"
	"log/slog"
	"sort"
)

// Vendor keys accepted by NewProvider.
const (
	VendorDoubao = "doubao"
	VendorKimi   = "kimi"
	VendorTongyi = "tongyi"
	VendorGemini = "gemini"
)

// factory builds a Provider for one vendor from shared configuration.
type factory func(cfg Config, log *slog.Logger) (Provider, error)

// registry maps vendor keys to their strategy constructors. The
// OpenAI-compatible vendors differ only in endpoint and default model.
var registry = map[string]factory{
	VendorDoubao: func(cfg Config, log *slog.Logger) (Provider, error) {
		return newChatProvider(VendorDoubao,
			"https://ark.cn-beijing.volces.com/api/v3",
			"doubao-1-5-pro-32k-250115", cfg, log), nil
	},
	VendorKimi: func(cfg Config, log *slog.Logger) (Provider, error) {
		return newChatProvider(VendorKimi,
			"https://api.moonshot.cn/v1",
			"moonshot-v1-32k", cfg, log), nil
	},
	VendorTongyi: func(cfg Config, log *slog.Logger) (Provider, error) {
		return newChatProvider(VendorTongyi,
			"https://dashscope.aliyuncs.com/compatible-mode/v1",
			"qwen-plus", cfg, log), nil
	},
	VendorGemini: func(cfg Config, log *slog.Logger) (Provider, error) {
		return newGeminiProvider(cfg, log)
	},
}

// NewProvider builds the strategy registered under the given vendor key.
// Returns ErrUnknownVendor for keys with no registered strategy.
func NewProvider(vendor string, cfg Config, log *slog.Logger) (Provider, error) {
	build, ok := registry[vendor]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %v)", ErrUnknownVendor, vendor, Vendors())
	}
	return build(cfg, log)
}

// Vendors returns the supported vendor keys in stable order.
func Vendors() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
