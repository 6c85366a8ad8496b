package config

import (
	"fmt"
	"sort"
	"strings"
)

// ModelInfo describes one entry of the chat model catalog. Key is the short
// identifier accepted by the API; Name is the identifier passed to the backend.
type ModelInfo struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Size        string `json:"size"`
	Recommended bool   `json:"recommended"`
}

var availableModels = map[string]ModelInfo{
	"qwen2.5-1.5b": {
		Key:         "qwen2.5-1.5b",
		Name:        "Qwen/Qwen2.5-1.5B-Instruct",
		Description: "多言語対応チャットモデル (1.5B) - 日本語対応、チャット専用",
		Language:    "multilingual",
		Size:        "1.5B",
		Recommended: true,
	},
	"qwen2.5-0.5b": {
		Key:         "qwen2.5-0.5b",
		Name:        "Qwen/Qwen2.5-0.5B-Instruct",
		Description: "超軽量多言語チャットモデル (0.5B) - 日本語対応、高速",
		Language:    "multilingual",
		Size:        "0.5B",
		Recommended: true,
	},
	"tinyllama": {
		Key:         "tinyllama",
		Name:        "TinyLlama/TinyLlama-1.1B-Chat-v1.0",
		Description: "軽量英語チャットモデル (1.1B)",
		Language:    "en",
		Size:        "1.1B",
		Recommended: false,
	},
}

// ModelByKey resolves a catalog key to its model info.
func ModelByKey(key string) (ModelInfo, error) {
	info, ok := availableModels[key]
	if !ok {
		return ModelInfo{}, fmt.Errorf("unknown model: %s. Available: %s", key, strings.Join(ModelKeys(), ", "))
	}
	return info, nil
}

// ResolveModelName maps a catalog key to the backend model name.
func ResolveModelName(key string) (string, error) {
	info, err := ModelByKey(key)
	if err != nil {
		return "", err
	}
	return info.Name, nil
}

func ModelKeys() []string {
	keys := make([]string, 0, len(availableModels))
	for k := range availableModels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ListModels returns the catalog sorted by key.
func ListModels() []ModelInfo {
	models := make([]ModelInfo, 0, len(availableModels))
	for _, k := range ModelKeys() {
		models = append(models, availableModels[k])
	}
	return models
}
