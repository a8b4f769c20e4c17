package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Provider identifies a supported embedding HTTP API.
type Provider string

const (
	ProviderVoyage      Provider = "voyage"
	ProviderHuggingFace Provider = "huggingface"
	ProviderSiliconFlow Provider = "siliconflow"
)

// providerConfig is the per-provider wiring: base URL, default model,
// the env var that supplies its API key, and how to shape the request.
type providerConfig struct {
	baseURL string
	model   string
	envKey  string
}

var providerConfigs = map[Provider]providerConfig{
	ProviderVoyage: {
		baseURL: "https://api.voyageai.com/v1/embeddings",
		model:   "voyage-3-lite",
		envKey:  "VOYAGE_API_KEY",
	},
	ProviderHuggingFace: {
		baseURL: "https://api-inference.huggingface.co/pipeline/feature-extraction",
		model:   "sentence-transformers/all-MiniLM-L6-v2",
		envKey:  "HF_TOKEN",
	},
	ProviderSiliconFlow: {
		baseURL: "https://api.siliconflow.cn/v1/embeddings",
		model:   "BAAI/bge-large-zh-v1.5",
		envKey:  "SILICONFLOW_API_KEY",
	},
}

// HTTPEmbedder calls one configured HTTP embedding provider. It is
// generalized from the teacher's OllamaEmbedder (internal/engine/embedder.go)
// to cover the three providers spec.md §6 names: Voyage, HuggingFace, and
// SiliconFlow, selected by whichever API key env var is present.
type HTTPEmbedder struct {
	provider Provider
	apiKey   string
	cfg      providerConfig
	client   *http.Client
}

// DetectHTTPEmbedder probes the environment for the first configured
// provider's API key, in the order spec.md §6 lists them: VOYAGE_API_KEY,
// HF_TOKEN, SILICONFLOW_API_KEY. Returns nil if none is set — callers
// should fall back to Disabled.
func DetectHTTPEmbedder() *HTTPEmbedder {
	for _, p := range []Provider{ProviderVoyage, ProviderHuggingFace, ProviderSiliconFlow} {
		cfg := providerConfigs[p]
		if key := os.Getenv(cfg.envKey); key != "" {
			return NewHTTPEmbedder(p, key)
		}
	}
	return nil
}

// NewHTTPEmbedder builds an embedder bound to provider using apiKey.
func NewHTTPEmbedder(provider Provider, apiKey string) *HTTPEmbedder {
	return &HTTPEmbedder{
		provider: provider,
		apiKey:   apiKey,
		cfg:      providerConfigs[provider],
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (h *HTTPEmbedder) Model() string    { return string(h.provider) + ":" + h.cfg.model }
func (h *HTTPEmbedder) Available() bool { return h.apiKey != "" }

// Embed embeds a single text by delegating to EmbedBatch.
func (h *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vecs, err := h.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embed: %s returned no vectors", h.provider)
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in one request, order-preserving (spec.md
// §4.3). The request/response shapes follow the OpenAI-compatible
// `{input: [...]} -> {data: [{embedding: [...]}]}` envelope that Voyage
// and SiliconFlow both speak; HuggingFace's feature-extraction endpoint
// returns a bare nested array and is unwrapped accordingly.
func (h *HTTPEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	switch h.provider {
	case ProviderHuggingFace:
		return h.embedHuggingFace(ctx, texts)
	default:
		return h.embedOpenAICompatible(ctx, texts)
	}
}

func (h *HTTPEmbedder) embedOpenAICompatible(ctx context.Context, texts []string) ([][]float64, error) {
	reqBody := map[string]any{
		"model": h.cfg.model,
		"input": texts,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.cfg.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s embed api: %w", h.provider, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embed response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s embed status %d: %s", h.provider, resp.StatusCode, respBody)
	}

	var result struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}

	vecs := make([][]float64, len(result.Data))
	for i, d := range result.Data {
		vecs[i] = d.Embedding
	}
	return vecs, nil
}

func (h *HTTPEmbedder) embedHuggingFace(ctx context.Context, texts []string) ([][]float64, error) {
	url := h.cfg.baseURL + "/" + h.cfg.model
	reqBody := map[string]any{"inputs": texts}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface embed api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embed response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface embed status %d: %s", resp.StatusCode, respBody)
	}

	var vecs [][]float64
	if err := json.Unmarshal(respBody, &vecs); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	return vecs, nil
}

// Disabled is the no-op Embedder used when no provider credential is
// present in the environment (spec.md §4.3: "absence of credentials is
// not an error"). Every call reports unavailable.
type Disabled struct{}

func (Disabled) Model() string   { return "disabled" }
func (Disabled) Available() bool { return false }
func (Disabled) Embed(context.Context, string) ([]float64, error) {
	return nil, fmt.Errorf("embed: no provider configured")
}
func (Disabled) EmbedBatch(context.Context, []string) ([][]float64, error) {
	return nil, fmt.Errorf("embed: no provider configured")
}
