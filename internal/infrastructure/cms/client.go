// Package cms talks to the hosted headless content store.
//
// The store exposes a GROQ query endpoint, a mutation endpoint and an asset
// upload endpoint, all scoped to a project and dataset. Published content is
// readable anonymously; draft content (preview mode) and writes need tokens.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/summitcrest/realty/internal/config"
	"go.uber.org/zap"
)

// Perspective selects which document versions a query sees
type Perspective string

const (
	PerspectivePublished     Perspective = "published"
	PerspectivePreviewDrafts Perspective = "previewDrafts"
)

// ErrNoResult is returned by Query when the result is null
var ErrNoResult = errors.New("cms query returned no result")

// QueryOptions tune a single query
type QueryOptions struct {
	// Preview overlays draft documents. It needs a read token.
	Preview bool
}

// APIError is a non-2xx response from the content store
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cms api error (%d): %s", e.StatusCode, e.Body)
}

// Client is a thin HTTP client for the content store
type Client struct {
	BaseURL    string
	Dataset    string
	HTTPClient *http.Client

	readToken  string
	writeToken string
}

// NewClient builds a client from configuration. APIHost may be a bare host
// ("api.sanity.io", combined with the project ID) or a full base URL.
func NewClient(cfg config.CMSConfig) *Client {
	base := cfg.APIHost
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = fmt.Sprintf("https://%s.%s", cfg.ProjectID, cfg.APIHost)
	}
	base = strings.TrimRight(base, "/") + "/v" + strings.TrimPrefix(cfg.APIVersion, "v")

	return &Client{
		BaseURL: base,
		Dataset: cfg.Dataset,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		readToken:  cfg.ReadToken,
		writeToken: cfg.WriteToken,
	}
}

// CanPreview reports whether draft content can be read
func (c *Client) CanPreview() bool {
	return c.readToken != ""
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

// Query runs a GROQ query and decodes its result into out.
// params are JSON-encoded and passed as $name query parameters.
func (c *Client) Query(ctx context.Context, groq string, params map[string]interface{}, opts QueryOptions, out interface{}) error {
	values := url.Values{}
	values.Set("query", groq)
	for name, v := range params {
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode param %s: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	perspective := PerspectivePublished
	token := ""
	if opts.Preview {
		if c.CanPreview() {
			perspective = PerspectivePreviewDrafts
			token = c.readToken
		} else {
			zap.L().Warn("preview requested without a CMS read token, serving published content")
		}
	}
	values.Set("perspective", string(perspective))

	path := fmt.Sprintf("/data/query/%s?%s", c.Dataset, values.Encode())
	var resp queryResponse
	if err := c.doRequest(ctx, http.MethodGet, path, nil, "", token, &resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(resp.Result) == 0 || string(resp.Result) == "null" {
		return ErrNoResult
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("failed to decode query result: %w", err)
	}
	return nil
}

// Mutation is one entry of a mutate request, e.g. {"create": {...}}
type Mutation map[string]interface{}

// Patch returns a patch mutation that sets fields on the document id
func Patch(id string, set map[string]interface{}) Mutation {
	return Mutation{"patch": map[string]interface{}{"id": id, "set": set}}
}

// Delete returns a delete mutation for the document id
func Delete(id string) Mutation {
	return Mutation{"delete": map[string]interface{}{"id": id}}
}

// MutationResult is the store's answer to a mutate request
type MutationResult struct {
	TransactionID string `json:"transactionId"`
	Results       []struct {
		ID        string `json:"id"`
		Operation string `json:"operation"`
	} `json:"results"`
}

// Mutate applies mutations in a single transaction
func (c *Client) Mutate(ctx context.Context, mutations ...Mutation) (*MutationResult, error) {
	if c.writeToken == "" {
		return nil, fmt.Errorf("cms write token is not configured")
	}
	body := map[string]interface{}{"mutations": mutations}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal mutations: %w", err)
	}

	var result MutationResult
	path := fmt.Sprintf("/data/mutate/%s?returnIds=true", c.Dataset)
	if err := c.doRequest(ctx, http.MethodPost, path, bytes.NewReader(raw), "application/json", c.writeToken, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AssetKind is the asset pipeline an upload goes through
type AssetKind string

const (
	AssetFile  AssetKind = "files"
	AssetImage AssetKind = "images"
)

// Asset is an uploaded file or image
type Asset struct {
	ID               string `json:"_id"`
	URL              string `json:"url"`
	OriginalFilename string `json:"originalFilename"`
	MimeType         string `json:"mimeType"`
	Size             int64  `json:"size"`
}

// UploadAsset streams body to the asset endpoint
func (c *Client) UploadAsset(ctx context.Context, kind AssetKind, filename, contentType string, body io.Reader) (*Asset, error) {
	if c.writeToken == "" {
		return nil, fmt.Errorf("cms write token is not configured")
	}
	path := fmt.Sprintf("/assets/%s/%s?filename=%s", kind, c.Dataset, url.QueryEscape(filename))

	var resp struct {
		Document Asset `json:"document"`
	}
	if err := c.doRequest(ctx, http.MethodPost, path, body, contentType, c.writeToken, &resp); err != nil {
		return nil, err
	}
	return &resp.Document, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader, contentType, token string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("cms request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBytes))}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// UploadFile stores a file asset and returns its ID and CDN URL
func (c *Client) UploadFile(ctx context.Context, filename, contentType string, body io.Reader) (string, string, error) {
	asset, err := c.UploadAsset(ctx, AssetFile, filename, contentType, body)
	if err != nil {
		return "", "", err
	}
	return asset.ID, asset.URL, nil
}

// DeleteAsset removes an uploaded asset document
func (c *Client) DeleteAsset(ctx context.Context, assetID string) error {
	_, err := c.Mutate(ctx, Delete(assetID))
	return err
}

// PatchDocument sets fields on a published document
func (c *Client) PatchDocument(ctx context.Context, id string, set map[string]interface{}) error {
	_, err := c.Mutate(ctx, Patch(id, set))
	return err
}
