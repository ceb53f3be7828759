package cms

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/summitcrest/realty/internal/config"
	appErrors "github.com/summitcrest/realty/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, readToken, writeToken string) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.CMSConfig{
		ProjectID:  "abc123",
		Dataset:    "production",
		APIVersion: "2024-01-01",
		APIHost:    server.URL,
		ReadToken:  readToken,
		WriteToken: writeToken,
	})
}

func TestNewClient_BaseURL(t *testing.T) {
	c := NewClient(config.CMSConfig{ProjectID: "abc123", Dataset: "production", APIVersion: "2024-01-01", APIHost: "api.sanity.io"})
	assert.Equal(t, "https://abc123.api.sanity.io/v2024-01-01", c.BaseURL)
	assert.False(t, c.CanPreview())
}

func TestQuery_Published(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2024-01-01/data/query/production", r.URL.Path)
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "published", r.URL.Query().Get("perspective"))
		assert.Equal(t, `"harbor-view"`, r.URL.Query().Get("$slug"))
		assert.Empty(t, r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"result": map[string]interface{}{"_id": "p1", "title": "Harbor View", "slug": "harbor-view", "price": 950000},
		})
	}, "read-token", "")

	repo := NewContentRepository(client)
	p, err := repo.GetProperty(context.Background(), "harbor-view", false)

	require.NoError(t, err)
	assert.Equal(t, "Harbor View", p.Title)
	assert.Equal(t, int64(950000), p.Price)
}

func TestQuery_PreviewUsesDraftsAndToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "previewDrafts", r.URL.Query().Get("perspective"))
		assert.Equal(t, "Bearer read-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{"result": []interface{}{}})
	}, "read-token", "")

	repo := NewContentRepository(client)
	projects, err := repo.ListProjects(context.Background(), true)

	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestQuery_PreviewWithoutTokenFallsBack(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "published", r.URL.Query().Get("perspective"))
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{"result": []interface{}{}})
	}, "", "")

	_, err := NewContentRepository(client).ListServices(context.Background(), true)
	assert.NoError(t, err)
}

func TestQuery_NullResultIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": null}`))
	}, "", "")

	repo := NewContentRepository(client)
	_, err := repo.GetPage(context.Background(), "missing", false)

	assert.True(t, appErrors.IsNotFound(err))
	assert.Contains(t, err.Error(), "missing")
}

func TestQuery_NullListIsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": null}`))
	}, "", "")

	items, err := NewContentRepository(client).ListTestimonials(context.Background(), false)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Len(t, items, 0)
}

func TestQuery_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"parse error"}`))
	}, "", "")

	_, err := NewContentRepository(client).ListProperties(context.Background(), false)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "parse error")
}

func TestGetSiteSettings_Missing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": null}`))
	}, "", "")

	s, err := NewContentRepository(client).GetSiteSettings(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "", s.Title)
}

func TestListSlugs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `"project"`, r.URL.Query().Get("$type"))
		w.Write([]byte(`{"result": [{"slug": "riverside", "_updatedAt": "2026-03-01T10:00:00Z"}]}`))
	}, "", "")

	slugs, err := NewContentRepository(client).ListSlugs(context.Background(), "project")
	require.NoError(t, err)
	require.Len(t, slugs, 1)
	assert.Equal(t, "riverside", slugs[0].Slug)
	assert.Equal(t, 2026, slugs[0].UpdatedAt.Year())
}

func TestMutate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2024-01-01/data/mutate/production", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("returnIds"))
		assert.Equal(t, "Bearer write-token", r.Header.Get("Authorization"))

		var body struct {
			Mutations []map[string]interface{} `json:"mutations"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Mutations, 1)
		assert.Contains(t, body.Mutations[0], "patch")

		w.Write([]byte(`{"transactionId": "tx1", "results": [{"id": "doc1", "operation": "update"}]}`))
	}, "", "write-token")

	res, err := client.Mutate(context.Background(), Patch("doc1", map[string]interface{}{"status": "funded"}))
	require.NoError(t, err)
	assert.Equal(t, "tx1", res.TransactionID)
	assert.Equal(t, "doc1", res.Results[0].ID)
}

func TestMutate_RequiresWriteToken(t *testing.T) {
	client := NewClient(config.CMSConfig{ProjectID: "abc", Dataset: "production", APIVersion: "2024-01-01", APIHost: "api.sanity.io"})
	_, err := client.Mutate(context.Background(), Delete("doc1"))
	assert.Error(t, err)
}

func TestUploadAsset(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2024-01-01/assets/files/production", r.URL.Path)
		assert.Equal(t, "accreditation letter.pdf", r.URL.Query().Get("filename"))
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "%PDF-1.4", string(body))

		w.Write([]byte(`{"document": {"_id": "file-abc-pdf", "url": "https://cdn.example.com/file-abc.pdf", "size": 8}}`))
	}, "", "write-token")

	asset, err := client.UploadAsset(context.Background(), AssetFile, "accreditation letter.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "file-abc-pdf", asset.ID)
	assert.Equal(t, int64(8), asset.Size)
}
