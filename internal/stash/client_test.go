package stash

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/stash-folderid/internal/graphql"
)

// capturedRequest is the decoded body of a GraphQL request seen by the server.
type capturedRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

// newTestServer starts a server that records the request and answers with body.
func newTestServer(t *testing.T, body string) (*Client, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	gql := graphql.NewClient(srv.URL, srv.Client(), "", "", slog.Default())

	return NewClient(gql, 0, 0, slog.Default()), captured
}

func TestFindPerformers(t *testing.T) {
	client, req := newTestServer(t, `{"data":{"findPerformers":{"count":1,"performers":[
		{"id":"7","name":"Jane Doe","alias_list":["JD","Janey"]}]}}}`)

	count, performers, err := client.FindPerformers(context.Background(), "jane doe")
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	require.Len(t, performers, 1)
	assert.Equal(t, "7", performers[0].ID)
	assert.Equal(t, []string{"JD", "Janey"}, performers[0].AliasList)

	assert.Equal(t, "FindPerformers", req.OperationName)
	filter := req.Variables["filter"].(map[string]any)
	assert.Equal(t, "jane doe", filter["q"])
	assert.InDelta(t, DefaultLookupPageSize, filter["per_page"], 0)
	assert.Equal(t, "name", filter["sort"])
	assert.Equal(t, "ASC", filter["direction"])
}

func TestFindPerformers_MissingField(t *testing.T) {
	client, _ := newTestServer(t, `{"data":{}}`)

	_, _, err := client.FindPerformers(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, graphql.ErrSchema)
}

func TestCreatePerformer(t *testing.T) {
	client, req := newTestServer(t, `{"data":{"performerCreate":{"id":"501","name":"Jane Doe"}}}`)

	p, err := client.CreatePerformer(context.Background(), &PerformerCreateInput{Name: "Jane Doe", HeightCM: 170})
	require.NoError(t, err)
	assert.Equal(t, "501", p.ID)

	input := req.Variables["input"].(map[string]any)
	assert.Equal(t, "Jane Doe", input["name"])
	assert.InDelta(t, 170, input["height_cm"], 0)
}

func TestCreatePerformer_NoIDIsFailure(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"null result", `{"data":{"performerCreate":null}}`},
		{"empty id", `{"data":{"performerCreate":{"id":"","name":"Jane"}}}`},
		{"missing id", `{"data":{"performerCreate":{"name":"Jane"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestServer(t, tt.body)

			_, err := client.CreatePerformer(context.Background(), &PerformerCreateInput{Name: "Jane"})
			require.Error(t, err)
			assert.ErrorIs(t, err, graphql.ErrSchema)
		})
	}
}

func TestScrapeSinglePerformer(t *testing.T) {
	client, req := newTestServer(t, `{"data":{"scrapeSinglePerformer":[
		{"name":"Jane Doe","gender":"FEMALE","aliases":"JD, Janey","height":"168","remote_site_id":"abc"}]}}`)

	scraped, err := client.ScrapeSinglePerformer(context.Background(), "https://box.example/graphql", "Jane Doe")
	require.NoError(t, err)
	require.Len(t, scraped, 1)
	assert.Equal(t, "Jane Doe", scraped[0].Name)
	require.NotNil(t, scraped[0].Gender)
	assert.Equal(t, "FEMALE", *scraped[0].Gender)
	assert.Nil(t, scraped[0].Disambiguation)

	source := req.Variables["source"].(map[string]any)
	assert.Equal(t, "https://box.example/graphql", source["stash_box_endpoint"])
	assert.Equal(t, map[string]any{"query": "Jane Doe"}, req.Variables["input"])
}

func TestFindScenesByPath(t *testing.T) {
	client, req := newTestServer(t, `{"data":{"findScenes":{"scenes":[
		{"id":"1","performers":[]},{"id":"2","performers":[{"id":"7"}]}]}}}`)

	scenes, err := client.FindScenesByPath(context.Background(), "jane_doe")
	require.NoError(t, err)
	require.Len(t, scenes, 2)
	assert.False(t, scenes[0].HasPerformer("7"))
	assert.True(t, scenes[1].HasPerformer("7"))

	filter := req.Variables["filter"].(map[string]any)
	assert.Equal(t, "date", filter["sort"])
	assert.Equal(t, "DESC", filter["direction"])
	assert.InDelta(t, DefaultPageSize, filter["per_page"], 0)

	sceneFilter := req.Variables["scene_filter"].(map[string]any)
	assert.Equal(t, map[string]any{"value": "jane_doe", "modifier": "INCLUDES"}, sceneFilter["path"])
}

func TestFindGalleries(t *testing.T) {
	client, req := newTestServer(t, `{"data":{"findGalleries":{"count":2,"galleries":[
		{"id":"10","folder":{"path":"/lib/Jane_Doe"}},{"id":"11","folder":null}]}}}`)

	galleries, err := client.FindGalleries(context.Background(), "jane_doe")
	require.NoError(t, err)
	require.Len(t, galleries, 2)
	assert.Equal(t, "/lib/Jane_Doe", galleries[0].FolderPath())
	assert.Empty(t, galleries[1].FolderPath())

	filter := req.Variables["filter"].(map[string]any)
	assert.Equal(t, "jane_doe", filter["q"])
	assert.Equal(t, "path", filter["sort"])
}

func TestFindImagesInGallery(t *testing.T) {
	client, req := newTestServer(t, `{"data":{"findImages":{"images":[{"id":"100","performers":[{"id":"3"}]}]}}}`)

	images, err := client.FindImagesInGallery(context.Background(), "10")
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "100", images[0].ID)

	imageFilter := req.Variables["image_filter"].(map[string]any)
	assert.Equal(t, map[string]any{"value": []any{"10"}, "modifier": "INCLUDES_ALL"}, imageFilter["galleries"])
}

func TestBulkUpdatePerformers(t *testing.T) {
	tests := []struct {
		kind      Kind
		mode      UpdateMode
		operation string
		field     string
	}{
		{KindScene, ModeAdd, "BulkSceneUpdate", "bulkSceneUpdate"},
		{KindImage, ModeSet, "BulkImageUpdate", "bulkImageUpdate"},
		{KindGallery, ModeAdd, "BulkGalleryUpdate", "bulkGalleryUpdate"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			client, req := newTestServer(t, fmt.Sprintf(`{"data":{%q:[{"id":"1"},{"id":"2"}]}}`, tt.field))

			updated, err := client.BulkUpdatePerformers(context.Background(), tt.kind, []string{"1", "2"}, tt.mode, "501")
			require.NoError(t, err)
			assert.Equal(t, []string{"1", "2"}, updated)

			assert.Equal(t, tt.operation, req.OperationName)
			input := req.Variables["input"].(map[string]any)
			assert.Equal(t, []any{"1", "2"}, input["ids"])
			assert.Equal(t, map[string]any{"mode": string(tt.mode), "ids": []any{"501"}}, input["performer_ids"])
			assert.NotContains(t, input, "organized")
		})
	}
}

func TestBulkUpdatePerformers_UnknownKind(t *testing.T) {
	client, _ := newTestServer(t, `{"data":{}}`)

	_, err := client.BulkUpdatePerformers(context.Background(), Kind("movie"), []string{"1"}, ModeAdd, "501")
	require.Error(t, err)
}

func TestFindScenesByPath_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(graphql.NewClient(srv.URL, srv.Client(), "", "", nil), 0, 0, nil)

	_, err := client.FindScenesByPath(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, graphql.ErrTransport)
}
