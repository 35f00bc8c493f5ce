package script

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	script "google.golang.org/api/script/v1"

	"github.com/teemow/scriptsync/internal/google"
	"github.com/teemow/scriptsync/internal/instrumentation"
)

func TestNewClient_RequiresScriptID(t *testing.T) {
	_, err := NewClient(context.Background(), "")
	assert.Error(t, err)
}

func TestClient_UpsertFile_ReplacesExisting(t *testing.T) {
	api := newFakeScriptAPI(t, "script-1",
		&script.File{Name: "appsscript", Type: "JSON", Source: "{}"},
		&script.File{Name: "Config", Type: "SERVER_JS", Source: "old"},
		&script.File{Name: "Utils", Type: "SERVER_JS", Source: "utils"},
	)
	c := api.client(t)

	result, err := c.UpsertFile(context.Background(), "Config.gs", "new")
	require.NoError(t, err)

	assert.True(t, result.Replaced)
	assert.Equal(t, "Config", result.Name)
	assert.Equal(t, KindServerJS, result.Kind)
	assert.Equal(t, 3, result.FileCount)
	assert.Equal(t, 3, len(api.submitted()), "list length unchanged")
	assert.Equal(t, "new", api.submitted()[1].Source)
	assert.Equal(t, "utils", api.submitted()[2].Source)

	gets, puts := api.counts()
	assert.Equal(t, 1, gets)
	assert.Equal(t, 1, puts)
}

func TestClient_UpsertFile_AppendsMissing(t *testing.T) {
	api := newFakeScriptAPI(t, "script-1",
		&script.File{Name: "appsscript", Type: "JSON", Source: "{}"},
		&script.File{Name: "Config", Type: "SERVER_JS", Source: "config"},
	)
	c := api.client(t)

	result, err := c.UpsertFile(context.Background(), "Triggers.gs", "function onOpen() {}")
	require.NoError(t, err)

	assert.False(t, result.Replaced)
	assert.Equal(t, 3, result.FileCount)
	require.Len(t, api.submitted(), 3, "list length +1")
	assert.Equal(t, "Triggers", api.submitted()[2].Name)
	assert.Equal(t, "SERVER_JS", api.submitted()[2].Type)
	assert.Equal(t, "function onOpen() {}", api.submitted()[2].Source)
}

func TestClient_UpsertFile_DropsNullEntries(t *testing.T) {
	api := newFakeScriptAPI(t, "script-1",
		&script.File{Name: "appsscript", Type: "JSON", Source: "{}"},
		nil,
		&script.File{Name: "Config", Type: "SERVER_JS", Source: "old"},
	)
	c := api.client(t)

	result, err := c.UpsertFile(context.Background(), "Config.gs", "new")
	require.NoError(t, err)

	assert.True(t, result.Replaced)
	assert.Equal(t, 2, result.FileCount)
	require.Len(t, api.submitted(), 2)
	for _, f := range api.submitted() {
		assert.NotNil(t, f)
	}
	assert.Equal(t, "new", api.submitted()[1].Source)
}

func TestClient_UpsertFile_SpanAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	api := newFakeScriptAPI(t, "script-1")
	c := api.client(t)

	_, err := c.UpsertFile(context.Background(), "Main.gs", "main")
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	for _, span := range spans {
		attrs := map[string]string{}
		for _, kv := range span.Attributes() {
			attrs[string(kv.Key)] = kv.Value.Emit()
		}
		assert.Equal(t, "script-1", attrs[instrumentation.SpanAttrScriptID], span.Name())
		assert.Equal(t, "Main.gs", attrs[instrumentation.SpanAttrFile], span.Name())
	}
}

func TestClient_UpsertFile_EmptyProject(t *testing.T) {
	api := newFakeScriptAPI(t, "script-1")
	c := api.client(t)

	result, err := c.UpsertFile(context.Background(), "Main.gs", "main")
	require.NoError(t, err)

	assert.False(t, result.Replaced)
	assert.Equal(t, 1, result.FileCount)
}

func TestClient_UpsertFile_GetFails(t *testing.T) {
	api := newFakeScriptAPI(t, "script-1")
	api.configure(func(f *fakeScriptAPI) { f.failGet = http.StatusForbidden })
	c := api.client(t)

	_, err := c.UpsertFile(context.Background(), "Main.gs", "main")
	require.Error(t, err)

	var apiErr *googleapi.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Code)

	_, puts := api.counts()
	assert.Zero(t, puts, "no write after a failed read")
}

func TestClient_UpsertFile_PutFails(t *testing.T) {
	api := newFakeScriptAPI(t, "script-1")
	api.configure(func(f *fakeScriptAPI) { f.failPut = true })
	c := api.client(t)

	_, err := c.UpsertFile(context.Background(), "Main.gs", "main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update project content")
}

func TestClient_Files(t *testing.T) {
	api := newFakeScriptAPI(t, "script-1",
		&script.File{Name: "Config", Type: "SERVER_JS"},
		&script.File{Name: "Sidebar", Type: "HTML"},
	)

	files, err := api.client(t).Files(context.Background())
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestClient_Project(t *testing.T) {
	api := newFakeScriptAPI(t, "script-1")
	api.configure(func(f *fakeScriptAPI) {
		f.project = &script.Project{
			ScriptId:   "script-1",
			Title:      "Ledger",
			ParentId:   "sheet-9",
			CreateTime: "2024-03-01T10:00:00Z",
			UpdateTime: "2024-04-02T11:30:00Z",
		}
	})

	info, err := api.client(t).Project(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Ledger", info.Title)
	assert.True(t, info.Bound())
	assert.Equal(t, "sheet-9", info.ParentID)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), info.CreateTime)
	assert.Equal(t, time.Date(2024, 4, 2, 11, 30, 0, 0, time.UTC), info.UpdateTime)
}

type failingProvider struct{}

func (failingProvider) TokenSource(context.Context) (oauth2.TokenSource, error) {
	return nil, errors.New("no token")
}

type staticProvider struct {
	token *oauth2.Token
}

func (p staticProvider) TokenSource(context.Context) (oauth2.TokenSource, error) {
	return oauth2.StaticTokenSource(p.token), nil
}

func TestNewClientWithProvider(t *testing.T) {
	_, err := NewClientWithProvider(context.Background(), "script-1", failingProvider{})
	assert.Error(t, err)

	var provider google.TokenProvider = staticProvider{token: &oauth2.Token{AccessToken: "abc"}}
	c, err := NewClientWithProvider(context.Background(), "script-1", provider)
	require.NoError(t, err)
	assert.Equal(t, "script-1", c.ScriptID())
}
