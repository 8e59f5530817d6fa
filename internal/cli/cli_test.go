package cli_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/usertable/internal/cli"
	"github.com/rshade/usertable/internal/cli/pagination"
	"github.com/rshade/usertable/internal/config"
	"github.com/rshade/usertable/internal/render"
	"github.com/rshade/usertable/internal/source"
	"github.com/rshade/usertable/internal/table"
)

func usersJSON() []byte {
	users := make([]map[string]any, 12)
	for i := range users {
		city := "Shelbyville"
		if i%4 == 0 {
			city = "Springfield"
		}
		users[i] = map[string]any{
			"id":      i + 1,
			"name":    fmt.Sprintf("User %02d", i+1),
			"email":   fmt.Sprintf("user%d@example.com", i+1),
			"address": map[string]any{"city": city},
			"company": map[string]any{"name": "Acme"},
			"phone":   "555-0100",
		}
	}
	data, _ := json.Marshal(users)
	return data
}

// usersServer serves the twelve-user fixture, or status when it is not 200.
func usersServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "unavailable", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(usersJSON())
	}))
	t.Cleanup(ts.Close)
	return ts
}

// setupCLITest isolates the config directory and global state.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("USERTABLE_HOME", home)
	t.Setenv("USERTABLE_LOG_LEVEL", "error")
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func listJSON(t *testing.T, args ...string) render.Document {
	t.Helper()
	ts := usersServer(t, http.StatusOK)
	out, err := execute(t, append([]string{"list", "--source-url", ts.URL, "--output", "json"}, args...)...)
	require.NoError(t, err, out)

	var doc render.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	return doc
}

func TestList_Table(t *testing.T) {
	setupCLITest(t)
	ts := usersServer(t, http.StatusOK)

	out, err := execute(t, "list", "--source-url", ts.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "User 01")
	assert.NotContains(t, out, "User 06")
	assert.Contains(t, out, table.CaptionText)
	assert.Contains(t, out, "Page 1 of 3")
}

func TestList_Pages(t *testing.T) {
	setupCLITest(t)

	doc := listJSON(t, "--page", "3")
	assert.Equal(t, 3, doc.Pagination.CurrentPage)
	assert.Len(t, doc.Rows, 2)

	doc = listJSON(t, "--page", "9")
	assert.Equal(t, 3, doc.Pagination.CurrentPage, "a page past the end lands on the last page")

	doc = listJSON(t, "--page-size", "8")
	assert.Equal(t, 2, doc.Pagination.TotalPages)
	assert.Len(t, doc.Rows, 8)
}

func TestList_SortFilterSearch(t *testing.T) {
	setupCLITest(t)

	doc := listJSON(t, "--sort", "name:desc")
	assert.Equal(t, "User 12", doc.Rows[0]["name"])
	assert.Equal(t, table.Descending, doc.Columns[1].Direction)

	doc = listJSON(t, "--filter", "address.city=springfield")
	assert.Equal(t, 3, doc.Pagination.TotalItems)
	assert.Equal(t, 1, doc.Pagination.TotalPages)

	doc = listJSON(t, "--search", "user 1")
	assert.Equal(t, 3, doc.Pagination.TotalItems)

	doc = listJSON(t, "--search", "springfield")
	assert.Equal(t, 0, doc.Pagination.TotalItems, "search matches names only")
	assert.Equal(t, "ready", doc.Status)
}

func TestList_YAML(t *testing.T) {
	setupCLITest(t)
	ts := usersServer(t, http.StatusOK)

	out, err := execute(t, "list", "--source-url", ts.URL, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "status: ready")
	assert.Contains(t, out, "current_page: 1")
}

func TestList_InvalidFlags(t *testing.T) {
	setupCLITest(t)
	ts := usersServer(t, http.StatusOK)

	for name, tc := range map[string]struct {
		args []string
		want error
	}{
		"bad sort field":   {[]string{"--sort", "password"}, pagination.ErrInvalidSortField},
		"bad sort order":   {[]string{"--sort", "name:up"}, pagination.ErrInvalidSortOrder},
		"bad filter":       {[]string{"--filter", "name"}, pagination.ErrInvalidFilterFormat},
		"bad filter field": {[]string{"--filter", "password=x"}, pagination.ErrInvalidFilterField},
		"bad page":         {[]string{"--page", "0"}, pagination.ErrInvalidPage},
		"bad page size":    {[]string{"--page-size", "5000"}, pagination.ErrInvalidPageSize},
		"bad output":       {[]string{"--output", "csv"}, render.ErrUnknownFormat},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, append([]string{"list", "--source-url", ts.URL}, tc.args...)...)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestList_FetchFailure(t *testing.T) {
	setupCLITest(t)
	ts := usersServer(t, http.StatusServiceUnavailable)

	out, err := execute(t, "list", "--source-url", ts.URL)
	require.ErrorIs(t, err, source.ErrFetchFailed)
	assert.Contains(t, out, table.ErrorText)
	assert.Contains(t, out, "Page 1 of 1")
}

func TestList_ConfigSources(t *testing.T) {
	home := setupCLITest(t)

	// Config file.
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte("table:\n  page_size: 2\n"), 0o600))
	doc := listJSON(t)
	assert.Equal(t, 6, doc.Pagination.TotalPages)

	// --config overlay replaces the table section.
	overlay := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(overlay, []byte("table:\n  page_size: 8\n"), 0o600))
	doc = listJSON(t, "--config", overlay)
	assert.Equal(t, 2, doc.Pagination.TotalPages)

	// Environment beats both.
	t.Setenv("USERTABLE_PAGE_SIZE", "10")
	doc = listJSON(t, "--config", overlay)
	assert.Equal(t, 10, doc.Pagination.PageSize)

	// Global search fields from the environment.
	t.Setenv("USERTABLE_GLOBAL_FILTER_FIELDS", "name,address.city")
	doc = listJSON(t, "--search", "springfield")
	assert.Equal(t, 3, doc.Pagination.TotalItems)
}

func TestList_DefaultOutputFromConfig(t *testing.T) {
	setupCLITest(t)
	t.Setenv("USERTABLE_OUTPUT_FORMAT", "json")
	ts := usersServer(t, http.StatusOK)

	out, err := execute(t, "list", "--source-url", ts.URL)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))
}

func TestBrowse_NonInteractiveFallsBackToList(t *testing.T) {
	setupCLITest(t)
	ts := usersServer(t, http.StatusOK)

	for _, args := range [][]string{
		{"browse", "--source-url", ts.URL},
		{"--source-url", ts.URL},
	} {
		out, err := execute(t, args...)
		require.NoError(t, err)
		assert.Contains(t, out, "User 01")
		assert.Contains(t, out, "Page 1 of 3")
	}
}

func TestInvalidConfiguration(t *testing.T) {
	setupCLITest(t)
	t.Setenv("USERTABLE_PAGE_SIZE", "0")

	_, err := execute(t, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table.page_size")
}

func TestConfigInit(t *testing.T) {
	home := setupCLITest(t)

	out, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")

	path := filepath.Join(home, "config.yaml")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Defaults().Table, cfg.Table)

	_, err = execute(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigShowAndValidate(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "config", "show", "--source-url", "http://users.example/api")
	require.NoError(t, err)
	assert.Contains(t, out, "url: http://users.example/api")
	assert.Contains(t, out, "page_size: 5")

	out, err = execute(t, "config", "validate", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "127.0.0.1:8080")
}

func TestVersion(t *testing.T) {
	setupCLITest(t)
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "usertable version test")
}
