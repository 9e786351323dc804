package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandedliving/backoffice/internal/cli/commands"
	"github.com/brandedliving/backoffice/internal/store/storetest"
)

// project is a temporary working directory with a seed file and a sqlite path.
type project struct {
	dir   string
	seeds string
	dsn   string
}

func newProject(t *testing.T) project {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return project{
		dir:   dir,
		seeds: storetest.WriteFixtures(t, dir),
		dsn:   filepath.Join(dir, "data", "backoffice.db"),
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func (p project) seed(t *testing.T) {
	t.Helper()
	_, err := execute(t, "--dsn", p.dsn, "seed", p.seeds, "-o", "json")
	require.NoError(t, err)
}

func (p project) list(t *testing.T, args ...string) commands.ListResult {
	t.Helper()
	out, err := execute(t, append([]string{"--dsn", p.dsn, "-o", "json", "list"}, args...)...)
	require.NoError(t, err)
	var res commands.ListResult
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	return res
}

func names(res commands.ListResult) []string {
	out := make([]string, len(res.Data))
	for i, row := range res.Data {
		out[i] = row["name"]
	}
	return out
}

func TestRoot_Commands(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"serve", "list", "seed", "migrate", "version", "completion"} {
		found, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, found.Name())
	}
	for _, flag := range []string{"config", "driver", "dsn", "source", "base-url", "timeout", "page-size", "log-level", "verbose", "output"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestSeed_PrintsCounts(t *testing.T) {
	p := newProject(t)

	out, err := execute(t, "--dsn", p.dsn, "seed", p.seeds, "-o", "json")
	require.NoError(t, err)

	var res commands.SeedResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, p.seeds, res.File)
	assert.Equal(t, 4, res.Counts["brands"])
	assert.Equal(t, 3, res.Counts["residences"])
	assert.Equal(t, 3, res.Counts["amenities"])
}

func TestSeed_TextOutput(t *testing.T) {
	p := newProject(t)

	out, err := execute(t, "--dsn", p.dsn, "seed", p.seeds, "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded "+p.seeds)
	assert.Contains(t, out, "Brand Types")
}

func TestSeed_MissingFile(t *testing.T) {
	p := newProject(t)

	_, err := execute(t, "--dsn", p.dsn, "seed", filepath.Join(p.dir, "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read seed file")
}

func TestSeed_RejectsRemoteSource(t *testing.T) {
	p := newProject(t)

	_, err := execute(t, "--source", "remote", "--base-url", "http://127.0.0.1:1", "seed", p.seeds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "local database")
}

func TestList_SortsAndPages(t *testing.T) {
	p := newProject(t)
	p.seed(t)

	res := p.list(t, "brands", "--sort", "name:asc", "--size", "2")
	assert.Equal(t, "brands", res.Screen)
	assert.Equal(t, []string{"Aman", "Armani"}, names(res))
	assert.Equal(t, 4, res.Pagination.TotalItems)
	assert.Equal(t, 2, res.Pagination.TotalPages)

	res = p.list(t, "brands", "--sort", "name:asc", "--size", "2", "--page", "2")
	assert.Equal(t, []string{"Bulgari", "Ritz"}, names(res))
	assert.Equal(t, "b-ritz", res.Data[1]["id"])
}

func TestList_ClampsPastLastPage(t *testing.T) {
	p := newProject(t)
	p.seed(t)

	res := p.list(t, "brands", "--sort", "name:asc", "--size", "3", "--page", "9")
	assert.Equal(t, 2, res.Pagination.Page)
	assert.Equal(t, []string{"Ritz"}, names(res))
}

func TestList_FacetsAndQuery(t *testing.T) {
	p := newProject(t)
	p.seed(t)

	res := p.list(t, "brands", "--facet", "country=Italy", "--sort", "name:desc")
	assert.Equal(t, []string{"Bulgari", "Armani"}, names(res))

	res = p.list(t, "brands", "--facet", "country=Italy", "--facet", "country=Japan", "--sort", "name:asc")
	assert.Equal(t, []string{"Aman", "Armani", "Bulgari"}, names(res))

	res = p.list(t, "brands", "--query", "ritz")
	assert.Equal(t, []string{"Ritz"}, names(res))
}

func TestList_TextLayouts(t *testing.T) {
	p := newProject(t)
	p.seed(t)

	out, err := execute(t, "--dsn", p.dsn, "-o", "text", "list", "brands", "--layout", "table", "--sort", "name:asc")
	require.NoError(t, err)
	assert.Contains(t, out, "Brands")
	assert.Contains(t, out, "Armani")
	assert.Contains(t, out, "Page 1 of 1 (4 total)")

	out, err = execute(t, "--dsn", p.dsn, "-o", "text", "list", "amenities", "--layout", "cards")
	require.NoError(t, err)
	assert.Contains(t, out, "Wellness")
	assert.Contains(t, out, "Category:")
}

func TestList_NoResults(t *testing.T) {
	p := newProject(t)
	p.seed(t)

	out, err := execute(t, "--dsn", p.dsn, "-o", "text", "list", "brands", "--query", "zzzzzz")
	require.NoError(t, err)
	assert.Contains(t, out, "No results.")
}

func TestList_RejectsInvalidInput(t *testing.T) {
	p := newProject(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown screen", []string{"list", "planets"}, "unknown screen"},
		{"facet without value", []string{"list", "brands", "--facet", "country"}, "invalid --facet"},
		{"bad sort", []string{"list", "brands", "--sort", "name:sideways"}, "invalid --sort"},
		{"size too large", []string{"list", "brands", "--size", "101"}, "--size"},
		{"page zero", []string{"list", "brands", "--page", "0"}, "--page"},
		{"unknown layout", []string{"list", "brands", "--layout", "wide"}, "unknown layout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"--dsn", p.dsn}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMigrate_ReportsVersion(t *testing.T) {
	p := newProject(t)

	out, err := execute(t, "--dsn", p.dsn, "migrate", "-o", "json")
	require.NoError(t, err)

	var res commands.MigrateResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "sqlite", res.Driver)
	assert.Positive(t, res.Version)
}

func TestConfig_InvalidOutput(t *testing.T) {
	newProject(t)

	_, err := execute(t, "-o", "yaml", "version")
	require.Error(t, err)
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "backoffice")
}
