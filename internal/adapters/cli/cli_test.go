package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
recipes:
  - name: mine
    energy: 1
    products:
      - {type: item, name: ore, amount: 5}
  - name: smelt
    energy: 2
    ingredients:
      - {type: item, name: ore, amount: 10}
    products:
      - {type: item, name: plate, amount: 4}
  - name: press
    energy: 1
    ingredients:
      - {type: item, name: plate, amount: 2}
      - {type: item, name: rivet, amount: 1}
    products:
      - {type: item, name: sheet, amount: 1}
fluids: [water]
stack_sizes:
  plate: 100
`

const testBlocks = `
blocks:
  - id: "0,0"
    units:
      - {id: a, machine: chemical-plant, recipe: mine}
      - {id: b, machine: chemical-plant, recipe: smelt}
    stations:
      - name: "Plates [item=plate]"
        items:
          - {type: item, name: plate, count: 20}
    classification:
      "item:ore": internal
      "item:plate": export
  - id: "5,5"
`

const testTelemetry = `
production:
  "item:ore": {input_total: 100, output_total: 100}
  "item:plate": {input_total: 40, output_total: 40}
`

// setupCLI writes fact files and a config into temp dirs and points HOME
// at a fresh directory so user preferences start empty
func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())

	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		return path
	}
	catalog := write("catalog.yaml", testCatalog)
	blocks := write("blocks.yaml", testBlocks)
	telemetry := write("telemetry.yaml", testTelemetry)

	return write("config.yaml", `
solver:
  trials: 100
  seed: 17
database:
  type: sqlite
  path: `+filepath.Join(dir, "history.db")+`
logging:
  level: error
  output: stderr
facts:
  catalog: `+catalog+`
  blocks: `+blocks+`
  telemetry: `+telemetry+`
watch:
  pid_file: `+filepath.Join(dir, "watch.pid")+`
`)
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAnalyzeCommand_TextOutput(t *testing.T) {
	// Arrange
	cfg := setupCLI(t)

	// Act
	out, err := runCLI(t, "--config", cfg, "analyze", "0,0")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Block 0,0")
	assert.Contains(t, out, "item:plate")
	assert.Contains(t, out, "Exports: [item:plate]")
}

func TestAnalyzeCommand_JSONNetwork(t *testing.T) {
	cfg := setupCLI(t)

	out, err := runCLI(t, "--config", cfg, "-o", "json", "analyze", "--all")
	require.NoError(t, err)

	var views []reportView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1, "block 5,5 has no units and is skipped")
	assert.Equal(t, "0,0", views[0].Block)
	assert.Equal(t, []string{"item:plate"}, views[0].Exports)
	require.Len(t, views[0].Actions, 2)
	for _, a := range views[0].Actions {
		assert.GreaterOrEqual(t, a.Efficiency, 0.0)
		assert.LessOrEqual(t, a.Efficiency, 1.0)
	}
}

func TestAnalyzeCommand_RecordThenHistory(t *testing.T) {
	cfg := setupCLI(t)

	_, err := runCLI(t, "--config", cfg, "analyze", "0,0", "--record")
	require.NoError(t, err)

	out, err := runCLI(t, "--config", cfg, "-o", "json", "history", "--block", "0,0")
	require.NoError(t, err)

	var views []solutionView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "0,0", views[0].Block)
	assert.Regexp(t, `^analyze-[a-f0-9]{8}$`, views[0].RunID)
}

func TestAnalyzeCommand_UsesDefaultBlock(t *testing.T) {
	cfg := setupCLI(t)

	_, err := runCLI(t, "--config", cfg, "analyze")
	require.Error(t, err)

	_, err = runCLI(t, "--config", cfg, "config", "set-block", "0,0")
	require.NoError(t, err)
	out, err := runCLI(t, "--config", cfg, "analyze")
	require.NoError(t, err)
	assert.Contains(t, out, "Block 0,0")
}

func TestAnalyzeCommand_RejectsBadClassify(t *testing.T) {
	cfg := setupCLI(t)

	_, err := runCLI(t, "--config", cfg, "analyze", "0,0", "--classify", "item:plate")
	assert.Error(t, err)

	_, err = runCLI(t, "--config", cfg, "analyze", "0,0", "--classify", "item:plate=sell")
	assert.Error(t, err)
}

func TestRecipeCommand_Synthesized(t *testing.T) {
	cfg := setupCLI(t)

	out, err := runCLI(t, "--config", cfg, "-o", "yaml", "recipe", "fill-water-barrel")

	require.NoError(t, err)
	assert.Contains(t, out, "synthesized: true")
	assert.Contains(t, out, "fluid:water")
}

func TestReachCommand_Tree(t *testing.T) {
	cfg := setupCLI(t)

	out, err := runCLI(t, "--config", cfg, "reach", "--tree", "item:sheet")

	require.NoError(t, err)
	assert.Contains(t, out, "item:sheet")
	assert.Contains(t, out, "[made]")
	assert.Contains(t, out, "item:rivet [no recipe]")
}

func TestReachCommand_JSON(t *testing.T) {
	cfg := setupCLI(t)

	out, err := runCLI(t, "--config", cfg, "-o", "json", "reach")
	require.NoError(t, err)

	var view reachView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.True(t, view.Converged)
	assert.Equal(t, "0", view.Recipes["smelt"])
	assert.Equal(t, "unreachable", view.Recipes["press"])
	assert.Contains(t, view.Unreachable, "press")
	assert.Equal(t, "0", view.Colons["item:plate"])
	assert.Equal(t, "unreachable", view.Colons["item:sheet"])
}

func TestReachCommand_TextListsIdCosts(t *testing.T) {
	cfg := setupCLI(t)

	out, err := runCLI(t, "--config", cfg, "reach")

	require.NoError(t, err)
	assert.Contains(t, out, "Ids:")
	assert.Regexp(t, `item:sheet\s+unreachable`, out)
	assert.Regexp(t, `item:ore\s+0`, out)
}

func TestLogisticsCommand_Shortages(t *testing.T) {
	cfg := setupCLI(t)

	out, err := runCLI(t, "--config", cfg, "-o", "json", "logistics", "--shortages")
	require.NoError(t, err)

	var shortages map[string][]string
	require.NoError(t, json.Unmarshal([]byte(out), &shortages))
	assert.Equal(t, []string{"item:plate"}, shortages["0,0"])
}

func TestConfigCommand_SetIntentAndShow(t *testing.T) {
	cfg := setupCLI(t)

	_, err := runCLI(t, "--config", cfg, "config", "set-intent", "item:ore", "import")
	require.NoError(t, err)

	out, err := runCLI(t, "--config", cfg, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "item:ore = import")
	assert.Contains(t, out, "Trials:           100")
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "postgres://bf:****@db:5432/bf", maskPassword("postgres://bf:secret@db:5432/bf"))
	assert.Equal(t, "postgres://db/bf", maskPassword("postgres://db/bf"))
}
