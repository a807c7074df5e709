package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/arkroute/pkg/arkroute"
)

func TestLoad_AllFields(t *testing.T) {
	dir := t.TempDir()
	content := `module_name: shop
scan_dir: src/main/ets/pages
generated_dir: build/_generated
index_dir: src
route_map_path: res/route_map.json
module_json_path: src/main/module.json5
template: tools/registration.ets.tmpl

vars:
  author: routing-team

publish:
  bucket: artifacts
  prefix: shop/routes
  region: eu-west-1

serve:
  addr: 127.0.0.1:9000
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "shop", cfg.ModuleName)
	assert.Equal(t, "src/main/ets/pages", cfg.ScanDir)
	assert.Equal(t, "build/_generated", cfg.GeneratedDir)
	assert.Equal(t, "src", cfg.IndexDir)
	assert.Equal(t, "res/route_map.json", cfg.RouteMapPath)
	assert.Equal(t, "src/main/module.json5", cfg.ModuleJSONPath)
	assert.Equal(t, "tools/registration.ets.tmpl", cfg.Template)
	assert.Equal(t, "routing-team", cfg.Vars["author"])
	assert.Equal(t, PublishConfig{Bucket: "artifacts", Prefix: "shop/routes", Region: "eu-west-1"}, cfg.Publish)
	assert.Equal(t, "127.0.0.1:9000", cfg.Serve.Addr)
}

func TestLoad_MinimalYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("module_name: entry\n"), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "entry", cfg.ModuleName)
	assert.Equal(t, "", cfg.ScanDir)
	assert.Nil(t, cfg.Vars)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{{invalid"), 0644))

	cfg, err := Load(dir)
	assert.ErrorIs(t, err, arkroute.ErrInvalidConfig)
	assert.Nil(t, cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(""), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, ProjectConfig{}, *cfg)
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := &ProjectConfig{ModuleName: "entry", ScanDir: "src/main/ets", Vars: map[string]string{"k": "v"}}
	require.NoError(t, Save(dir, want))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"ARKROUTE_MODULE_NAME":    "fromenv",
		"ARKROUTE_PUBLISH_BUCKET": "bucket-env",
		"ARKROUTE_SCAN_DIR":       "",
		"ARKROUTE_VAR_author":     "env-author",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	environ := []string{"ARKROUTE_VAR_author=env-author", "ARKROUTE_VAR_=ignored", "HOME=/root"}

	cfg := &ProjectConfig{ModuleName: "yaml", ScanDir: "pages"}
	cfg.ApplyEnv(lookup, environ)

	assert.Equal(t, "fromenv", cfg.ModuleName)
	assert.Equal(t, "pages", cfg.ScanDir, "empty env values do not override")
	assert.Equal(t, "bucket-env", cfg.Publish.Bucket)
	assert.Equal(t, map[string]string{"author": "env-author"}, cfg.Vars)
}

func TestMerge(t *testing.T) {
	cfg := &ProjectConfig{ModuleName: "yaml", GeneratedDir: "gen", Vars: map[string]string{"a": "1"}}
	cfg.Merge(ProjectConfig{GeneratedDir: "flag-gen", Serve: ServeConfig{Addr: ":1"}, Vars: map[string]string{"b": "2"}})

	assert.Equal(t, "yaml", cfg.ModuleName)
	assert.Equal(t, "flag-gen", cfg.GeneratedDir)
	assert.Equal(t, ":1", cfg.Serve.Addr)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, cfg.Vars)
}

func TestResolve_Defaults(t *testing.T) {
	mod := filepath.Join(t.TempDir(), "entry")

	pc, err := Resolve(mod, nil)
	require.NoError(t, err)

	assert.Equal(t, "entry", pc.ModuleName)
	assert.Equal(t, mod, pc.ModuleDir)
	assert.Equal(t, filepath.Join(mod, "src", "main", "ets"), pc.ScanRoot)
	assert.Equal(t, filepath.Join(mod, "src", "main", "ets", "_generated"), pc.GeneratedOutputDir)
	assert.Equal(t, mod, pc.IndexDir)
	assert.Equal(t, filepath.Join(mod, "src", "main", "module.json5"), pc.ManifestPath)
	assert.Equal(t, filepath.Join(mod, "src", "main", "resources", "base", "profile", "route_map.json"), pc.RouteTablePath)
	assert.Empty(t, pc.TemplatePath)
}

func TestResolve_Overrides(t *testing.T) {
	mod := t.TempDir()
	shared := filepath.Join(t.TempDir(), "shared.tmpl")

	pc, err := Resolve(mod, &ProjectConfig{
		ModuleName:   "shop",
		ScanDir:      "src/main/ets/pages",
		GeneratedDir: "gen",
		Template:     shared,
		Vars:         map[string]string{"k": "v"},
	})
	require.NoError(t, err)

	assert.Equal(t, "shop", pc.ModuleName)
	assert.Equal(t, filepath.Join(mod, "src", "main", "ets", "pages"), pc.ScanRoot)
	assert.Equal(t, filepath.Join(mod, "gen"), pc.GeneratedOutputDir)
	assert.Equal(t, shared, pc.TemplatePath)
	assert.Equal(t, "v", pc.Vars["k"])
}

func TestResolve_RequiresModuleDir(t *testing.T) {
	_, err := Resolve("", nil)
	assert.ErrorIs(t, err, arkroute.ErrInvalidConfig)
}
