package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/arkroute/pkg/arkroute"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type PublishConfig struct {
	Bucket string `yaml:"bucket,omitempty"`
	Prefix string `yaml:"prefix,omitempty"`
	Region string `yaml:"region,omitempty"`
}

type ServeConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// ProjectConfig is the content of arkroute.yaml. Relative paths are
// relative to the module directory.
type ProjectConfig struct {
	ModuleName     string            `yaml:"module_name,omitempty"`
	ScanDir        string            `yaml:"scan_dir,omitempty"`
	GeneratedDir   string            `yaml:"generated_dir,omitempty"`
	IndexDir       string            `yaml:"index_dir,omitempty"`
	RouteMapPath   string            `yaml:"route_map_path,omitempty"`
	ModuleJSONPath string            `yaml:"module_json_path,omitempty"`
	Template       string            `yaml:"template,omitempty"`
	Vars           map[string]string `yaml:"vars,omitempty"`
	Publish        PublishConfig     `yaml:"publish,omitempty"`
	Serve          ServeConfig       `yaml:"serve,omitempty"`
}

const ConfigFileName = arkroute.ConfigFileName

func Load(moduleDir string) (*ProjectConfig, error) {
	configPath := filepath.Join(moduleDir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", configPath, err, arkroute.ErrInvalidConfig)
	}
	return &cfg, nil
}

// Save writes cfg to the module directory, replacing any existing file.
func Save(moduleDir string, cfg *ProjectConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(moduleDir, ConfigFileName), data, 0644)
}

// envBindings maps ARKROUTE_* suffixes to the fields they override.
func envBindings(c *ProjectConfig) map[string]*string {
	return map[string]*string{
		"MODULE_NAME":      &c.ModuleName,
		"SCAN_DIR":         &c.ScanDir,
		"GENERATED_DIR":    &c.GeneratedDir,
		"INDEX_DIR":        &c.IndexDir,
		"ROUTE_MAP_PATH":   &c.RouteMapPath,
		"MODULE_JSON_PATH": &c.ModuleJSONPath,
		"TEMPLATE":         &c.Template,
		"PUBLISH_BUCKET":   &c.Publish.Bucket,
		"PUBLISH_PREFIX":   &c.Publish.Prefix,
		"PUBLISH_REGION":   &c.Publish.Region,
		"SERVE_ADDR":       &c.Serve.Addr,
	}
}

// ApplyEnv overrides fields from ARKROUTE_* variables found by lookup.
// Empty values are ignored. ARKROUTE_VAR_<NAME> sets template variable NAME.
func (c *ProjectConfig) ApplyEnv(lookup func(string) (string, bool), environ []string) {
	for suffix, field := range envBindings(c) {
		if v, ok := lookup(arkroute.EnvPrefix + suffix); ok && v != "" {
			*field = v
		}
	}

	varPrefix := arkroute.EnvPrefix + "VAR_"
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, varPrefix) || len(key) == len(varPrefix) {
			continue
		}
		if c.Vars == nil {
			c.Vars = make(map[string]string)
		}
		c.Vars[strings.TrimPrefix(key, varPrefix)] = value
	}
}

// Merge copies every non-empty field of override over c.
func (c *ProjectConfig) Merge(override ProjectConfig) {
	dst := envBindings(c)
	for key, src := range envBindings(&override) {
		if *src != "" {
			*dst[key] = *src
		}
	}
	for k, v := range override.Vars {
		if c.Vars == nil {
			c.Vars = make(map[string]string)
		}
		c.Vars[k] = v
	}
}

// Resolve turns the project configuration into absolute pipeline paths,
// applying the default module layout for anything unset.
func Resolve(moduleDir string, c *ProjectConfig) (*arkroute.PipelineConfig, error) {
	if c == nil {
		c = &ProjectConfig{}
	}
	if moduleDir == "" {
		return nil, fmt.Errorf("module directory is required: %w", arkroute.ErrInvalidConfig)
	}
	abs, err := filepath.Abs(moduleDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve module directory %q: %v: %w", moduleDir, err, arkroute.ErrInvalidConfig)
	}
	moduleDir = abs

	at := func(value, fallback string) string {
		if value == "" {
			value = fallback
		}
		if filepath.IsAbs(value) {
			return filepath.Clean(value)
		}
		return filepath.Join(moduleDir, filepath.FromSlash(value))
	}

	name := c.ModuleName
	if name == "" {
		name = filepath.Base(moduleDir)
	}

	pc := &arkroute.PipelineConfig{
		ModuleName:         name,
		ModuleDir:          moduleDir,
		ScanRoot:           at(c.ScanDir, arkroute.DefaultScanDir),
		GeneratedOutputDir: at(c.GeneratedDir, arkroute.DefaultGeneratedDir),
		IndexDir:           at(c.IndexDir, "."),
		ManifestPath:       at(c.ModuleJSONPath, arkroute.DefaultManifestPath),
		RouteTablePath:     at(c.RouteMapPath, arkroute.DefaultRouteMapDir+"/"+arkroute.DefaultRouteMapFile),
		Vars:               c.Vars,
	}
	if c.Template != "" {
		pc.TemplatePath = at(c.Template, "")
	}

	if err := pc.Validate(); err != nil {
		return nil, err
	}
	return pc, nil
}
