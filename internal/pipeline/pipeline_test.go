package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/arkroute/internal/files/filesystem"
	"github.com/vvka-141/arkroute/internal/logging"
	"github.com/vvka-141/arkroute/internal/manifest"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

const (
	modDir       = "/proj/entry"
	etsDir       = modDir + "/src/main/ets"
	genDir       = etsDir + "/_generated"
	routeFile    = modDir + "/src/main/resources/base/profile/route_map.json"
	manifestFile = modDir + "/src/main/module.json5"
)

const homeSource = `import { Header } from '../components/Header'

@Route({ name: 'home', description: 'Landing page' })
@Component
export struct HomePage {
  build() {
    Header()
  }
}
`

const aboutSource = `@Route({ name: 'about' })
@Component
struct AboutPage {
  build() {}
}

@Route({ name: 'team' })
@Entry
@Component
struct TeamPage {
  build() {}
}
`

const utilSource = `export function clamp(v: number, lo: number, hi: number): number {
  return Math.min(Math.max(v, lo), hi)
}
`

const manifestSource = `{
  "module": {
    "name": "entry",
    "type": "entry"
  }
}
`

func testConfig() *arkroute.PipelineConfig {
	return &arkroute.PipelineConfig{
		ModuleName:         "entry",
		ModuleDir:          modDir,
		ScanRoot:           etsDir,
		GeneratedOutputDir: genDir,
		IndexDir:           modDir,
		ManifestPath:       manifestFile,
		RouteTablePath:     routeFile,
	}
}

func newProject() *filesystem.MemoryFileSystem {
	fs := filesystem.NewMemoryFileSystem("/proj")
	fs.AddFile(etsDir+"/pages/Home.ets", homeSource)
	fs.AddFile(etsDir+"/pages/About.ets", aboutSource)
	fs.AddFile(etsDir+"/common/Util.ets", utilSource)
	fs.AddFile(manifestFile, manifestSource)
	return fs
}

type fakeRecorder struct {
	scanned, pages, failed, runs int
	written, deleted             map[string]int
	lastErr                      error
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{written: map[string]int{}, deleted: map[string]int{}}
}

func (f *fakeRecorder) ArtifactWritten(kind string) { f.written[kind]++ }
func (f *fakeRecorder) ArtifactDeleted(kind string) { f.deleted[kind]++ }
func (f *fakeRecorder) ScanFailed()                 { f.failed++ }

func (f *fakeRecorder) FileScanned(pages int) {
	f.scanned++
	f.pages += pages
}

func (f *fakeRecorder) RunFinished(_ time.Duration, err error) {
	f.runs++
	f.lastErr = err
}

func readFile(t *testing.T, fs filesystem.FileSystemProvider, path string) string {
	t.Helper()
	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRun_GeneratesArtifacts(t *testing.T) {
	fs := newProject()
	rec := newFakeRecorder()
	runner := New(fs, WithRecorder(rec), WithLogger(logging.NewRecorder()))

	res, err := runner.Run(context.Background(), testConfig())
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 3, res.Files)
	assert.Equal(t, 3, res.Pages())
	assert.Empty(t, res.FileErrors)
	assert.Equal(t, manifest.ResultPatched, res.Manifest)

	// discovery follows directory listing order: common, then pages/About, pages/Home
	wantTable := `{
  "routerMap": [
    {
      "name": "about",
      "pageSourceFile": "src/main/ets/_generated/REXAbout.ets",
      "buildFunction": "entryAboutPageBuilder"
    },
    {
      "name": "team",
      "pageSourceFile": "src/main/ets/_generated/REXAbout.ets",
      "buildFunction": "entryTeamPageBuilder"
    },
    {
      "name": "home",
      "pageSourceFile": "src/main/ets/_generated/REXHome.ets",
      "buildFunction": "entryHomePageBuilder",
      "data": {
        "description": "Landing page"
      }
    }
  ]
}`
	assert.Equal(t, wantTable, readFile(t, fs, routeFile))

	wantHome := `// generated by arkroute, do not edit
import { HomePage } from '../pages/Home'

@Builder
export function entryHomePageBuilder(name: string, param: Object) {
  HomePage()
}
`
	assert.Equal(t, wantHome, readFile(t, fs, genDir+"/REXHome.ets"))
	assert.Contains(t, readFile(t, fs, genDir+"/REXAbout.ets"), "export function entryTeamPageBuilder(")
	assert.False(t, filesystem.Exists(fs, genDir+"/REXUtil.ets"))
	assert.Contains(t, readFile(t, fs, manifestFile), `"routerMap": "$profile:route_map"`)

	assert.Equal(t, 3, rec.scanned)
	assert.Equal(t, 3, rec.pages)
	assert.Equal(t, 1, rec.written["route_table"])
	assert.Equal(t, 2, rec.written["registration"])
	assert.Equal(t, 1, rec.runs)
	assert.NoError(t, rec.lastErr)
}

func TestRun_SecondRunIsNoop(t *testing.T) {
	fs := newProject()
	runner := New(fs)

	_, err := runner.Run(context.Background(), testConfig())
	require.NoError(t, err)
	table := readFile(t, fs, routeFile)
	home := readFile(t, fs, genDir+"/REXHome.ets")
	mf := readFile(t, fs, manifestFile)

	res, err := runner.Run(context.Background(), testConfig())
	require.NoError(t, err)

	assert.Equal(t, 0, res.Written)
	assert.Equal(t, 0, res.Deleted)
	assert.Equal(t, manifest.ResultPresent, res.Manifest)
	assert.Equal(t, table, readFile(t, fs, routeFile))
	assert.Equal(t, home, readFile(t, fs, genDir+"/REXHome.ets"))
	assert.Equal(t, mf, readFile(t, fs, manifestFile))
}

func TestRun_RemovesStaleAndLegacyFiles(t *testing.T) {
	fs := newProject()
	fs.AddFile(genDir+"/builderRegister.ets", "// legacy")
	fs.AddFile(genDir+"/Leftover.ets", "// stray")
	fs.AddFile(genDir+"/notes.txt", "keep")
	fs.AddFile(genDir+"/nested/Old.ets", "keep")
	fs.AddFile(modDir+"/Index.ets", "export { Header } from './src/main/ets/components/Header'\nexport * from './src/main/ets/_generated/builderRegister'\n\nexport * from './src/main/ets/common/Util'\n")

	res, err := New(fs).Run(context.Background(), testConfig())
	require.NoError(t, err)

	assert.False(t, filesystem.Exists(fs, genDir+"/builderRegister.ets"))
	assert.False(t, filesystem.Exists(fs, genDir+"/Leftover.ets"))
	assert.True(t, filesystem.Exists(fs, genDir+"/notes.txt"))
	assert.True(t, filesystem.Exists(fs, genDir+"/nested/Old.ets"))
	assert.Equal(t, []string{genDir + "/Leftover.ets"}, res.Pruned)
	assert.Equal(t,
		"export { Header } from './src/main/ets/components/Header'\n\nexport * from './src/main/ets/common/Util'\n",
		readFile(t, fs, modDir+"/Index.ets"))
}

func TestRun_DeletesRegistrationWhenRoutesRemoved(t *testing.T) {
	fs := newProject()
	runner := New(fs)
	_, err := runner.Run(context.Background(), testConfig())
	require.NoError(t, err)
	require.True(t, filesystem.Exists(fs, genDir+"/REXHome.ets"))

	fs.AddFile(etsDir+"/pages/Home.ets", "@Component\nexport struct HomePage {}\n")
	res, err := runner.Run(context.Background(), testConfig())
	require.NoError(t, err)

	assert.False(t, filesystem.Exists(fs, genDir+"/REXHome.ets"))
	assert.Equal(t, 2, res.Pages())
	assert.NotContains(t, readFile(t, fs, routeFile), "home")
}

func TestRun_SharedBaseNameKeepsRoutedRegistration(t *testing.T) {
	for _, dirs := range [][2]string{{"a", "b"}, {"z", "b"}} {
		routed, plain := dirs[0], dirs[1]
		t.Run(routed+"_routed", func(t *testing.T) {
			fs := filesystem.NewMemoryFileSystem("/proj")
			fs.AddFile(manifestFile, manifestSource)
			fs.AddFile(etsDir+"/"+routed+"/Index.ets", "@Route({ name: 'home' })\n@Component\nstruct HomePage {}\n")
			fs.AddFile(etsDir+"/"+plain+"/Index.ets", utilSource)
			runner := New(fs)

			_, err := runner.Run(context.Background(), testConfig())
			require.NoError(t, err)
			require.True(t, filesystem.Exists(fs, genDir+"/REXIndex.ets"))
			assert.Contains(t, readFile(t, fs, genDir+"/REXIndex.ets"), "entryHomePageBuilder")
			assert.Contains(t, readFile(t, fs, routeFile), "src/main/ets/_generated/REXIndex.ets")

			res, err := runner.Run(context.Background(), testConfig())
			require.NoError(t, err)
			assert.Zero(t, res.Written)
			assert.Zero(t, res.Deleted)
			assert.True(t, filesystem.Exists(fs, genDir+"/REXIndex.ets"))
		})
	}
}

func TestRun_FileErrorsAreIsolated(t *testing.T) {
	fs := newProject()
	fs.AddFile(etsDir+"/pages/Broken.ets", "@Route({ name: 'broken' })\n/* never closed")
	rec := newFakeRecorder()
	log := logging.NewRecorder()

	res, err := New(fs, WithRecorder(rec), WithLogger(log)).Run(context.Background(), testConfig())
	require.NoError(t, err)

	require.Len(t, res.FileErrors, 1)
	assert.Equal(t, etsDir+"/pages/Broken.ets", res.FileErrors[0].File)
	assert.True(t, errors.Is(res.FileErrors[0], arkroute.ErrParse))
	assert.Equal(t, 3, res.Pages())
	assert.Equal(t, 1, rec.failed)
	assert.True(t, log.Contains("src/main/ets/pages/Broken.ets"))
	assert.False(t, filesystem.Exists(fs, genDir+"/REXBroken.ets"))
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	fs := newProject()
	cfg := testConfig()
	cfg.DryRun = true

	res, err := New(fs).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.Equal(t, 3, res.Pages())
	assert.Equal(t, manifest.ResultMissing, res.Manifest)
	assert.False(t, filesystem.Exists(fs, routeFile))
	assert.False(t, filesystem.Exists(fs, genDir))
	assert.Equal(t, manifestSource, readFile(t, fs, manifestFile))
}

func TestRun_SkipsGeneratedDirectory(t *testing.T) {
	fs := newProject()
	runner := New(fs)
	_, err := runner.Run(context.Background(), testConfig())
	require.NoError(t, err)

	res, err := runner.Run(context.Background(), testConfig())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Files)
	assert.False(t, filesystem.Exists(fs, genDir+"/REXREXHome.ets"))
}

func TestRun_FatalErrors(t *testing.T) {
	t.Run("missing scan root", func(t *testing.T) {
		fs := filesystem.NewMemoryFileSystem("/proj")
		rec := newFakeRecorder()
		_, err := New(fs, WithRecorder(rec)).Run(context.Background(), testConfig())
		assert.ErrorIs(t, err, arkroute.ErrScanRootNotFound)
		assert.ErrorIs(t, rec.lastErr, arkroute.ErrScanRootNotFound)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := testConfig()
		cfg.ScanRoot = "relative/dir"
		_, err := New(newProject()).Run(context.Background(), cfg)
		assert.ErrorIs(t, err, arkroute.ErrInvalidConfig)
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := New(newProject()).Run(context.Background(), nil)
		assert.ErrorIs(t, err, arkroute.ErrInvalidConfig)
	})

	t.Run("missing template", func(t *testing.T) {
		cfg := testConfig()
		cfg.TemplatePath = modDir + "/missing.tmpl"
		_, err := New(newProject()).Run(context.Background(), cfg)
		assert.ErrorIs(t, err, arkroute.ErrTemplate)
	})

	t.Run("invalid manifest", func(t *testing.T) {
		fs := newProject()
		fs.AddFile(manifestFile, `{"app": {}}`)
		_, err := New(fs).Run(context.Background(), testConfig())
		assert.ErrorIs(t, err, arkroute.ErrManifestInvalid)
		assert.True(t, filesystem.Exists(fs, routeFile), "artifacts written before the failure stay")
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New(newProject()).Run(ctx, testConfig())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRun_CustomTemplateWithVars(t *testing.T) {
	fs := newProject()
	fs.AddFile(modDir+"/tools/reg.tmpl", "// owner: {{.Vars.owner}}\n{{range .PageList}}{{.BuilderFunctionName}}\n{{end}}")
	cfg := testConfig()
	cfg.TemplatePath = modDir + "/tools/reg.tmpl"
	cfg.Vars = map[string]string{"owner": "routing"}

	_, err := New(fs).Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "// owner: routing\nentryHomePageBuilder\n", readFile(t, fs, genDir+"/REXHome.ets"))
}

func TestRun_UsesInjectedRunID(t *testing.T) {
	runner := New(newProject())
	runner.newID = func() string { return "run-1" }
	log := logging.NewRecorder()
	runner.logger = log

	res, err := runner.Run(context.Background(), testConfig())
	require.NoError(t, err)
	assert.Equal(t, "run-1", res.RunID)
	assert.True(t, log.Contains("run=run-1"))
}

type staticCollector []string

func (c staticCollector) Collect(...string) ([]string, error) { return c, nil }

type staticScanner map[string][]arkroute.PageMatch

func (s staticScanner) ScanFile(path string) ([]arkroute.PageMatch, error) {
	matches, ok := s[path]
	if !ok {
		return nil, errors.New("unexpected file " + path)
	}
	return matches, nil
}

func TestRun_InjectedCollectorAndScanner(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/proj")
	fs.AddFile(manifestFile, manifestSource)
	home := etsDir + "/pages/Home.ets"

	runner := New(fs,
		WithCollector(staticCollector{home, genDir + "/REXHome.ets"}),
		WithSourceScanner(staticScanner{
			home: {{RouteName: "home", PageIdentifier: "HomePage"}},
		}),
	)
	res, err := runner.Run(context.Background(), testConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Files)
	assert.Empty(t, res.FileErrors)
	assert.Contains(t, readFile(t, fs, genDir+"/REXHome.ets"), "entryHomePageBuilder")
	assert.Contains(t, readFile(t, fs, routeFile), `"buildFunction": "entryHomePageBuilder"`)
}
