package annotation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/arkroute/internal/files/filesystem"
	"github.com/vvka-141/arkroute/internal/logging"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

func scan(t *testing.T, src string) ([]arkroute.PageMatch, *logging.Recorder) {
	t.Helper()
	rec := logging.NewRecorder()
	s := NewScannerWithFS(filesystem.NewMemoryFileSystem("/"), rec)
	matches, err := s.ScanSource("pages/Test.ets", src)
	require.NoError(t, err)
	return matches, rec
}

func TestScanSource(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []arkroute.PageMatch
	}{
		{
			name: "two annotations",
			src: `@Component
@Route({ name: "home" })
struct HomePage {
  build() {}
}`,
			want: []arkroute.PageMatch{{RouteName: "home", PageIdentifier: "HomePage"}},
		},
		{
			name: "export keyword counts as a modifier",
			src: `@Route({ name: 'detail', description: 'Detail page' })
export struct DetailPage {}`,
			want: []arkroute.PageMatch{{RouteName: "detail", Description: "Detail page", PageIdentifier: "DetailPage"}},
		},
		{
			name: "export default",
			src: `@Route({ name: 'about' })
@Component
export default struct AboutPage {}`,
			want: []arkroute.PageMatch{{RouteName: "about", PageIdentifier: "AboutPage"}},
		},
		{
			name: "single annotation never matches",
			src: `@Route({ name: 'lonely' })
struct Lonely {}`,
		},
		{
			name: "no trailing identifier",
			src: `@Route({ name: 'orphan' })
@Component
export function orphan() {}`,
		},
		{
			name: "only the struct keyword follows",
			src: `@Route({ name: 'orphan' })
@Component
struct`,
		},
		{
			name: "route without object argument",
			src: `@Route('home')
@Component
struct Home {}`,
		},
		{
			name: "route without name",
			src: `@Route({ description: 'nameless' })
@Component
struct Nameless {}`,
		},
		{
			name: "string keyed name is ignored",
			src: `@Route({ 'name': 'quoted' })
@Component
struct Quoted {}`,
		},
		{
			name: "template literal name",
			src:  "@Route({ name: `tpl` })\n@Component\nstruct Tpl {}",
			want: []arkroute.PageMatch{{RouteName: "tpl", PageIdentifier: "Tpl"}},
		},
		{
			name: "other decorators are ignored",
			src: `@Entry
@Component
struct Index {}

@Route({ name: 'second' })
@Component
struct Second {}`,
			want: []arkroute.PageMatch{{RouteName: "second", PageIdentifier: "Second"}},
		},
		{
			name: "identifier found after unrelated nodes",
			src: `@Route({ name: 'late' })
@Component
struct
{}
const x = 1
LatePage`,
			want: []arkroute.PageMatch{{RouteName: "late", PageIdentifier: "LatePage"}},
		},
		{
			name: "later route replaces an open candidate",
			src: `@Route({ name: 'first' })
@Component
;

@Route({ name: 'second' })
@Component
struct SecondPage {}`,
			want: []arkroute.PageMatch{{RouteName: "second", PageIdentifier: "SecondPage"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := scan(t, tt.src)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanSource_TwoPagesInOrder(t *testing.T) {
	got, _ := scan(t, `import router from '@ohos.router'

@Route({ name: 'list' })
@Component
export struct ListPage {
  build() {}
}

@Builder
export function Card() {}

@Route({ name: 'grid' })
@Component
export struct GridPage {
  build() {}
}
`)

	assert.Equal(t, []arkroute.PageMatch{
		{RouteName: "list", PageIdentifier: "ListPage"},
		{RouteName: "grid", PageIdentifier: "GridPage"},
	}, got)
}

func TestScanSource_DuplicatePageSuppressedPerFile(t *testing.T) {
	src := `@Route({ name: 'a' })
@Component
struct Page {}

@Route({ name: 'b' })
@Component
struct Page {}
`
	got, _ := scan(t, src)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].RouteName)

	again, _ := scan(t, src)
	assert.Equal(t, got, again, "suppression state does not leak between files")
}

func TestScanSource_NonStringNameLogsAndContinues(t *testing.T) {
	got, rec := scan(t, `@Route({ name: PAGE_NAME })
@Component
struct Dynamic {}

@Route({ name: 'static' })
@Component
struct Static {}`)

	assert.Equal(t, []arkroute.PageMatch{{RouteName: "static", PageIdentifier: "Static"}}, got)
	require.Len(t, rec.Errors(), 1)
	assert.Contains(t, rec.Errors()[0], "not a string literal")
	assert.Contains(t, rec.Errors()[0], "pages/Test.ets")
}

func TestScanSource_LogsDiscardedCandidate(t *testing.T) {
	got, rec := scan(t, "@Route({ name: 'x' })\n@Component\n;")
	assert.Empty(t, got)
	assert.True(t, rec.Contains("discarding route-matched candidate"))
}

func TestScanFile(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/project")
	fs.AddFile("src/main/ets/pages/Home.ets", "@Route({name: 'home'})\n@Component\nexport struct Home {}")
	fs.AddFile("src/main/ets/pages/Broken.ets", "@Route({name: 'home})")

	s := NewScannerWithFS(fs, nil)

	got, err := s.ScanFile("/project/src/main/ets/pages/Home.ets")
	require.NoError(t, err)
	assert.Equal(t, []arkroute.PageMatch{{RouteName: "home", PageIdentifier: "Home"}}, got)

	_, err = s.ScanFile("/project/src/main/ets/pages/Broken.ets")
	assert.True(t, errors.Is(err, arkroute.ErrParse))

	_, err = s.ScanFile("/project/src/main/ets/pages/Missing.ets")
	assert.Error(t, err)
}

func TestNewScannerWithFS_NilFS(t *testing.T) {
	assert.Panics(t, func() { NewScannerWithFS(nil, nil) })
}
