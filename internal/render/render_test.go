package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/arkroute/internal/files/filesystem"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

func pages() []arkroute.PageRegistrationEntry {
	return []arkroute.PageRegistrationEntry{
		{PageIdentifier: "HomePage", ImportPath: "../pages/Home", BuilderFunctionName: "entryHomePageBuilder", GeneratedFileName: "REXHome.ets"},
		{PageIdentifier: "FeedPage", ImportPath: "../pages/Home", BuilderFunctionName: "entryFeedPageBuilder", GeneratedFileName: "REXHome.ets"},
	}
}

func TestDefault_SinglePage(t *testing.T) {
	out, err := Default().Render(Data{PageList: pages()[:1]})
	require.NoError(t, err)

	want := `// generated by arkroute, do not edit
import { HomePage } from '../pages/Home'

@Builder
export function entryHomePageBuilder(name: string, param: Object) {
  HomePage()
}
`
	assert.Equal(t, want, string(out))
}

func TestDefault_MultiplePages(t *testing.T) {
	out, err := Default().Render(Data{PageList: pages()})
	require.NoError(t, err)

	want := `// generated by arkroute, do not edit
import { HomePage } from '../pages/Home'
import { FeedPage } from '../pages/Home'

@Builder
export function entryHomePageBuilder(name: string, param: Object) {
  HomePage()
}

@Builder
export function entryFeedPageBuilder(name: string, param: Object) {
  FeedPage()
}
`
	assert.Equal(t, want, string(out))
}

func TestRender_Deterministic(t *testing.T) {
	r := Default()
	a, err := r.Render(Data{PageList: pages()})
	require.NoError(t, err)
	b, err := r.Render(Data{PageList: pages()})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParse_CustomTemplate(t *testing.T) {
	r, err := Parse("custom", `// {{.Vars.owner}} {{.ModuleName}}
{{range .PageList}}{{.BuilderFunctionName | lower}} {{basename .ImportPath}}
{{end}}`)
	require.NoError(t, err)

	out, err := r.Render(Data{PageList: pages(), ModuleName: "entry", Vars: map[string]string{"owner": "team-a"}})
	require.NoError(t, err)
	assert.Equal(t, "// team-a entry\nentryhomepagebuilder Home\nentryfeedpagebuilder Home\n", string(out))
}

func TestTemplateErrors(t *testing.T) {
	_, err := Parse("broken", "{{range .PageList}")
	require.Error(t, err)
	assert.True(t, errors.Is(err, arkroute.ErrTemplate))

	r, err := Parse("missing", "{{.Vars.nope}}")
	require.NoError(t, err)
	_, err = r.Render(Data{Vars: map[string]string{}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, arkroute.ErrTemplate))

	r, err = Parse("field", "{{.NoSuchField}}")
	require.NoError(t, err)
	_, err = r.Render(Data{})
	assert.True(t, errors.Is(err, arkroute.ErrTemplate))
}

func TestLoad(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/project")
	fs.AddFile("tools/register.tmpl", "{{len .PageList}}")

	r, err := Load(fs, "/project/tools/register.tmpl")
	require.NoError(t, err)
	assert.Equal(t, "/project/tools/register.tmpl", r.Name())
	out, err := r.Render(Data{PageList: pages()})
	require.NoError(t, err)
	assert.Equal(t, "2", string(out))

	r, err = Load(fs, "")
	require.NoError(t, err)
	assert.Equal(t, "registration", r.Name())

	_, err = Load(fs, "/project/tools/missing.tmpl")
	assert.True(t, errors.Is(err, arkroute.ErrTemplate))
}
