package goquery_test

import (
	"testing"

	"github.com/fwojciec/dtdocs"
	"github.com/fwojciec/dtdocs/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiPageHTML = `<!DOCTYPE html>
<html>
<body>
<nav><a href="/">Home</a></nav>
<main>
<h1>ajax.reload() <span class="since">Since: DataTables 1.10</span></h1>
<p class="summary">Reload the table data from the Ajax data source.</p>
<div class="description">
<p>Trigger a request to the server for new data and redraw the table.</p>
<p>Use <code>ajax.url()</code> to change the URL first if needed.</p>
</div>
<table class="parameters">
<thead><tr><th>Name</th><th>Type</th><th>Optional</th><th>Default</th><th>Description</th></tr></thead>
<tbody>
<tr><td>callback</td><td>function</td><td>Yes</td><td>null</td><td>Function executed when the data has been reloaded.</td></tr>
<tr><td>resetPaging</td><td>boolean</td><td>Yes</td><td>true</td><td>Reset the paging position.</td></tr>
</tbody>
</table>
<div class="returns">DataTables.Api</div>
<div class="examples">
<div class="example">
<p>Reload the table data every 30 seconds.</p>
<pre><code class="language-js">setInterval(function () {
  table.ajax.reload();
}, 30000);</code></pre>
</div>
</div>
<div class="related">
<h3>API</h3>
<ul><li><a href="/reference/api/ajax.url()">ajax.url()</a></li></ul>
<h3>Options</h3>
<ul><li><a href="/reference/option/ajax">ajax</a></li></ul>
</div>
</main>
<footer>Copyright</footer>
</body>
</html>`

func TestExtractor_Extract_APIPage(t *testing.T) {
	t.Parallel()

	ex := goquery.NewExtractor()
	result, err := ex.Extract("https://datatables.net/reference/api/ajax.reload()", apiPageHTML)
	require.NoError(t, err)

	assert.Equal(t, "ajax.reload()", result.Title)
	assert.Equal(t, dtdocs.DocTypeAPI, result.DocType)
	assert.Equal(t, "Reference > API", result.Section)
	assert.Equal(t, "Reload the table data from the Ajax data source.", result.Summary)
	assert.Equal(t, "DataTables.Api", result.Returns)
	assert.Contains(t, result.ContentHTML, "redraw the table")
	assert.NotContains(t, result.ContentHTML, "Copyright")
	assert.NotContains(t, result.ContentHTML, "Home")
}

func TestExtractor_Extract_Parameters(t *testing.T) {
	t.Parallel()

	ex := goquery.NewExtractor()
	result, err := ex.Extract("https://datatables.net/reference/api/ajax.reload()", apiPageHTML)
	require.NoError(t, err)

	require.Len(t, result.Parameters, 2)

	first := result.Parameters[0]
	assert.Equal(t, "callback", first.Name)
	assert.Equal(t, "function", first.Type)
	assert.True(t, first.Optional)
	assert.Equal(t, "null", first.Default)
	assert.Equal(t, "Function executed when the data has been reloaded.", first.Description)
	assert.Equal(t, 0, first.Position)

	second := result.Parameters[1]
	assert.Equal(t, "resetPaging", second.Name)
	assert.Equal(t, 1, second.Position)
}

func TestExtractor_Extract_Examples(t *testing.T) {
	t.Parallel()

	ex := goquery.NewExtractor()
	result, err := ex.Extract("https://datatables.net/reference/api/ajax.reload()", apiPageHTML)
	require.NoError(t, err)

	require.Len(t, result.Examples, 1)
	assert.Equal(t, "js", result.Examples[0].Language)
	assert.Contains(t, result.Examples[0].Code, "table.ajax.reload()")
	assert.Equal(t, "Reload the table data every 30 seconds.", result.Examples[0].Description)
}

func TestExtractor_Extract_Related(t *testing.T) {
	t.Parallel()

	ex := goquery.NewExtractor()
	result, err := ex.Extract("https://datatables.net/reference/api/ajax.reload()", apiPageHTML)
	require.NoError(t, err)

	require.Len(t, result.Related, 2)
	assert.Equal(t, "ajax.url()", result.Related[0].Name)
	assert.Equal(t, dtdocs.RelatedAPI, result.Related[0].Category)
	assert.Equal(t, "/reference/api/ajax.url()", result.Related[0].URL)
	assert.Equal(t, "ajax", result.Related[1].Name)
	assert.Equal(t, dtdocs.RelatedOption, result.Related[1].Category)
}

func TestExtractor_Extract_ClassifiesByURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url     string
		docType dtdocs.DocType
		section string
	}{
		{"https://datatables.net/reference/api/rows()", dtdocs.DocTypeAPI, "Reference > API"},
		{"https://datatables.net/reference/option/paging", dtdocs.DocTypeOption, "Reference > Options"},
		{"https://datatables.net/reference/event/draw", dtdocs.DocTypeEvent, "Reference > Events"},
		{"https://datatables.net/reference/button/copy", dtdocs.DocTypeButton, "Reference > Buttons"},
		{"https://datatables.net/manual/server-side", dtdocs.DocTypeManual, "Manual > Server-side"},
		{"https://datatables.net/examples/basic_init/zero_configuration", dtdocs.DocTypeExample, "Examples"},
	}

	html := `<main><h1>title</h1><p>summary</p></main>`
	ex := goquery.NewExtractor()

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()

			result, err := ex.Extract(tt.url, html)
			require.NoError(t, err)
			assert.Equal(t, tt.docType, result.DocType)
			assert.Equal(t, tt.section, result.Section)
		})
	}
}

func TestExtractor_Extract_UnclassifiableURL(t *testing.T) {
	t.Parallel()

	ex := goquery.NewExtractor()
	_, err := ex.Extract("https://datatables.net/forums/discussion/123", "<main><h1>x</h1></main>")

	require.Error(t, err)
	assert.Equal(t, dtdocs.EINVALID, dtdocs.ErrorCode(err))
}

func TestExtractor_Extract_MissingTitle(t *testing.T) {
	t.Parallel()

	ex := goquery.NewExtractor()
	_, err := ex.Extract("https://datatables.net/manual/installation", "<main><p>no heading here</p></main>")

	require.Error(t, err)
	assert.Equal(t, dtdocs.EINVALID, dtdocs.ErrorCode(err))
}

func TestExtractor_Extract_MinimalManualPage(t *testing.T) {
	t.Parallel()

	html := `<body>
<h1>Installation</h1>
<p>DataTables can be installed with npm or a CDN.</p>
<h2>Returns</h2>
<p>void</p>
<pre class="language-bash">npm install datatables.net</pre>
</body>`

	ex := goquery.NewExtractor()
	result, err := ex.Extract("https://datatables.net/manual/installation", html)
	require.NoError(t, err)

	assert.Equal(t, "Installation", result.Title)
	assert.Equal(t, "DataTables can be installed with npm or a CDN.", result.Summary)
	assert.Equal(t, "void", result.Returns)
	assert.Empty(t, result.Parameters)
	require.Len(t, result.Examples, 1)
	assert.Equal(t, "bash", result.Examples[0].Language)
	assert.Equal(t, "npm install datatables.net", result.Examples[0].Code)
	assert.Contains(t, result.ContentHTML, "npm or a CDN")
}

func TestExtractor_Extract_ExampleLanguageDefaultsToJS(t *testing.T) {
	t.Parallel()

	html := `<main><h1>draw()</h1><p>Redraw the table.</p>
<div class="example"><pre><code>table.draw();</code></pre></div>
</main>`

	ex := goquery.NewExtractor()
	result, err := ex.Extract("https://datatables.net/reference/api/draw()", html)
	require.NoError(t, err)

	require.Len(t, result.Examples, 1)
	assert.Equal(t, "js", result.Examples[0].Language)
}

func TestExtractor_Extract_MalformedParameterTableIsSkipped(t *testing.T) {
	t.Parallel()

	html := `<main><h1>option</h1><p>summary</p>
<table class="parameters">
<thead><tr><th>Name</th><th>Type</th></tr></thead>
<tbody><tr><td></td><td>string</td></tr></tbody>
</table>
</main>`

	ex := goquery.NewExtractor()
	result, err := ex.Extract("https://datatables.net/reference/option/ajax", html)
	require.NoError(t, err)

	assert.Empty(t, result.Parameters)
}
