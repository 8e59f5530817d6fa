package templates

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/usertable/internal/source"
	"github.com/rshade/usertable/internal/table"
)

func render(t *testing.T, v PageView) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, IndexPage(v).Render(context.Background(), &buf))
	return buf.String()
}

func readyView(t *testing.T, records []source.Record) PageView {
	t.Helper()
	c := table.New(table.UserColumns())
	c.SetData(records)
	return PageView{Snap: c.Snapshot(), PageLabel: "Page 1 of 1", Options: []int{2, 5}}
}

func TestIndexPage_EscapesValues(t *testing.T) {
	v := readyView(t, []source.Record{{"id": "<1>", "name": `"Bobby" <b>`}})
	v.Search = `"><script>alert(1)</script>`

	body := render(t, v)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, `value="&#34;&gt;&lt;script&gt;alert(1)&lt;/script&gt;"`)
	assert.Contains(t, body, `<tr data-id="&lt;1&gt;">`)
	assert.Contains(t, body, `<td>&#34;Bobby&#34; &lt;b&gt;</td>`)
}

func TestIndexPage_Ready(t *testing.T) {
	v := readyView(t, []source.Record{{"id": "1", "name": "Leanne Graham"}})

	body := render(t, v)
	assert.Contains(t, body, `<caption>`+table.CaptionText+`</caption>`)
	assert.Contains(t, body, `<th aria-sort="none"><form method="post" action="/sort/name"><button class="sort">Name</button>`)
	assert.Contains(t, body, `<option value="5" selected>5</option>`)
	assert.Contains(t, body, `action="/page/next"><button aria-label="next page" disabled>`)
	assert.NotContains(t, body, "placeholder\"")
	assert.NotContains(t, body, `http-equiv="refresh"`)
}

func TestIndexPage_Placeholders(t *testing.T) {
	loading := table.New(table.UserColumns())
	body := render(t, PageView{Snap: loading.Snapshot()})
	assert.Contains(t, body, `http-equiv="refresh"`)
	assert.Contains(t, body, `<tr class="placeholder" data-body="loading"><td colspan="6">`+table.LoadingText+`</td></tr>`)

	failed := table.New(table.UserColumns())
	failed.SetError(errors.New("boom"))
	body = render(t, PageView{Snap: failed.Snapshot(), Options: []int{5}})
	assert.Contains(t, body, `data-body="error"`)
	assert.Contains(t, body, table.ErrorText)
	assert.Contains(t, body, `<select name="size" disabled>`)
	assert.Contains(t, body, `<button class="sort" disabled>`)
	assert.NotContains(t, body, "boom")
}
