package goquery_test

import (
	"testing"

	"github.com/fwojciec/camspec"
	"github.com/fwojciec/camspec/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("rejects blank markup", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.Parse("  \n\t ")

		require.Error(t, err)
		assert.Equal(t, camspec.EINVALID, camspec.ErrorCode(err))
		assert.Equal(t, "empty markup", camspec.ErrorMessage(err))
	})

	t.Run("accepts fragments", func(t *testing.T) {
		t.Parallel()

		doc, err := goquery.Parse(`<p class="x">hello</p>`)

		require.NoError(t, err)
		assert.Equal(t, "hello", goquery.Text(goquery.QueryOne(doc.Root(), "p.x")))
	})
}

func TestQueryOne(t *testing.T) {
	t.Parallel()

	doc, err := goquery.Parse(`<div><span>first</span><span>second</span></div>`)
	require.NoError(t, err)

	t.Run("returns first match", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "first", goquery.Text(goquery.QueryOne(doc.Root(), "span")))
	})

	t.Run("returns nil on miss", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, goquery.QueryOne(doc.Root(), "table"))
	})

	t.Run("returns nil on invalid selector", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, goquery.QueryOne(doc.Root(), "span[[["))
	})

	t.Run("returns nil on nil root", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, goquery.QueryOne(nil, "span"))
	})
}

func TestQueryAll(t *testing.T) {
	t.Parallel()

	doc, err := goquery.Parse(`<ul><li>a</li><li>b</li><li>c</li></ul>`)
	require.NoError(t, err)

	t.Run("returns matches in document order", func(t *testing.T) {
		t.Parallel()

		items := goquery.QueryAll(doc.Root(), "li")

		require.Len(t, items, 3)
		assert.Equal(t, "a", goquery.Text(items[0]))
		assert.Equal(t, "c", goquery.Text(items[2]))
	})

	t.Run("returns nothing on invalid selector", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, goquery.QueryAll(doc.Root(), ">>>"))
	})
}

func TestText(t *testing.T) {
	t.Parallel()

	t.Run("returns empty string for nil", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, goquery.Text(nil))
	})

	t.Run("joins nested text and trims", func(t *testing.T) {
		t.Parallel()

		doc, err := goquery.Parse(`<p>  one <b>two</b>  </p>`)
		require.NoError(t, err)

		assert.Equal(t, "one two", goquery.Text(goquery.QueryOne(doc.Root(), "p")))
	})
}

func TestAttr(t *testing.T) {
	t.Parallel()

	doc, err := goquery.Parse(`<table><tr><td rowspan="2">k</td><td>v</td></tr></table>`)
	require.NoError(t, err)
	cells := goquery.QueryAll(doc.Root(), "td")
	require.Len(t, cells, 2)

	v, ok := goquery.Attr(cells[0], "rowspan")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
	assert.False(t, goquery.HasAttr(cells[1], "rowspan"))
	assert.False(t, goquery.HasAttr(nil, "rowspan"))
}
