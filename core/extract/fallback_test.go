package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackFromHTML(t *testing.T) {
	t.Parallel()

	t.Run("linearizes paragraphs and pre blocks in order", func(t *testing.T) {
		t.Parallel()
		raw := `<html><body>
<div><p>  First para  </p></div>
<pre>
  x := 1
</pre>
<ul><li>ignored</li></ul>
<p>Second</p>
</body></html>`

		got, err := FallbackFromHTML(raw)
		require.NoError(t, err)
		assert.Equal(t, "First para\n\n```\nx := 1\n```\n\nSecond\n", got)
	})

	t.Run("nested p inside pre is counted twice", func(t *testing.T) {
		t.Parallel()
		got, err := FallbackFromHTML(`<pre>code<p>para</p></pre>`)
		require.NoError(t, err)
		assert.Equal(t, "\n```\ncodepara\n```\n\npara\n", got)
	})

	t.Run("pre written inside p is split out by the parser", func(t *testing.T) {
		t.Parallel()
		got, err := FallbackFromHTML(`<p>before<pre>code</pre></p>`)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, "before\n\n```\ncode\n```\n\n"), got)
		assert.Equal(t, 1, strings.Count(got, "code"))
	})

	t.Run("no paragraphs yields empty string", func(t *testing.T) {
		t.Parallel()
		got, err := FallbackFromHTML(`<div>only a div</div>`)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
