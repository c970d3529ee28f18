package batch

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/parselinks/core"
)

// fakeConverter fails links containing "fail", panics on "panic" and
// records peak concurrency.
type fakeConverter struct {
	inFlight atomic.Int32
	peak     atomic.Int32
	calls    atomic.Int32
}

func (f *fakeConverter) Convert(_ context.Context, in core.Input) core.FinalResult {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	switch {
	case strings.Contains(in.URL, "panic"):
		panic("converter exploded")
	case strings.Contains(in.URL, "fail"):
		return core.Failure()
	}
	return core.Success("md:" + in.URL)
}

func links(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("https://example.test/%d", i)
	}
	return out
}

func TestDispatcher_Run(t *testing.T) {
	t.Parallel()

	t.Run("keeps order and isolates failures", func(t *testing.T) {
		t.Parallel()
		conv := &fakeConverter{}
		input := []string{"https://a.test/ok", "https://a.test/fail", "https://a.test/panic", "https://a.test/ok2"}

		results := New(conv).Run(context.Background(), input)
		require.Len(t, results, 4)

		for i, r := range results {
			assert.Equal(t, input[i], r.Link)
		}
		require.NotNil(t, results[0].Markdown)
		assert.Equal(t, "md:https://a.test/ok", *results[0].Markdown)
		assert.Nil(t, results[1].Markdown)
		assert.Nil(t, results[2].Markdown)
		require.NotNil(t, results[3].Markdown)
		assert.Equal(t, "md:https://a.test/ok2", *results[3].Markdown)
	})

	t.Run("truncates to the first ten", func(t *testing.T) {
		t.Parallel()
		conv := &fakeConverter{}
		input := links(14)

		results := New(conv).Run(context.Background(), input)
		require.Len(t, results, DefaultMaxPages)
		assert.Equal(t, input[9], results[9].Link)
		assert.Equal(t, int32(DefaultMaxPages), conv.calls.Load())
	})

	t.Run("bounds concurrency", func(t *testing.T) {
		t.Parallel()
		conv := &fakeConverter{}

		New(conv, WithConcurrency(2), WithMaxPages(8)).Run(context.Background(), links(8))
		assert.LessOrEqual(t, conv.peak.Load(), int32(2))
		assert.Equal(t, int32(8), conv.calls.Load())
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		results := New(&fakeConverter{}).Run(context.Background(), nil)
		assert.Empty(t, results)
	})
}
