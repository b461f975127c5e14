package printer

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlain(t *testing.T) {
	var buf bytes.Buffer
	p := New().WithOutput(&buf).WithColors(false)
	p.PrintEntry(Entry{Path: "a", Type: TypeDir, Depth: 1})
	p.PrintEntry(Entry{Path: "a/b.go", Type: TypeFile, Depth: 2})
	p.Finalize()

	assert.Equal(t, "a\na/b.go\n", buf.String())
	assert.Equal(t, int64(2), p.GetCount())
}

func TestMarkdown(t *testing.T) {
	var buf bytes.Buffer
	p := New().WithOutput(&buf).WithColors(false).WithMarkdown(true)
	p.PrintEntry(Entry{Path: "a", Type: TypeDir})
	p.PrintEntry(Entry{Path: "a/b.go", Type: TypeFile})

	assert.Equal(t, "- `a/`\n- `a/b.go`\n", buf.String())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	p := New().WithOutput(&buf).WithJSON(true)
	p.PrintEntry(Entry{Path: "a", Type: TypeDir, Depth: 1})
	p.PrintEntry(Entry{Path: "l", Type: TypeOther, Depth: 1, Symlink: true})
	p.Finalize()

	var got []Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []Entry{
		{Path: "a", Type: TypeDir, Depth: 1},
		{Path: "l", Type: TypeOther, Depth: 1, Symlink: true},
	}, got)
}

func TestJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	p := New().WithOutput(&buf).WithJSON(true)
	p.Finalize()

	var got []Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Empty(t, got)
}

func TestConcurrentPrints(t *testing.T) {
	var buf bytes.Buffer
	p := New().WithOutput(&buf).WithJSON(true)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.PrintEntry(Entry{Path: "x", Type: TypeFile})
		}()
	}
	wg.Wait()
	p.Finalize()

	var got []Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Len(t, got, 20)
	assert.Equal(t, int64(20), p.GetCount())
}
