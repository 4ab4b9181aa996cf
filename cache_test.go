package kvpairs

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingParser struct {
	Parser
	calls int
}

func (c *countingParser) ParseString(fname, text string) (Pairs, error) {
	c.calls++
	return c.Parser.ParseString(fname, text)
}

func TestCachingParser(t *testing.T) {
	inner := &countingParser{Parser: NewParser()}
	p := NewCachingParser(inner, 8, time.Minute)

	first, err := p.ParseString("a.kv", "K: [1, 2]")
	require.NoError(t, err)
	second, err := p.ParseString("b.kv", "K: [1, 2]")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, first, second)

	// callers own their results
	first["K"][0] = 100
	third, err := p.Parse("c.kv", strings.NewReader("K: [1, 2]"))
	require.NoError(t, err)
	assert.Equal(t, Pairs{"K": {1, 2}}, third)
	assert.Equal(t, Pairs{"K": {1, 2}}, second)
	assert.Equal(t, 1, inner.calls)
}

func TestCachingParser_ErrorsNotCached(t *testing.T) {
	inner := &countingParser{Parser: NewParser()}
	p := NewCachingParser(inner, 8, time.Minute)

	for i := 0; i < 2; i++ {
		_, err := p.ParseString("", "BadData: [1, two, 3]")
		var verr *ValueConversionError
		require.True(t, errors.As(err, &verr))
	}
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, p.Len())
}

func TestCachingParser_Eviction(t *testing.T) {
	inner := &countingParser{Parser: NewParser()}
	p := NewCachingParser(inner, 1, time.Minute)

	_, err := p.ParseString("", "a: [1]")
	require.NoError(t, err)
	_, err = p.ParseString("", "b: [2]")
	require.NoError(t, err)
	_, err = p.ParseString("", "a: [1]")
	require.NoError(t, err)

	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, 1, p.Len())
}
