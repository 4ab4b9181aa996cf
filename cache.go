package kvpairs

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// cachingParser remembers the result of documents it already parsed.
// Only successful parses are kept.
type cachingParser struct {
	parser Parser
	cache  *expirable.LRU[string, Pairs]
}

func NewCachingParser(p Parser, size int, ttl time.Duration) *cachingParser {
	return &cachingParser{
		parser: p,
		cache:  expirable.NewLRU[string, Pairs](size, nil, ttl),
	}
}

func (c *cachingParser) Parse(fname string, r io.Reader) (Pairs, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read document")
	}
	return c.ParseString(fname, string(b))
}

func (c *cachingParser) ParseString(fname, text string) (Pairs, error) {
	key := hash(text)
	if pairs, ok := c.cache.Get(key); ok {
		log.Debug().Str("file", fname).Str("hash", key).Msg("parse cache hit")
		return pairs.Clone(), nil
	}

	pairs, err := c.parser.ParseString(fname, text)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("file", fname).Str("hash", key).Msg("parse cache miss")

	c.cache.Add(key, pairs.Clone())
	return pairs, nil
}

func (c *cachingParser) Len() int {
	return c.cache.Len()
}

func hash(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
