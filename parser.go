package kvpairs

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/kvpairs/pkg/ast"
	"github.com/pkg/errors"
)

// Pairs maps every key of a document to its values, in the order they were
// written.
type Pairs map[string][]int32

type Parser interface {
	Parse(fname string, r io.Reader) (Pairs, error)
	ParseString(fname, text string) (Pairs, error)
}

type parser struct {
	parser *participle.Parser[ast.File]
}

// used by ParseKeyValuePairs
var defaultParser = NewParser()

func NewParser() *parser {
	return &parser{parser: ast.MustBuild()}
}

// ParseKeyValuePairs parses a whole document held in memory.
func ParseKeyValuePairs(text string) (Pairs, error) {
	return defaultParser.ParseString("", text)
}

func (p *parser) Parse(fname string, r io.Reader) (Pairs, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read document")
	}
	return p.ParseString(fname, string(b))
}

func (p *parser) ParseString(fname, text string) (Pairs, error) {
	// every line of the grammar ends with a line break
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	file, err := p.parser.ParseString(fname, text)
	if err != nil {
		return nil, newSyntaxError(err)
	}
	return p.bind(file)
}

// Converts the matched document into the final mapping
func (p *parser) bind(f *ast.File) (Pairs, error) {
	pairs := make(Pairs)

	for _, entry := range f.Entries {
		switch e := entry.(type) {
		case ast.Comment:
			continue
		case ast.Pair:
			values, err := p.convert(e.Value)
			if err != nil {
				return nil, &ValueConversionError{Key: e.Key, Literal: err.Num, Err: err}
			}
			// later keys overwrite earlier ones
			pairs[e.Key] = values
		}
	}
	return pairs, nil
}

func (p *parser) convert(l ast.List) ([]int32, *strconv.NumError) {
	values := make([]int32, 0, len(l.Numbers))
	for _, n := range l.Numbers {
		v, err := strconv.ParseInt(strings.TrimSpace(n.Raw), 10, 32)
		if err != nil {
			var numErr *strconv.NumError
			if !errors.As(err, &numErr) {
				numErr = &strconv.NumError{Func: "ParseInt", Num: n.Raw, Err: err}
			}
			return nil, numErr
		}
		values = append(values, int32(v))
	}
	return values, nil
}
