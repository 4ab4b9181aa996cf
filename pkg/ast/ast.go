package ast

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var kvLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\r\n]*`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z_\d]*`},
	{Name: "Int", Pattern: `-?\d+`},
	{Name: "Punct", Pattern: `[][:,]`},
	{Name: "EOL", Pattern: `\r?\n`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
	// anything else reaches the parser, which reports what it expected
	{Name: "Invalid", Pattern: `.`},
})

// File is a whole document. Blank lines are consumed as bare line breaks.
type File struct {
	Entries []Entry `parser:"( EOL | @@ )*"`
}

// Entry is a single non-blank line.
type Entry interface{ entry() }

type Comment struct {
	Text string `parser:"@Comment EOL"`
}

func (Comment) entry() {}

type Pair struct {
	Key   string `parser:"@Ident ':'"`
	Value List   `parser:"@@ EOL"`
}

func (Pair) entry() {}

type List struct {
	Numbers []Number `parser:"'[' ( @@ ( ',' @@ )* )? ']'"`
}

// Number keeps the literal as written. Words are accepted in the value
// slot so the binder can report the key they belong to.
type Number struct {
	Pos lexer.Position
	Raw string `parser:"@( Int | Ident )"`
}

// Build returns the document grammar.
func Build() (*participle.Parser[File], error) {
	return participle.Build[File](
		participle.Lexer(kvLexer),
		participle.Elide("Whitespace"),
		participle.Union[Entry](Comment{}, Pair{}),
	)
}

func MustBuild() *participle.Parser[File] {
	p, err := Build()
	if err != nil {
		panic(err)
	}
	return p
}
