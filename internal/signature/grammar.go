package signature

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// typeLexer splits a type expression. `<` and `>` are always single tokens so
// that `Vec<Vec<u8>>` closes both groups.
var typeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Lifetime", Pattern: `'[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Number", Pattern: `[0-9][0-9a-zA-Z_]*`},
	{Name: "Ident", Pattern: `(?:r#)?[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "PathSep", Pattern: `::`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Lt", Pattern: `<`},
	{Name: "Gt", Pattern: `>`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Open", Pattern: `[(\[{]`},
	{Name: "Close", Pattern: `[)\]}]`},
	{Name: "Punct", Pattern: `[-+*/%^!&|@.#$?~:;=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// pathType is a (possibly qualified) path type such as `std::result::Result<T, E>`
type pathType struct {
	Leading  bool       `parser:"@PathSep?"`
	Segments []*segment `parser:"@@ ( PathSep @@ )*"`
}

type segment struct {
	Name string        `parser:"@Ident"`
	Args *genericGroup `parser:"( PathSep? Lt @@ Gt )?"`
}

type genericGroup struct {
	Entries []*genericEntry `parser:"@@*"`
}

type genericEntry struct {
	Arg   *genericArg `parser:"@@"`
	Comma bool        `parser:"@Comma?"`
}

// genericArg is one generic argument kept as a balanced token run
type genericArg struct {
	Pos    lexer.Position
	Parts  []*argPart `parser:"@@+"`
	EndPos lexer.Position
}

type argPart struct {
	Angle *angleGroup `parser:"  @@"`
	Group *delimGroup `parser:"| @@"`
	Token *string     `parser:"| @( Ident | PathSep | Lifetime | Number | String | Arrow | Punct )"`
}

type angleGroup struct {
	Parts []*innerPart `parser:"Lt @@* Gt"`
}

type delimGroup struct {
	Open  string       `parser:"@Open"`
	Parts []*innerPart `parser:"@@*"`
	Close string       `parser:"@Close"`
}

type innerPart struct {
	Angle *angleGroup `parser:"  @@"`
	Group *delimGroup `parser:"| @@"`
	Token *string     `parser:"| @( Ident | PathSep | Lifetime | Number | String | Arrow | Punct | Comma )"`
}

var typeGrammar = participle.MustBuild[pathType](
	participle.Lexer(typeLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)
