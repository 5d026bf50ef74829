package directives

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// metaLexer tokenizes the inside of an attribute argument list. Rule order
// matters: the first matching rule wins.
var metaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*(?s:.*?)\*/`},
	{Name: "RawString", Pattern: `r#+"(?s:.*?)"#+|r"[^"]*"`},
	{Name: "ByteString", Pattern: `b"(?:\\.|[^"\\])*"`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Char", Pattern: `b?'(?:\\.|[^'\\])'`},
	{Name: "Lifetime", Pattern: `'[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Number", Pattern: `[0-9][0-9a-zA-Z_]*(?:\.[0-9][0-9a-zA-Z_]*)?`},
	{Name: "Ident", Pattern: `(?:r#)?[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "PathSep", Pattern: `::`},
	{Name: "Op", Pattern: `==|!=|<=|>=|&&|\|\||=>|->|\.\.=?|<<|>>`},
	{Name: "Eq", Pattern: `=`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Semi", Pattern: `;`},
	{Name: "Open", Pattern: `[(\[{]`},
	{Name: "Close", Pattern: `[)\]}]`},
	{Name: "Punct", Pattern: `[-+*/%^!&|<>@.#$?~:]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// metaList is a list of metas. Separators are captured per entry and checked
// after parsing so that a missing comma gets a precise diagnostic.
type metaList struct {
	Entries []*entry `parser:"@@*"`
}

type entry struct {
	Meta  *meta `parser:"@@"`
	Comma bool  `parser:"@Comma?"`
}

// meta is one entry: `path`, `path = expr` or `path(tokens)`
type meta struct {
	Pos    lexer.Position
	Path   *metaPath `parser:"@@"`
	Value  *expr     `parser:"( Eq @@"`
	List   *group    `parser:"| @@ )?"`
	EndPos lexer.Position
}

type metaPath struct {
	Pos      lexer.Position
	Leading  bool     `parser:"@PathSep?"`
	Segments []string `parser:"@Ident ( PathSep @Ident )*"`
	EndPos   lexer.Position
}

func (p *metaPath) String() string {
	key := strings.Join(p.Segments, "::")
	if p.Leading {
		key = "::" + key
	}
	return key
}

// expr is a shallow expression. Only enough structure is kept to find where
// a value ends and whether it is a single string literal.
type expr struct {
	Pos    lexer.Position
	Unary  []string   `parser:"@( '-' | '!' | '&' | '*' )*"`
	Atom   *atom      `parser:"@@"`
	Post   []*postfix `parser:"@@*"`
	Binary *binary    `parser:"@@?"`
	EndPos lexer.Position
}

// literal returns the literal token if the expression is exactly one literal
func (e *expr) literal() (string, bool) {
	if len(e.Unary) > 0 || len(e.Post) > 0 || e.Binary != nil || e.Atom.Literal == nil {
		return "", false
	}
	return *e.Atom.Literal, true
}

type atom struct {
	Literal *string   `parser:"  @( String | RawString | ByteString | Char | Number )"`
	Path    *metaPath `parser:"| @@"`
	Group   *group    `parser:"| @@"`
}

type postfix struct {
	Macro *group  `parser:"  '!' @@"`
	Call  *group  `parser:"| @@"`
	Field *string `parser:"| '.' @( Ident | Number )"`
	Try   bool    `parser:"| @'?'"`
}

type binary struct {
	Op      string `parser:"@( Op | '+' | '-' | '*' | '/' | '%' | '^' | '&' | '|' | '<' | '>' )"`
	Operand *expr  `parser:"@@"`
}

// group is a delimited token tree; its contents are kept opaque
type group struct {
	Pos    lexer.Position
	Open   string       `parser:"@Open"`
	Trees  []*tokenTree `parser:"@@*"`
	Close  string       `parser:"@Close"`
	EndPos lexer.Position
}

// balanced reports whether every nested delimiter is closed by its partner
func (g *group) balanced() bool {
	if closing[g.Open] != g.Close {
		return false
	}
	for _, tree := range g.Trees {
		if tree.Group != nil && !tree.Group.balanced() {
			return false
		}
	}
	return true
}

var closing = map[string]string{"(": ")", "[": "]", "{": "}"}

type tokenTree struct {
	Group *group  `parser:"  @@"`
	Token *string `parser:"| @( String | RawString | ByteString | Char | Lifetime | Number | Ident | PathSep | Op | Eq | Comma | Semi | Punct )"`
}

var metaGrammar = participle.MustBuild[metaList](
	participle.Lexer(metaLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)
