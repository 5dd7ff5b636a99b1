package css

import (
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// SyntaxError is returned when input cannot be arranged into a tree.
type SyntaxError struct {
	Source string
	Line   int
	Column int
	Reason string
}

func (e *SyntaxError) Error() string {
	src := e.Source
	if src == "" {
		src = "<css input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", src, e.Line, e.Column, e.Reason)
}

// Parser builds stylesheet trees keeping all original formatting in node raws.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

type token struct {
	tt   css.TokenType
	data string
	line int
	col  int
}

func (t token) is(tt css.TokenType) bool {
	return t.tt == tt
}

func (t token) space() bool {
	return t.tt == css.WhitespaceToken || t.tt == css.CommentToken
}

// Parse parses CSS text into a Stylesheet.
// The optional source parameter identifies what's being parsed (for debug logging and errors).
func (p *Parser) Parse(data []byte, source ...string) (*Stylesheet, error) {
	var src string
	if len(source) > 0 {
		src = source[0]
	}
	p.log.Debug("Parsing CSS", zap.String("source", src), zap.Int("bytes", len(data)))

	toks, err := tokenize(data)
	if err != nil {
		return nil, fmt.Errorf("unable to tokenize css: %w", err)
	}

	b := &builder{toks: toks, sheet: NewStylesheet(), source: src}
	if err := b.body(b.sheet.Root(), false); err != nil {
		p.log.Debug("CSS parse error", zap.Error(err))
		return nil, err
	}
	p.log.Debug("Parsed CSS", zap.String("source", src), zap.Int("tokens", len(toks)), zap.Int("nodes", b.sheet.Len()))
	return b.sheet, nil
}

// tokenize runs the lexer over the whole input keeping every token including
// whitespace and comments.
func tokenize(data []byte) ([]token, error) {
	l := css.NewLexer(parse.NewInputBytes(data))
	toks := make([]token, 0, len(data)/4)
	line, col := 1, 1
	for {
		tt, raw := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return toks, nil
		}
		s := string(raw)
		toks = append(toks, token{tt: tt, data: s, line: line, col: col})
		if n := strings.Count(s, "\n"); n > 0 {
			line += n
			col = len(s) - strings.LastIndexByte(s, '\n')
		} else {
			col += len(s)
		}
	}
}

type builder struct {
	toks   []token
	pos    int
	sheet  *Stylesheet
	source string
}

func (b *builder) eof() bool {
	return b.pos >= len(b.toks)
}

func (b *builder) peek() token {
	return b.toks[b.pos]
}

func (b *builder) errorf(t token, format string, args ...any) error {
	return &SyntaxError{Source: b.source, Line: t.line, Column: t.col, Reason: fmt.Sprintf(format, args...)}
}

// leading collects whitespace and stray semicolons preceding a statement.
func (b *builder) leading() string {
	var sb strings.Builder
	for !b.eof() {
		t := b.peek()
		if !t.is(css.WhitespaceToken) && !t.is(css.SemicolonToken) {
			break
		}
		sb.WriteString(t.data)
		b.pos++
	}
	return sb.String()
}

// body parses statements until the closing brace of parent (nested) or EOF.
func (b *builder) body(parent NodeID, nested bool) error {
	semicolon := false
	for {
		before := b.leading()
		if b.eof() {
			// unclosed blocks are closed at the end of input
			b.sheet.nodes[parent].Raws.After = before
			b.sheet.nodes[parent].Raws.Semicolon = semicolon
			return nil
		}

		t := b.peek()
		switch {
		case t.is(css.CommentToken):
			b.comment(parent, before, t)
			b.pos++
		case t.is(css.RightBraceToken):
			if !nested {
				return b.errorf(t, "unexpected }")
			}
			b.pos++
			b.sheet.nodes[parent].Raws.After = before
			b.sheet.nodes[parent].Raws.Semicolon = semicolon
			return nil
		case t.is(css.AtKeywordToken):
			ended, err := b.atRule(parent, before)
			if err != nil {
				return err
			}
			semicolon = ended
		default:
			ended, err := b.statement(parent, before)
			if err != nil {
				return err
			}
			semicolon = ended
		}
	}
}

func (b *builder) comment(parent NodeID, before string, t token) {
	inner := strings.TrimSuffix(strings.TrimPrefix(t.data, "/*"), "*/")
	n := Node{Kind: KindComment, Line: t.line, Raws: Raws{Before: before}}
	if strings.TrimSpace(inner) == "" {
		n.Raws.Left = inner
	} else {
		text := strings.TrimLeft(inner, " \t\r\n\f")
		n.Raws.Left = inner[:len(inner)-len(text)]
		trimmed := strings.TrimRight(text, " \t\r\n\f")
		n.Raws.Right = text[len(trimmed):]
		n.Text = trimmed
	}
	b.sheet.Append(parent, n)
}

// scan advances over a prelude until '{', ';' or '}' at nesting level zero
// and returns the consumed tokens together with the terminator (zero token at EOF).
func (b *builder) scan() ([]token, token) {
	start := b.pos
	depth := 0
	for !b.eof() {
		t := b.peek()
		switch t.tt {
		case css.LeftParenthesisToken, css.LeftBracketToken, css.FunctionToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.LeftBraceToken, css.SemicolonToken, css.RightBraceToken:
			if depth == 0 {
				return b.toks[start:b.pos], t
			}
		}
		b.pos++
	}
	return b.toks[start:b.pos], token{}
}

// atRule parses @name params followed by either a block or ';'. It reports
// whether the statement was terminated by a semicolon.
func (b *builder) atRule(parent NodeID, before string) (bool, error) {
	t := b.peek()
	b.pos++
	n := Node{Kind: KindAtRule, Name: strings.TrimPrefix(t.data, "@"), Line: t.line, Raws: Raws{Before: before}}

	prelude, end := b.scan()
	head, params, tail := splitSpaces(prelude)
	if params == "" {
		n.Raws.Between = head + tail
	} else {
		n.Raws.AfterName = head
		n.Params = params
		n.Raws.Between = tail
	}

	switch {
	case end.is(css.LeftBraceToken):
		b.pos++
		n.HasBlock = true
		id := b.sheet.Append(parent, n)
		return false, b.body(id, true)
	case end.is(css.SemicolonToken):
		b.pos++
		b.sheet.Append(parent, n)
		return true, nil
	default:
		b.sheet.Append(parent, n)
		return false, nil
	}
}

// statement parses either a rule (prelude followed by a block) or a declaration.
func (b *builder) statement(parent NodeID, before string) (bool, error) {
	first := b.peek()
	prelude, end := b.scan()

	if end.is(css.LeftBraceToken) {
		b.pos++
		_, selector, tail := splitSpaces(prelude)
		id := b.sheet.Append(parent, Node{
			Kind:     KindRule,
			Selector: selector,
			Line:     first.line,
			Raws:     Raws{Before: before, Between: tail},
		})
		return false, b.body(id, true)
	}

	n, trailing, err := b.decl(prelude, before)
	if err != nil {
		return false, err
	}
	b.sheet.Append(parent, n)
	// comments after the value become siblings of the declaration
	var space strings.Builder
	for _, t := range trailing {
		if t.is(css.CommentToken) {
			b.comment(parent, space.String(), t)
			space.Reset()
			continue
		}
		space.WriteString(t.data)
	}
	if end.is(css.SemicolonToken) {
		b.pos++
		return true, nil
	}
	return false, nil
}

// decl builds a declaration from statement tokens. Whitespace and comments
// following the value are returned separately.
func (b *builder) decl(toks []token, before string) (Node, []token, error) {
	n := Node{Kind: KindDecl, Line: toks[0].line, Raws: Raws{Before: before}}

	i := 0
	var prop strings.Builder
	for ; i < len(toks); i++ {
		if toks[i].is(css.ColonToken) || toks[i].space() {
			break
		}
		prop.WriteString(toks[i].data)
	}
	n.Prop = prop.String()

	var between strings.Builder
	colon := false
	for ; i < len(toks); i++ {
		t := toks[i]
		if t.is(css.ColonToken) {
			between.WriteString(t.data)
			colon = true
			i++
			break
		}
		if !t.space() {
			return n, nil, b.errorf(t, "unknown word %q", t.data)
		}
		between.WriteString(t.data)
	}
	if !colon || n.Prop == "" {
		return n, nil, b.errorf(toks[0], "unknown word %q", toks[0].data)
	}
	for ; i < len(toks) && toks[i].space(); i++ {
		between.WriteString(toks[i].data)
	}
	n.Raws.Between = between.String()

	// legacy hack signs belong to formatting rather than the property name
	if c := n.Prop[0]; c == '*' || c == '_' {
		n.Raws.Before += n.Prop[:1]
		n.Prop = n.Prop[1:]
	}

	value := toks[i:]
	j := len(value)
	for j > 0 && value[j-1].space() {
		j--
	}
	value, trailing := value[:j], value[j:]
	value, n.Important, n.Raws.Important = importance(value)

	var sb strings.Builder
	for _, t := range value {
		if t.is(css.CommentToken) {
			continue
		}
		sb.WriteString(t.data)
	}
	n.Value = strings.TrimSpace(sb.String())
	return n, trailing, nil
}

// importance detects a trailing !important and returns value tokens without it.
func importance(toks []token) ([]token, bool, string) {
	j := len(toks) - 1
	if j < 0 || !toks[j].is(css.IdentToken) || !strings.EqualFold(toks[j].data, "important") {
		return toks, false, ""
	}
	k := j - 1
	for k >= 0 && toks[k].space() {
		k--
	}
	if k < 0 || !toks[k].is(css.DelimToken) || toks[k].data != "!" {
		return toks, false, ""
	}
	end := k
	for end > 0 && toks[end-1].space() {
		end--
	}
	var sb strings.Builder
	for _, t := range toks[end:] {
		sb.WriteString(t.data)
	}
	return toks[:end], true, sb.String()
}

// splitSpaces separates leading and trailing whitespace and comments from a
// token run and returns them with the text in between.
func splitSpaces(toks []token) (head, body, tail string) {
	i, j := 0, len(toks)
	for i < j && toks[i].space() {
		i++
	}
	for j > i && toks[j-1].space() {
		j--
	}
	return join(toks[:i]), join(toks[i:j]), join(toks[j:])
}

func join(toks []token) string {
	var sb strings.Builder
	for _, t := range toks {
		sb.WriteString(t.data)
	}
	return sb.String()
}
