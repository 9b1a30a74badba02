package syntax

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"teslang/report"
)

// Lexer is responsible for tokenizing a source file.  It pulls one rune at a
// time from its reader and only moves its position forward when a lexeme is
// committed, so runes read during lookahead can be unread freely.  Tokens the
// parser has already consumed can be handed back with PushBack.
type Lexer struct {
	file *bufio.Reader

	// unreadBuff is a stack of runes that have been read from the file but
	// not yet committed to a lexeme.  The top of the stack is read first.
	unreadBuff []rune

	// pending is a stack of tokens pushed back by the parser.  The top of the
	// stack is returned first.
	pending []*Token

	tokBuff *strings.Builder

	line, col int
}

// NewLexer creates a new lexer reading from r.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		file:    bufio.NewReader(r),
		tokBuff: &strings.Builder{},
		line:    1,
		col:     1,
	}
}

// Tokenize lexes all of r.  On a lexical error it returns the tokens lexed so
// far along with the error.
func Tokenize(r io.Reader) ([]*Token, error) {
	l := NewLexer(r)

	var toks []*Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return toks, err
		}

		toks = append(toks, tok)
		if tok.Kind == TOK_EOF {
			return toks, nil
		}
	}
}

// Position returns the lexer's current line and column.
func (l *Lexer) Position() (int, int) {
	return l.line, l.col
}

// PushBack returns tokens to the lexer.  The tokens will be produced again by
// NextToken in the order they are given here, before any new input is read.
func (l *Lexer) PushBack(toks ...*Token) {
	for i := len(toks) - 1; i >= 0; i-- {
		l.pending = append(l.pending, toks[i])
	}
}

// NextToken retrieves the next token from the input.  If the input has ended,
// this will be an EOF token.  Unrecognized input produces a
// *report.LocalCompileError.
func (l *Lexer) NextToken() (*Token, error) {
	if n := len(l.pending); n > 0 {
		tok := l.pending[n-1]
		l.pending = l.pending[:n-1]
		return tok, nil
	}

	for {
		c, err := l.read()
		if err != nil {
			return nil, err
		}

		switch c {
		case -1:
			return &Token{
				Kind:     TOK_EOF,
				Position: report.NewPosition(l.line, l.col, 0),
			}, nil
		case ' ':
			l.col++
		case '\n', '\r', '\t':
			l.line++
			l.col = 1
		case '#':
			if err := l.skipComment(); err != nil {
				return nil, err
			}
		default:
			l.unread(c)
			return l.lexToken()
		}
	}
}

// -----------------------------------------------------------------------------

// lexeme is an entry in the fixed lexeme table.
type lexeme struct {
	text string
	kind int
}

// lexemeTable lists every fixed lexeme in match priority order: a lexeme must
// come before any other lexeme which is a prefix of it.
var lexemeTable = []lexeme{
	{"->", TOK_ARROW},
	{"<-", TOK_REVARROW},
	{"<=", TOK_LTEQ},
	{">=", TOK_GTEQ},
	{"==", TOK_EQ},
	{"!=", TOK_NEQ},
	{"=", TOK_ASSIGN},
	{"+", TOK_PLUS},
	{"-", TOK_MINUS},
	{"*", TOK_STAR},
	{"/", TOK_DIV},
	{"%", TOK_MOD},
	{"<", TOK_LT},
	{">", TOK_GT},
	{"?", TOK_QUESTION},
	{"(", TOK_LPAREN},
	{")", TOK_RPAREN},
	{"[", TOK_LBRACKET},
	{"]", TOK_RBRACKET},
	{"{", TOK_LBRACE},
	{"}", TOK_RBRACE},
	{",", TOK_COMMA},
	{":", TOK_COLON},
	{";", TOK_SEMI},

	{"notif", TOK_NOTIF},
	{"numeric", TOK_NUMERIC},
	{"return", TOK_RETURN},
	{"array", TOK_ARRAY},
	{"false", TOK_FALSE},
	{"true", TOK_TRUE},
	{"loop", TOK_LOOP},
	{"none", TOK_NONE},
	{"and", TOK_AND},
	{"for", TOK_FOR},
	{"let", TOK_LET},
	{"not", TOK_NOT},
	{"fc", TOK_FC},
	{"if", TOK_IF},
	{"or", TOK_OR},
}

// lexToken lexes a single token starting at the next rune which is known not
// to be whitespace or a comment.
func (l *Lexer) lexToken() (*Token, error) {
	c, err := l.read()
	if err != nil {
		return nil, err
	}
	l.unread(c)

	for _, lx := range lexemeTable {
		if rune(lx.text[0]) != c {
			continue
		}

		ok, err := l.matchLexeme(lx.text)
		if err != nil {
			return nil, err
		} else if ok {
			return l.makeToken(lx.kind, lx.text, lx.text), nil
		}
	}

	l.read()

	switch {
	case c == '\'':
		return l.lexStringLit()
	case isLetter(c):
		return l.lexIdent(c)
	case isDecimalDigit(c):
		return l.lexNumberLit(c)
	}

	return nil, report.Raise(report.NewPosition(l.line, l.col, 1), "unrecognized character `%c`", c)
}

// matchLexeme attempts to read the given lexeme from the input.  On failure,
// every rune read is unread.  Keyword lexemes only match if they are not
// immediately followed by a rune that could continue an identifier.
func (l *Lexer) matchLexeme(text string) (bool, error) {
	var consumed []rune
	for _, expected := range text {
		c, err := l.read()
		if err != nil {
			return false, err
		}

		consumed = append(consumed, c)
		if c != expected {
			l.unread(consumed...)
			return false, nil
		}
	}

	if isLetter(rune(text[0])) {
		c, err := l.read()
		if err != nil {
			return false, err
		}

		l.unread(c)
		if isIdentChar(c) {
			l.unread(consumed...)
			return false, nil
		}
	}

	return true, nil
}

// lexIdent lexes an identifier whose first rune has already been read.
func (l *Lexer) lexIdent(first rune) (*Token, error) {
	l.tokBuff.WriteRune(first)

	for {
		c, err := l.read()
		if err != nil {
			return nil, err
		} else if !isIdentChar(c) {
			l.unread(c)
			break
		}

		l.tokBuff.WriteRune(c)
	}

	value := l.flushTokBuff()
	return l.makeToken(TOK_IDENT, value, value), nil
}

// lexNumberLit lexes an integer literal whose first digit has already been
// read.
func (l *Lexer) lexNumberLit(first rune) (*Token, error) {
	l.tokBuff.WriteRune(first)

	for {
		c, err := l.read()
		if err != nil {
			return nil, err
		} else if !isDecimalDigit(c) {
			l.unread(c)
			break
		}

		l.tokBuff.WriteRune(c)
	}

	value := l.flushTokBuff()
	return l.makeToken(TOK_NUMBER, value, value), nil
}

// lexStringLit lexes a string literal whose opening quote has already been
// read.  The contents run up to the next quote with no escape processing.
func (l *Lexer) lexStringLit() (*Token, error) {
	for {
		c, err := l.read()
		if err != nil {
			return nil, err
		}

		switch c {
		case -1:
			return nil, report.Raise(report.NewPosition(l.line, l.col, 1), "unterminated string literal")
		case '\'':
			value := l.flushTokBuff()
			return l.makeToken(TOK_STRING, value, "'"+value+"'"), nil
		default:
			l.tokBuff.WriteRune(c)
		}
	}
}

// skipComment skips a `#` comment.  The newline ending the comment is left in
// the input so that it is counted as a line break.
func (l *Lexer) skipComment() error {
	for {
		c, err := l.read()
		if err != nil {
			return err
		}

		switch c {
		case -1:
			return nil
		case '\n':
			l.unread(c)
			return nil
		}
	}
}

// -----------------------------------------------------------------------------

// makeToken produces a new token and commits its lexeme: the lexer's position
// is moved over the source text the token was lexed from.
func (l *Lexer) makeToken(kind int, value, srcText string) *Token {
	startLine, startCol := l.line, l.col
	l.advance(srcText)

	return &Token{
		Kind:  kind,
		Value: value,
		Position: &report.TextPosition{
			StartLn:  startLine,
			StartCol: startCol,
			EndLn:    l.line,
			EndCol:   l.col,
		},
	}
}

// flushTokBuff returns the contents of the token buffer and resets it.
func (l *Lexer) flushTokBuff() string {
	value := l.tokBuff.String()
	l.tokBuff.Reset()
	return value
}

// advance moves the lexer's position over committed source text.
func (l *Lexer) advance(text string) {
	for _, c := range text {
		switch c {
		case '\n', '\r', '\t':
			l.line++
			l.col = 1
		default:
			l.col++
		}
	}
}

// -----------------------------------------------------------------------------

// read moves the lexer forward one rune, preferring unread runes.  If the
// lexer encounters an EOF, -1 is returned as the rune value.
func (l *Lexer) read() (rune, error) {
	if n := len(l.unreadBuff); n > 0 {
		c := l.unreadBuff[n-1]
		l.unreadBuff = l.unreadBuff[:n-1]
		return c, nil
	}

	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	if c == utf8.RuneError {
		return 0, report.Raise(report.NewPosition(l.line, l.col, 1), "invalid UTF-8 encoding")
	}

	return c, nil
}

// unread returns runes to the input so that runes[0] is read next.  EOF
// markers are dropped since reading past the end produces them again.
func (l *Lexer) unread(runes ...rune) {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] != -1 {
			l.unreadBuff = append(l.unreadBuff, runes[i])
		}
	}
}

// -----------------------------------------------------------------------------

// isDecimalDigit returns whether c is a decimal digit.
func isDecimalDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

// isLetter returns whether c could be the first rune of an identifier.
func isLetter(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// isIdentChar returns whether c could continue an identifier.
func isIdentChar(c rune) bool {
	return isLetter(c) || isDecimalDigit(c) || c == '_'
}
