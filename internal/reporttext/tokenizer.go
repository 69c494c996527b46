package reporttext

import (
	"strconv"
	"strings"
)

// TokenKind identifies the kind of a template token.
type TokenKind int

const (
	// Literal text copied to the output unchanged.
	Literal TokenKind = iota
	// Data consumes the next value.
	Data
	// List consumes every remaining value.
	List
	// Msg consumes a boolean value and expands one of two catalog messages.
	Msg
	// Newline emits a line break.
	Newline
)

func (k TokenKind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Data:
		return "data"
	case List:
		return "list"
	case Msg:
		return "msg"
	case Newline:
		return "newline"
	}
	return "unknown"
}

// Token is one element of a tokenized template.
type Token struct {
	Kind TokenKind
	// Text holds the literal text for Literal tokens.
	Text string
	// IfTrue and IfFalse are the catalog ids selected by a Msg token.
	IfTrue, IfFalse int
}

// Tokenize splits a raw catalog template into tokens.
//
// A '<' starts a tag only if the next '>' comes before any other '<'.
// Otherwise it is literal, as is a '<' with no closing '>' at all. Tag
// bodies other than data, list, newline and msg:A,B are kept as literal
// text including their delimiters. Adjacent literals are merged.
func Tokenize(raw string) []Token {
	var toks []Token
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			toks = append(toks, Token{Kind: Literal, Text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(raw); {
		if raw[i] != '<' {
			next := strings.IndexByte(raw[i:], '<')
			if next < 0 {
				lit.WriteString(raw[i:])
				break
			}
			lit.WriteString(raw[i : i+next])
			i += next
			continue
		}

		end := strings.IndexByte(raw[i+1:], '>')
		open := strings.IndexByte(raw[i+1:], '<')
		if end < 0 || (open >= 0 && open < end) {
			lit.WriteByte('<')
			i++
			continue
		}

		body := raw[i+1 : i+1+end]
		tag := raw[i : i+end+2]
		i += end + 2

		tok, ok := parseTag(body)
		if !ok {
			lit.WriteString(tag)
			continue
		}
		flush()
		toks = append(toks, tok)
	}
	flush()
	return toks
}

func parseTag(body string) (Token, bool) {
	switch body {
	case "data":
		return Token{Kind: Data}, true
	case "list":
		return Token{Kind: List}, true
	case "newline":
		return Token{Kind: Newline}, true
	}
	ids, ok := strings.CutPrefix(body, "msg:")
	if !ok {
		return Token{}, false
	}
	a, b, ok := strings.Cut(ids, ",")
	if !ok {
		return Token{}, false
	}
	ifTrue, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return Token{}, false
	}
	ifFalse, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return Token{}, false
	}
	return Token{Kind: Msg, IfTrue: ifTrue, IfFalse: ifFalse}, true
}
