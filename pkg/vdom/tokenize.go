package vdom

import "regexp"

// TokenKind identifies the variant of a Token.
type TokenKind uint8

const (
	TokenTagOpen TokenKind = iota
	TokenTagClose
	TokenText
)

// Token is one lexical unit of markup.
type Token struct {
	Kind        TokenKind
	Name        string // tag name for TokenTagOpen and TokenTagClose
	Attrs       []Attr // TokenTagOpen only
	SelfClosing bool   // TokenTagOpen only
	Content     string // TokenText only
}

var (
	tokenRe = regexp.MustCompile(
		`(?P<whitespace>\s+)` +
			`|(?P<tag><(?P<tagName>[a-zA-Z0-9]+)(?P<attributes>[^>]*?)(?P<selfClosing>/)?>)` +
			`|(?P<closeTag></(?P<closeTagName>[a-zA-Z0-9]+)>)` +
			`|(?P<text>[^<]+)`)
	attributeRe = regexp.MustCompile(
		`(?P<attributeName>[a-zA-Z_:][-a-zA-Z0-9_:.]*)="(?P<attributeValue>[^"]*)"|\s+`)

	groupWhitespace   = tokenRe.SubexpIndex("whitespace")
	groupTag          = tokenRe.SubexpIndex("tag")
	groupTagName      = tokenRe.SubexpIndex("tagName")
	groupAttributes   = tokenRe.SubexpIndex("attributes")
	groupSelfClosing  = tokenRe.SubexpIndex("selfClosing")
	groupCloseTag     = tokenRe.SubexpIndex("closeTag")
	groupCloseTagName = tokenRe.SubexpIndex("closeTagName")
	groupText         = tokenRe.SubexpIndex("text")

	groupAttributeName  = attributeRe.SubexpIndex("attributeName")
	groupAttributeValue = attributeRe.SubexpIndex("attributeValue")
)

// Tokenize splits markup into tokens. Every byte of the input must be
// covered by consecutive matches; any gap or trailing remainder yields a
// *MalformedMarkupError. Whitespace between tags is dropped.
func Tokenize(markup string) ([]Token, error) {
	matches, err := successiveMatches(tokenRe, markup, 0, markup)
	if err != nil {
		return nil, err
	}

	tokens := make([]Token, 0, len(matches))
	for _, m := range matches {
		switch {
		case matched(m, groupWhitespace):
			continue
		case matched(m, groupTag):
			attrs, err := tokenizeAttributes(markup, m[2*groupAttributes], m[2*groupAttributes+1])
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Token{
				Kind:        TokenTagOpen,
				Name:        group(markup, m, groupTagName),
				Attrs:       attrs,
				SelfClosing: matched(m, groupSelfClosing),
			})
		case matched(m, groupCloseTag):
			tokens = append(tokens, Token{
				Kind: TokenTagClose,
				Name: group(markup, m, groupCloseTagName),
			})
		case matched(m, groupText):
			tokens = append(tokens, Token{
				Kind:    TokenText,
				Content: markup[m[0]:m[1]],
			})
		}
	}
	return tokens, nil
}

// tokenizeAttributes scans the attribute span markup[start:end] of a tag.
func tokenizeAttributes(markup string, start, end int) ([]Attr, error) {
	if start < 0 || start == end {
		return nil, nil
	}
	matches, err := successiveMatches(attributeRe, markup[start:end], start, markup)
	if err != nil {
		return nil, err
	}
	span := markup[start:end]
	var attrs []Attr
	for _, m := range matches {
		if !matched(m, groupAttributeName) {
			continue
		}
		name := group(span, m, groupAttributeName)
		value := group(span, m, groupAttributeValue)
		if i := attrIndex(attrs, name); i >= 0 {
			attrs[i].Value = value
			continue
		}
		attrs = append(attrs, Attr{Name: name, Value: value})
	}
	return attrs, nil
}

// successiveMatches returns all matches of re in text, failing if they do
// not tile text exactly. base is the offset of text within input, used
// for error reporting.
func successiveMatches(re *regexp.Regexp, text string, base int, input string) ([][]int, error) {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	last := 0
	for _, m := range matches {
		if m[0] != last {
			return nil, &MalformedMarkupError{Input: input, Offset: base + last, Span: text[last:m[0]]}
		}
		last = m[1]
	}
	if last != len(text) {
		return nil, &MalformedMarkupError{Input: input, Offset: base + last, Span: text[last:]}
	}
	return matches, nil
}

func matched(m []int, g int) bool {
	return m[2*g] >= 0
}

func group(s string, m []int, g int) string {
	if !matched(m, g) {
		return ""
	}
	return s[m[2*g]:m[2*g+1]]
}

func attrIndex(attrs []Attr, name string) int {
	for i, a := range attrs {
		if a.Name == name {
			return i
		}
	}
	return -1
}
