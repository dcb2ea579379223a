package vdom

import (
	"errors"
	"strings"
	"testing"
)

func TestTokenize_SelfClosingTag(t *testing.T) {
	tokens, err := Tokenize("<br />")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token, got %d", len(tokens))
	}
	tok := tokens[0]
	if tok.Kind != TokenTagOpen || tok.Name != "br" || !tok.SelfClosing || len(tok.Attrs) != 0 {
		t.Errorf("unexpected token: %+v", tok)
	}
}

func TestTokenize_SimpleTree(t *testing.T) {
	tokens, err := Tokenize(`<div id="first"><span>hello</span><br />hi</div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Token{
		{Kind: TokenTagOpen, Name: "div", Attrs: []Attr{{Name: "id", Value: "first"}}},
		{Kind: TokenTagOpen, Name: "span"},
		{Kind: TokenText, Content: "hello"},
		{Kind: TokenTagClose, Name: "span"},
		{Kind: TokenTagOpen, Name: "br", SelfClosing: true},
		{Kind: TokenText, Content: "hi"},
		{Kind: TokenTagClose, Name: "div"},
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(tokens), tokens)
	}
	for i, w := range want {
		got := tokens[i]
		if got.Kind != w.Kind || got.Name != w.Name || got.Content != w.Content || got.SelfClosing != w.SelfClosing {
			t.Errorf("token[%d]: expected %+v, got %+v", i, w, got)
		}
		if len(got.Attrs) != len(w.Attrs) {
			t.Errorf("token[%d]: expected %d attrs, got %d", i, len(w.Attrs), len(got.Attrs))
			continue
		}
		for j := range w.Attrs {
			if got.Attrs[j] != w.Attrs[j] {
				t.Errorf("token[%d] attr[%d]: expected %+v, got %+v", i, j, w.Attrs[j], got.Attrs[j])
			}
		}
	}
}

func TestTokenize_DropsWhitespaceBetweenTags(t *testing.T) {
	tokens, err := Tokenize("<ul>\n  <li>a</li>\n</ul>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tok := range tokens {
		if tok.Kind == TokenText && strings.TrimSpace(tok.Content) == "" {
			t.Errorf("expected whitespace-only text to be dropped, got %q", tok.Content)
		}
	}
	if len(tokens) != 5 {
		t.Errorf("expected 5 tokens, got %d", len(tokens))
	}
}

func TestTokenize_HyphenatedAttributes(t *testing.T) {
	tokens, err := Tokenize(`<button aria-label="Close" data-id="7"/>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := tokens[0].Attrs; len(v) != 2 || v[0].Name != "aria-label" || v[1].Value != "7" {
		t.Errorf("unexpected attrs: %+v", v)
	}
}

func TestTokenize_MalformedReportsSpan(t *testing.T) {
	_, err := Tokenize("hi<")
	var malformed *MalformedMarkupError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedMarkupError, got %v", err)
	}
	if malformed.Offset != 2 || malformed.Span != "<" {
		t.Errorf("expected span %q at 2, got %q at %d", "<", malformed.Span, malformed.Offset)
	}
	if !strings.Contains(err.Error(), "--^") {
		t.Errorf("expected column indicator in %q", err.Error())
	}
}

func TestParse_SimpleTree(t *testing.T) {
	got, err := Parse(`<div id="first">hello<span>world</span><br />hi</div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Element("div", []Attr{{Name: "id", Value: "first"}},
		Text("hello"),
		Element("span", nil, Text("world")),
		Element("br", nil),
		Text("hi"),
	)
	if !Equal(got, want) {
		t.Errorf("expected %s, got %s", Serialize(want, SerializeOptions{}), Serialize(got, SerializeOptions{}))
	}
}

func TestParse_Errors(t *testing.T) {
	inputs := []string{
		"<",
		"<div",
		"<div>",
		"<div>hello",
		"<div>hello</",
		"<div>hello</div",
		"<div element/>",
		`<div element="/>`,
		"<div element=''/>",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			if _, err := Parse(input); err == nil {
				t.Errorf("expected error for %q", input)
			}
		})
	}
}

func TestParse_ErrorTypes(t *testing.T) {
	t.Run("mismatched", func(t *testing.T) {
		_, err := Parse("<div><p>x</div></p>")
		var target *MismatchedTagError
		if !errors.As(err, &target) {
			t.Fatalf("expected MismatchedTagError, got %v", err)
		}
		if target.Expected != "p" || target.Actual != "div" {
			t.Errorf("unexpected mismatch: %+v", target)
		}
	})
	t.Run("unclosed", func(t *testing.T) {
		_, err := Parse("<div><p>x</p>")
		var target *UnclosedTagError
		if !errors.As(err, &target) {
			t.Fatalf("expected UnclosedTagError, got %v", err)
		}
		if target.Tag != "div" {
			t.Errorf("expected unclosed div, got %q", target.Tag)
		}
	})
	t.Run("stray close", func(t *testing.T) {
		_, err := Parse("</div>")
		var target *MismatchedTagError
		if !errors.As(err, &target) {
			t.Fatalf("expected MismatchedTagError, got %v", err)
		}
	})
	t.Run("multiple roots", func(t *testing.T) {
		_, err := Parse("<p>a</p><p>b</p>")
		var target *NotSingleRootError
		if !errors.As(err, &target) {
			t.Fatalf("expected NotSingleRootError, got %v", err)
		}
		if target.Count != 2 {
			t.Errorf("expected count 2, got %d", target.Count)
		}
	})
	t.Run("empty", func(t *testing.T) {
		_, err := Parse("   ")
		var target *NotSingleRootError
		if !errors.As(err, &target) {
			t.Fatalf("expected NotSingleRootError, got %v", err)
		}
	})
}

func TestParseFragment_MultipleRoots(t *testing.T) {
	nodes, err := ParseFragment("intro<p>a</p><p>b</p>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	if !nodes[0].IsText() || nodes[0].Text != "intro" {
		t.Errorf("expected leading text, got %+v", nodes[0])
	}
	if got := SerializeAll(nodes, SerializeOptions{}); got != "intro<p>a</p><p>b</p>" {
		t.Errorf("unexpected serialization %q", got)
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	inputs := []string{
		`<div>hello</div>`,
		`<br/>`,
		`<section><h1>Hello</h1><p>hello <span>world</span></p></section>`,
		`<form id="f" action="/x"><input name="q" type="text"/><button>Go</button></form>`,
		`<ul><li>a</li><li>b &amp; c</li><li/></ul>`,
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			tree, err := Parse(input)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			again, err := Parse(Serialize(tree, SerializeOptions{}))
			if err != nil {
				t.Fatalf("reparse: %v", err)
			}
			if !Equal(tree, again) {
				t.Errorf("round trip changed tree: %q", Serialize(again, SerializeOptions{}))
			}
		})
	}
}

func TestSerialize_Dense(t *testing.T) {
	tree := Element("a", []Attr{{Name: "href", Value: "page"}, {Name: "title", Value: `say "hi"`}})
	want := `<a href="page" title="say &quot;hi&quot;"/>`
	if got := Serialize(tree, SerializeOptions{}); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSerialize_Pretty(t *testing.T) {
	tree, err := Parse("<section><h1>Hello</h1><br/></section>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := "<section>\n  <h1>\n    Hello\n  </h1>\n  <br/>\n</section>"
	if got := Serialize(tree, SerializeOptions{Pretty: true}); got != want {
		t.Errorf("expected\n%s\ngot\n%s", want, got)
	}
}

func TestEqual_IgnoresAttributeOrder(t *testing.T) {
	a := Element("p", []Attr{{Name: "id", Value: "x"}, {Name: "title", Value: "y"}})
	b := Element("p", []Attr{{Name: "title", Value: "y"}, {Name: "id", Value: "x"}})
	if !Equal(a, b) {
		t.Error("expected attribute order to be ignored")
	}
	c := Element("p", []Attr{{Name: "title", Value: "z"}, {Name: "id", Value: "x"}})
	if Equal(a, c) {
		t.Error("expected differing attribute values to compare unequal")
	}
	if Equal(Text("x"), Element("x", nil)) {
		t.Error("expected text and element to compare unequal")
	}
}
