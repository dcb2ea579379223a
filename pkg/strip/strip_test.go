package strip

import (
	"testing"

	"github.com/dgallion1/htmlpack/pkg/vdom"
)

func stripString(t *testing.T, markup string) string {
	t.Helper()
	tree, err := vdom.Parse(markup)
	if err != nil {
		t.Fatalf("parse %q: %v", markup, err)
	}
	return vdom.SerializeAll(Strip(tree), vdom.SerializeOptions{})
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"keeps text", "hello", "hello"},
		{"omits div", "<div>hello</div>", "hello"},
		{"omits recursively", "<div>hello <span>world</span></div>", "hello world"},
		{"keeps section", "<section>hello</section>", "<section>hello</section>"},
		{
			"keeps section, h1, p recursively",
			"<section>\n  <h1>Hello</h1>\n  <p>hello <span>world</span></p>\n</section>",
			"<section><h1>Hello</h1><p>hello world</p></section>",
		},
		{
			"omits script and its contents",
			"<section>\n  <script>\n    console.log(1);\n  </script>\n</section>",
			"<section/>",
		},
		{"omits class attributes", `<p class="beautiful"></p>`, "<p/>"},
		{"keeps href attributes", `<a href="page"></a>`, `<a href="page"/>`},
		{"drops data urls", `<a href="data:text/plain;base64,aGk=" title="t">x</a>`, `<a title="t">x</a>`},
		{"collapses whitespace", "<p>a \n\t b</p>", "<p>a b</p>"},
		{"omits style", "<div><style>p{}</style>text</div>", "text"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripString(t, tc.input); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestStrip_HiddenElements(t *testing.T) {
	hidden := []string{
		`<p hidden="true">x</p>`,
		`<p hidden="">x</p>`,
		`<p aria-hidden="true">x</p>`,
		`<button aria-disabled="true">x</button>`,
		`<button disabled="">x</button>`,
		`<input type="hidden" name="csrf"/>`,
	}
	for _, input := range hidden {
		t.Run(input, func(t *testing.T) {
			if got := stripString(t, "<form>"+input+"</form>"); got != "<form/>" {
				t.Errorf("expected hidden element removed, got %q", got)
			}
		})
	}

	visible := []string{
		`<p hidden="false">x</p>`,
		`<p aria-hidden="false">x</p>`,
	}
	for _, input := range visible {
		t.Run(input, func(t *testing.T) {
			if got := stripString(t, input); got != "<p>x</p>" {
				t.Errorf("expected element kept, got %q", got)
			}
		})
	}
}

func TestStrip_FansOutWrapperChildren(t *testing.T) {
	tree, err := vdom.Parse("<div><p>a</p><span>b</span><p>c</p></div>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	nodes := Strip(tree)
	if len(nodes) != 3 {
		t.Fatalf("expected 3 top-level nodes, got %d", len(nodes))
	}
	if !nodes[1].IsText() || nodes[1].Text != "b" {
		t.Errorf("expected spliced text %q, got %+v", "b", nodes[1])
	}
}

func TestStrip_WhitespaceOnlyYieldsNothing(t *testing.T) {
	if nodes := Strip(vdom.Text(" \n\t ")); len(nodes) != 0 {
		t.Errorf("expected no nodes, got %d", len(nodes))
	}
	if nodes := Strip(vdom.Element("div", nil, vdom.Text("  "), vdom.Element("span", nil))); len(nodes) != 0 {
		t.Errorf("expected no nodes, got %d", len(nodes))
	}
}

func TestStrip_MergesAdjacentText(t *testing.T) {
	tree := vdom.Element("p", nil,
		vdom.Text("a "),
		vdom.Element("b", nil, vdom.Text(" b")),
		vdom.Text(" c"),
	)
	nodes := Strip(tree)
	if len(nodes) != 1 || len(nodes[0].Children) != 1 {
		t.Fatalf("expected one p with one text child, got %s", vdom.SerializeAll(nodes, vdom.SerializeOptions{}))
	}
	if got := nodes[0].Children[0].Text; got != "a b c" {
		t.Errorf("expected merged text %q, got %q", "a b c", got)
	}
}

func TestStrip_DoesNotMutateInput(t *testing.T) {
	tree, err := vdom.Parse(`<section id="s" class="c"><div>x</div></section>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	before := vdom.Serialize(tree, vdom.SerializeOptions{})
	Strip(tree)
	if after := vdom.Serialize(tree, vdom.SerializeOptions{}); after != before {
		t.Errorf("input tree changed: %q -> %q", before, after)
	}
}
