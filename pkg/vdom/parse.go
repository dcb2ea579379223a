package vdom

// Parse parses markup that must contain exactly one top-level node.
func Parse(markup string) (*Node, error) {
	nodes, err := ParseFragment(markup)
	if err != nil {
		return nil, err
	}
	if len(nodes) != 1 {
		return nil, &NotSingleRootError{Count: len(nodes)}
	}
	return nodes[0], nil
}

// ParseFragment parses markup into its top-level nodes. The input must be
// well formed: attribute values double-quoted, every open tag closed by
// a matching close tag or written self-closing.
func ParseFragment(markup string) ([]*Node, error) {
	tokens, err := Tokenize(markup)
	if err != nil {
		return nil, err
	}

	root := Element("", nil)
	stack := []*Node{root}
	for _, tok := range tokens {
		top := stack[len(stack)-1]
		switch tok.Kind {
		case TokenTagOpen:
			el := Element(tok.Name, tok.Attrs)
			top.Children = append(top.Children, el)
			if !tok.SelfClosing {
				stack = append(stack, el)
			}
		case TokenText:
			top.Children = append(top.Children, Text(tok.Content))
		case TokenTagClose:
			if top.Tag != tok.Name {
				return nil, &MismatchedTagError{Expected: top.Tag, Actual: tok.Name}
			}
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 1 {
		return nil, &UnclosedTagError{Tag: stack[len(stack)-1].Tag}
	}
	if len(stack) < 1 {
		return nil, &UnexpectedRootCloseError{}
	}
	return root.Children, nil
}
