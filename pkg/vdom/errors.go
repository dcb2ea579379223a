package vdom

import (
	"fmt"
	"strings"
)

// MalformedMarkupError reports a span of input the tokenizer could not
// account for.
type MalformedMarkupError struct {
	Input  string // the text being tokenized
	Offset int    // byte offset of the unmatched span within Input
	Span   string // the unmatched text
}

func (e *MalformedMarkupError) Error() string {
	return fmt.Sprintf("unexpected input: %q\nInput:     %s\nIndicator: %s^",
		e.Span, e.Input, strings.Repeat("-", e.Offset))
}

// MismatchedTagError reports a close tag that does not match the open element.
type MismatchedTagError struct {
	Expected string
	Actual   string
}

func (e *MismatchedTagError) Error() string {
	return fmt.Sprintf("unexpected close tag </%s>: expected </%s>", e.Actual, e.Expected)
}

// UnclosedTagError reports input that ended with an element still open.
type UnclosedTagError struct {
	Tag string
}

func (e *UnclosedTagError) Error() string {
	return fmt.Sprintf("tag was not closed: <%s>", e.Tag)
}

// UnexpectedRootCloseError reports that the synthetic fragment root was popped.
type UnexpectedRootCloseError struct{}

func (e *UnexpectedRootCloseError) Error() string {
	return "root tag was unexpectedly closed"
}

// NotSingleRootError reports a single-root parse of input with zero or
// several top-level nodes.
type NotSingleRootError struct {
	Count int
}

func (e *NotSingleRootError) Error() string {
	return fmt.Sprintf("expected a single root node, got %d", e.Count)
}
