// Package analyze prepares a page for the HTML-analysis model: it strips
// the document, picks the root to send, and packs it so the whole
// conversation fits the model's context budget.
package analyze

import (
	"errors"
	"fmt"

	"github.com/dgallion1/htmlpack/pkg/pack"
	"github.com/dgallion1/htmlpack/pkg/strip"
	"github.com/dgallion1/htmlpack/pkg/vdom"
	"github.com/dgallion1/htmlpack/pkg/weight"
)

var (
	// ErrEmptyDocument is returned when nothing survives stripping.
	ErrEmptyDocument = errors.New("stripped document is empty")
	// ErrDoesNotFit is returned when the conversation exceeds the budget
	// even after packing.
	ErrDoesNotFit = errors.New("analysis messages do not fit the budget")
)

// Instruction follows the page content in every analysis conversation.
const Instruction = `The above HTML is content from a page.
Extract selectors to elements that need to be interacted with in order to achieve the goal.
For each selector tell why it is relevant.

Examples of selectors:

* ` + "`#main form#createProduct button[name=\"submit\"]`" + `: I need this to submit the form to create a product.
* ` + "`#content a[data-product-id=\"569\"]`" + `: A link to go to the product page of the book "Harry Potter 1".`

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the input to Prepare.
type Request struct {
	History   []Message
	Document  *vdom.Node
	Metric    weight.Metric
	MaxWeight int
}

// Prompt is a conversation ready to send.
type Prompt struct {
	Messages []Message
	Root     *vdom.Node // packed root that was serialized into the prompt
	Pack     pack.Result
}

// SelectRoot picks the node to analyze from stripped output: a single
// node is used as is, otherwise the first html element, otherwise the
// nodes are wrapped in a body element.
func SelectRoot(nodes []*vdom.Node) (*vdom.Node, error) {
	switch len(nodes) {
	case 0:
		return nil, ErrEmptyDocument
	case 1:
		return nodes[0], nil
	}
	for _, n := range nodes {
		if n.IsElement() && n.Tag == "html" {
			return n, nil
		}
	}
	return vdom.Element("body", nil, nodes...), nil
}

// BuildMessages appends the page content and the instruction to history.
func BuildMessages(history []Message, html string) []Message {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, history...)
	messages = append(messages,
		Message{Role: RoleUser, Content: html},
		Message{Role: RoleSystem, Content: Instruction},
	)
	return messages
}

// PromptWeight measures a candidate tree as the complete conversation it
// would produce, so the budget covers history and instruction too.
func PromptWeight(history []Message, m weight.Metric) pack.WeightFunc {
	fixed := 0
	for _, msg := range BuildMessages(history, "") {
		fixed += m.Measure(msg.Content)
	}
	return func(n *vdom.Node) int {
		return fixed + m.Measure(vdom.Serialize(n, vdom.SerializeOptions{}))
	}
}

// Prepare strips the document, selects its root and packs it into the
// budget. When packing cannot reach the budget the error wraps
// ErrDoesNotFit.
func Prepare(req Request) (*Prompt, error) {
	if req.Metric == nil {
		req.Metric = weight.Chars{}
	}
	root, err := SelectRoot(strip.Strip(req.Document))
	if err != nil {
		return nil, err
	}

	res := pack.Run(pack.Request{
		Root:      root,
		Weight:    PromptWeight(req.History, req.Metric),
		MaxWeight: req.MaxWeight,
	})
	if !res.Fits {
		return nil, fmt.Errorf("%w: %s weight %d exceeds %d", ErrDoesNotFit, req.Metric.Name(), res.Weight, req.MaxWeight)
	}

	html := vdom.Serialize(res.Root, vdom.SerializeOptions{})
	return &Prompt{
		Messages: BuildMessages(req.History, html),
		Root:     res.Root,
		Pack:     res,
	}, nil
}
