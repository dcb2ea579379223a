// Package weight provides the metrics used to measure a document against a
// budget: characters, an estimated token count from words, and exact BPE
// token counts.
package weight

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"

	"github.com/dgallion1/htmlpack/pkg/pack"
	"github.com/dgallion1/htmlpack/pkg/vdom"
)

// Metric names accepted by ForName.
const (
	MetricChars  = "chars"
	MetricWords  = "words"
	MetricTokens = "tokens"
)

// ErrUnknownMetric is returned by ForName for unrecognized names.
var ErrUnknownMetric = errors.New("unknown metric")

// DefaultEncoding is the BPE encoding used for the tokens metric.
const DefaultEncoding = "cl100k_base"

// Metric measures a string.
type Metric interface {
	Name() string
	Measure(s string) int
}

// Chars counts Unicode code points.
type Chars struct{}

func (Chars) Name() string         { return MetricChars }
func (Chars) Measure(s string) int { return utf8.RuneCountInString(s) }

// Words estimates a token count from words. Markup delimiters separate
// words too, so tag and attribute names count toward the weight of a
// serialized tree the same way prose does.
type Words struct{}

func (Words) Name() string { return MetricWords }

// Measure gives a rough token count at about 1.33 tokens per word. Any
// non-empty input counts as at least one token.
func (Words) Measure(s string) int {
	if s == "" {
		return 0
	}
	tokens := int(float64(len(strings.FieldsFunc(s, isWordSeparator))) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

func isWordSeparator(r rune) bool {
	switch r {
	case '<', '>', '/', '=', '"':
		return true
	}
	return unicode.IsSpace(r)
}

// Tokens counts BPE tokens with a tiktoken encoding.
type Tokens struct {
	enc      *tiktoken.Tiktoken
	encoding string
}

// NewTokens loads the named encoding. The first load of an encoding may
// fetch its ranks file over the network.
func NewTokens(encoding string) (*Tokens, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("weight: get encoding %s: %w", encoding, err)
	}
	return &Tokens{enc: enc, encoding: encoding}, nil
}

func (t *Tokens) Name() string { return MetricTokens }

// Encoding returns the name of the loaded encoding.
func (t *Tokens) Encoding() string { return t.encoding }

func (t *Tokens) Measure(s string) int {
	return len(t.enc.Encode(s, nil, nil))
}

// ForName returns the metric registered under name. encoding is only used
// by the tokens metric.
func ForName(name, encoding string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case MetricChars, "":
		return Chars{}, nil
	case MetricWords:
		return Words{}, nil
	case MetricTokens:
		return NewTokens(encoding)
	default:
		return nil, fmt.Errorf("weight: %w %q", ErrUnknownMetric, name)
	}
}

// Names lists the supported metric names.
func Names() []string {
	return []string{MetricChars, MetricWords, MetricTokens}
}

// Tree adapts m into a pack.WeightFunc that measures the dense
// serialization of a tree.
func Tree(m Metric) pack.WeightFunc {
	return func(n *vdom.Node) int {
		return m.Measure(vdom.Serialize(n, vdom.SerializeOptions{}))
	}
}
