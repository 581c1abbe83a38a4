package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"repoqa/internal/contextutil"
)

// Comparators understood by the self-query retriever.
const (
	ComparatorEq      = "eq"
	ComparatorNe      = "ne"
	ComparatorContain = "contain"
	ComparatorLike    = "like"
	ComparatorIn      = "in"
)

// overFetch multiplies k for comparators the store cannot evaluate.
const overFetch = 10

// AttributeInfo declares a metadata attribute the model may filter on.
type AttributeInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// Comparison is a single metadata condition.
type Comparison struct {
	Comparator string `json:"comparator"`
	Attribute  string `json:"attribute"`
	Value      any    `json:"value"`
}

// StructuredQuery is the model's translation of a natural-language query.
type StructuredQuery struct {
	Query  string      `json:"query"`
	Filter *Comparison `json:"filter"`
}

// SelfQueryRetriever asks a model to split a request into a search string
// and a metadata filter, then searches the index with both.
type SelfQueryRetriever struct {
	llm        Completer
	index      *Index
	contents   string
	attributes []AttributeInfo
	k          int
}

// NewSelfQueryRetriever creates a self-query retriever. contents describes
// what the indexed documents hold.
func NewSelfQueryRetriever(llm Completer, index *Index, contents string, attributes []AttributeInfo) *SelfQueryRetriever {
	return &SelfQueryRetriever{
		llm:        llm,
		index:      index,
		contents:   strings.TrimSpace(contents),
		attributes: attributes,
		k:          DefaultK,
	}
}

// Retrieve translates query and runs the resulting search.
func (r *SelfQueryRetriever) Retrieve(ctx context.Context, query string) ([]Document, error) {
	logger := contextutil.LoggerFromContext(ctx)

	reply, err := r.llm.Complete(ctx, r.prompt(query))
	if err != nil {
		return nil, fmt.Errorf("failed to translate query: %w", err)
	}
	sq, err := ParseStructuredQuery(reply)
	if err != nil {
		return nil, err
	}
	if err := r.validate(sq.Filter); err != nil {
		return nil, err
	}

	search := sq.Query
	if strings.TrimSpace(search) == "" {
		search = query
	}
	logger.DebugContext(ctx, "self query translated", "query", search, "filter", sq.Filter)

	filter, post := pushDown(sq.Filter)
	k := r.k
	if post != nil {
		k *= overFetch
	}

	docs, err := r.index.SimilaritySearch(ctx, search, k, filter)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return docs, nil
	}

	kept := make([]Document, 0, r.k)
	for _, doc := range docs {
		if post(doc) {
			kept = append(kept, doc)
			if len(kept) == r.k {
				break
			}
		}
	}
	return kept, nil
}

func (r *SelfQueryRetriever) validate(c *Comparison) error {
	if c == nil {
		return nil
	}
	switch c.Comparator {
	case ComparatorEq, ComparatorNe, ComparatorContain, ComparatorLike, ComparatorIn:
	default:
		return fmt.Errorf("unsupported comparator %q", c.Comparator)
	}
	for _, a := range r.attributes {
		if a.Name == c.Attribute {
			return nil
		}
	}
	return fmt.Errorf("unknown filter attribute %q", c.Attribute)
}

// pushDown splits a comparison into a store filter and an in-process predicate.
// At most one of the two is non-nil. A comparison without a value, such as an
// empty in list, does not filter at all.
func pushDown(c *Comparison) (map[string]any, func(Document) bool) {
	if c == nil {
		return nil, nil
	}
	values := stringValues(c.Value)
	if len(values) == 0 {
		return nil, nil
	}
	switch c.Comparator {
	case ComparatorEq:
		return map[string]any{c.Attribute: values[0]}, nil
	case ComparatorIn:
		return map[string]any{c.Attribute: values}, nil
	case ComparatorNe:
		return nil, func(d Document) bool {
			return fmt.Sprint(d.Metadata[c.Attribute]) != first(values)
		}
	case ComparatorContain, ComparatorLike:
		return nil, func(d Document) bool {
			return strings.Contains(fmt.Sprint(d.Metadata[c.Attribute]), first(values))
		}
	}
	return nil, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func stringValues(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return []string{val}
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(val)}
	}
}

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// ParseStructuredQuery decodes a model reply, with or without a markdown code fence.
func ParseStructuredQuery(reply string) (StructuredQuery, error) {
	body := strings.TrimSpace(reply)
	if m := fencePattern.FindStringSubmatch(body); m != nil {
		body = m[1]
	}

	var sq StructuredQuery
	if err := json.Unmarshal([]byte(body), &sq); err != nil {
		return StructuredQuery{}, fmt.Errorf("failed to parse structured query: %w", err)
	}
	if sq.Filter != nil && sq.Filter.Comparator == "" && sq.Filter.Attribute == "" {
		sq.Filter = nil
	}
	return sq, nil
}

func (r *SelfQueryRetriever) prompt(query string) string {
	attrs, _ := json.MarshalIndent(r.attributes, "", "  ")
	var b strings.Builder
	b.WriteString("Your goal is to structure the user's query to match the request schema provided below.\n\n")
	b.WriteString("Respond with a markdown code snippet of a JSON object with the following schema:\n\n")
	b.WriteString("```json\n{\n  \"query\": string \\ text string to compare to document contents\n")
	b.WriteString("  \"filter\": object or null \\ a single condition {\"comparator\": string, \"attribute\": string, \"value\": string or list of strings}\n}\n```\n\n")
	b.WriteString("The query string should contain only text that is expected to match the contents of documents. ")
	b.WriteString("Any conditions in the filter should not be mentioned in the query as well.\n")
	b.WriteString("The comparator must be one of: eq, ne, contain, like, in.\n")
	b.WriteString("Make sure that you only use the attributes listed below and only use a filter if needed. Use null for no filter.\n\n")
	b.WriteString("Data Source:\n```json\n{\n")
	fmt.Fprintf(&b, "  \"content\": %q,\n", r.contents)
	fmt.Fprintf(&b, "  \"attributes\": %s\n}\n```\n\n", attrs)
	fmt.Fprintf(&b, "User Query:\n%s\n\nStructured Request:\n", query)
	return b.String()
}
