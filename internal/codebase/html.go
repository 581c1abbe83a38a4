package codebase

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
)

// ParseHTML lists every element of an HTML document in document order with its attributes.
// The parser completes partial documents, so the implied html, head and body elements are included.
func ParseHTML(fileName string, content []byte) (FileInfo, error) {
	info := FileInfo{Kind: KindHTML, FileName: fileName, Tags: []Tag{}}

	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return info, fmt.Errorf("failed to parse %s: %w", fileName, err)
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			attrs := make(map[string]string, len(n.Attr))
			for _, a := range n.Attr {
				key := a.Key
				if a.Namespace != "" {
					key = a.Namespace + ":" + a.Key
				}
				attrs[key] = a.Val
			}
			info.Tags = append(info.Tags, Tag{Tag: n.Data, Attrs: attrs})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return info, nil
}
