package codebase

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// unknownType is reported for parameters, properties and return types without an annotation.
const unknownType = "any"

// ParseTypeScript extracts imports, top-level functions, classes and interfaces from a .ts file.
func ParseTypeScript(ctx context.Context, fileName string, content []byte) (FileInfo, error) {
	info := FileInfo{
		Kind:       KindTypeScript,
		FileName:   fileName,
		Imports:    []string{},
		Functions:  []Function{},
		Classes:    []Class{},
		Interfaces: []Interface{},
	}

	// A parser per call keeps this safe for concurrent use.
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(typescript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return info, fmt.Errorf("failed to parse %s: %w", fileName, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return info, nil
	}

	ts := tsWalker{src: content}
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "import_statement":
			if spec := ts.importSource(child); spec != "" {
				info.Imports = append(info.Imports, spec)
			}
		case "export_statement":
			ts.exportStatement(child, &info)
		default:
			ts.declaration(child, nil, &info)
		}
	}

	return info, nil
}

type tsWalker struct {
	src []byte
}

func (w tsWalker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

// declaration records a function, class or interface declaration node.
// Decorators written before `export` are passed in by the caller.
func (w tsWalker) declaration(n *sitter.Node, decorators []Decorator, info *FileInfo) {
	switch n.Type() {
	case "function_declaration":
		if fn, ok := w.function(n); ok {
			info.Functions = append(info.Functions, fn)
		}
	case "class_declaration", "abstract_class_declaration":
		if cls, ok := w.class(n, decorators); ok {
			info.Classes = append(info.Classes, cls)
		}
	case "interface_declaration":
		if iface, ok := w.iface(n); ok {
			info.Interfaces = append(info.Interfaces, iface)
		}
	}
}

func (w tsWalker) exportStatement(n *sitter.Node, info *FileInfo) {
	var decorators []Decorator
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "decorator":
			decorators = append(decorators, w.decorator(child))
		default:
			w.declaration(child, decorators, info)
		}
	}
}

func (w tsWalker) importSource(n *sitter.Node) string {
	if src := n.ChildByFieldName("source"); src != nil {
		return w.stringContent(src)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child.Type() == "string" {
			return w.stringContent(child)
		}
	}
	return ""
}

// stringContent returns a string literal without its quotes.
func (w tsWalker) stringContent(n *sitter.Node) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child.Type() == "string_fragment" {
			return w.text(child)
		}
	}
	return strings.Trim(w.text(n), "\"'`")
}

func (w tsWalker) function(n *sitter.Node) (Function, bool) {
	name := w.text(n.ChildByFieldName("name"))
	if name == "" {
		return Function{}, false
	}
	return Function{
		Name:       name,
		Parameters: w.parameters(n.ChildByFieldName("parameters")),
		ReturnType: w.typeAnnotation(n.ChildByFieldName("return_type")),
	}, true
}

func (w tsWalker) class(n *sitter.Node, decorators []Decorator) (Class, bool) {
	cls := Class{
		Decorators: append([]Decorator{}, decorators...),
		Methods:    []Method{},
	}

	var body *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "decorator":
			cls.Decorators = append(cls.Decorators, w.decorator(child))
		case "type_identifier", "identifier":
			if cls.Name == "" {
				cls.Name = w.text(child)
			}
		case "class_body":
			body = child
		}
	}
	if cls.Name == "" {
		return Class{}, false
	}

	if body != nil {
		cls.Methods = w.methods(body)
	}
	return cls, true
}

// methods collects method definitions of a class body. Decorators precede
// the member they apply to as siblings inside the body.
func (w tsWalker) methods(body *sitter.Node) []Method {
	methods := []Method{}
	var pending []Decorator

	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Type() {
		case "decorator":
			pending = append(pending, w.decorator(child))
			continue
		case "method_definition", "abstract_method_signature":
			if m, ok := w.method(child, pending); ok {
				methods = append(methods, m)
			}
		}
		if child.IsNamed() {
			pending = nil
		}
	}
	return methods
}

func (w tsWalker) method(n *sitter.Node, decorators []Decorator) (Method, bool) {
	name := w.text(n.ChildByFieldName("name"))
	if name == "" || name == "constructor" {
		return Method{}, false
	}
	// Accessors are not methods.
	for i := 0; i < int(n.ChildCount()); i++ {
		if t := n.Child(i).Type(); t == "get" || t == "set" {
			return Method{}, false
		}
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child.Type() == "decorator" {
			decorators = append(decorators, w.decorator(child))
		}
	}

	return Method{
		Name:       name,
		Parameters: w.parameters(n.ChildByFieldName("parameters")),
		ReturnType: w.typeAnnotation(n.ChildByFieldName("return_type")),
		Decorators: append([]Decorator{}, decorators...),
	}, true
}

func (w tsWalker) parameters(n *sitter.Node) []Parameter {
	params := []Parameter{}
	if n == nil {
		return params
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "required_parameter", "optional_parameter":
			pattern := child.ChildByFieldName("pattern")
			name := w.text(pattern)
			if pattern != nil && pattern.Type() == "rest_pattern" {
				name = strings.TrimPrefix(name, "...")
			}
			params = append(params, Parameter{
				Name: name,
				Type: w.typeAnnotation(child.ChildByFieldName("type")),
			})
		}
	}
	return params
}

// typeAnnotation returns the type text of a type_annotation node, dropping the leading colon.
func (w tsWalker) typeAnnotation(n *sitter.Node) string {
	if n == nil {
		return unknownType
	}
	var parts []string
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() != ":" {
			parts = append(parts, w.text(child))
		}
	}
	if len(parts) == 0 {
		return unknownType
	}
	return strings.Join(parts, " ")
}

// decorator reads `@Name`, `@ns.Name`, `@Name(args)` and `@ns.Name(args)`.
func (w tsWalker) decorator(n *sitter.Node) Decorator {
	d := Decorator{Arguments: []string{}}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "identifier", "member_expression":
			d.Name = w.calleeName(child)
		case "call_expression":
			d.Name = w.calleeName(child.ChildByFieldName("function"))
			if args := child.ChildByFieldName("arguments"); args != nil {
				for j := 0; j < int(args.NamedChildCount()); j++ {
					d.Arguments = append(d.Arguments, w.text(args.NamedChild(j)))
				}
			}
		}
	}
	return d
}

func (w tsWalker) calleeName(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	if n.Type() == "member_expression" {
		if prop := n.ChildByFieldName("property"); prop != nil {
			return w.text(prop)
		}
	}
	return w.text(n)
}

func (w tsWalker) iface(n *sitter.Node) (Interface, bool) {
	name := w.text(n.ChildByFieldName("name"))
	if name == "" {
		return Interface{}, false
	}
	iface := Interface{Name: name, Properties: []Property{}}

	body := n.ChildByFieldName("body")
	if body == nil {
		return iface, true
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() != "property_signature" {
			continue
		}
		iface.Properties = append(iface.Properties, Property{
			Name: w.text(child.ChildByFieldName("name")),
			Type: w.typeAnnotation(child.ChildByFieldName("type")),
		})
	}
	return iface, true
}
