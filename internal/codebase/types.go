package codebase

import "encoding/json"

// Kind identifies which parser handles a file.
type Kind int

const (
	// KindNone marks files that are neither parsed nor indexed.
	KindNone Kind = iota
	KindTypeScript
	KindHTML
	KindJSON
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindTypeScript:
		return "typescript"
	case KindHTML:
		return "html"
	case KindJSON:
		return "json"
	default:
		return "none"
	}
}

// AST is the summary of a repository snapshot written to ast.json.
type AST struct {
	Files        []string   `json:"files"`
	CodebaseInfo []FileInfo `json:"codebaseInfo"`
}

// FileInfo is the per-file record. Only the fields of its Kind are populated.
type FileInfo struct {
	Kind     Kind   `json:"-"`
	FileName string `json:"fileName"`

	Imports    []string    `json:"imports,omitempty"`
	Functions  []Function  `json:"functions,omitempty"`
	Classes    []Class     `json:"classes,omitempty"`
	Interfaces []Interface `json:"interfaces,omitempty"`

	Tags []Tag `json:"tags,omitempty"`

	JSON any `json:"json,omitempty"`
}

// Function is a top-level function signature.
type Function struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters"`
	ReturnType string      `json:"returnType"`
}

// Parameter is a function or method parameter.
type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Class is a class declaration with its decorators and methods.
type Class struct {
	Name       string      `json:"name"`
	Decorators []Decorator `json:"decorators"`
	Methods    []Method    `json:"methods"`
}

// Method is a class method signature.
type Method struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters"`
	ReturnType string      `json:"returnType"`
	Decorators []Decorator `json:"decorators"`
}

// Decorator is a decorator application; Arguments hold the source text of each argument.
type Decorator struct {
	Name      string   `json:"name"`
	Arguments []string `json:"arguments"`
}

// Interface is an interface declaration with its property signatures.
type Interface struct {
	Name       string     `json:"name"`
	Properties []Property `json:"properties"`
}

// Property is an interface property signature.
type Property struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Tag is an HTML element with its attributes.
type Tag struct {
	Tag   string            `json:"tag"`
	Attrs map[string]string `json:"attrs"`
}

// MarshalJSON writes exactly the fields of the record's kind, keeping empty
// lists as [] so every TypeScript record has the same shape.
func (f FileInfo) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case KindTypeScript:
		return json.Marshal(struct {
			FileName   string      `json:"fileName"`
			Imports    []string    `json:"imports"`
			Functions  []Function  `json:"functions"`
			Classes    []Class     `json:"classes"`
			Interfaces []Interface `json:"interfaces"`
		}{f.FileName, nonNil(f.Imports), nonNil(f.Functions), nonNil(f.Classes), nonNil(f.Interfaces)})
	case KindHTML:
		return json.Marshal(struct {
			FileName string `json:"fileName"`
			Tags     []Tag  `json:"tags"`
		}{f.FileName, nonNil(f.Tags)})
	case KindJSON:
		return json.Marshal(struct {
			FileName string `json:"fileName"`
			JSON     any    `json:"json"`
		}{f.FileName, f.JSON})
	default:
		type plain FileInfo
		return json.Marshal(plain(f))
	}
}

// UnmarshalJSON reads a record and infers its kind from the fields present.
func (f *FileInfo) UnmarshalJSON(data []byte) error {
	type plain FileInfo
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = FileInfo(p)
	switch {
	case raw["json"] != nil:
		f.Kind = KindJSON
	case raw["tags"] != nil:
		f.Kind = KindHTML
	case raw["imports"] != nil || raw["functions"] != nil || raw["classes"] != nil || raw["interfaces"] != nil:
		f.Kind = KindTypeScript
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
