package tools

import "github.com/invopop/jsonschema"

// QueryParams are the arguments both query tools accept.
type QueryParams struct {
	Question     string         `json:"question"`
	Files        []string       `json:"files,omitempty"`
	CodebaseInfo []CodebaseInfo `json:"codebaseInfo,omitempty"`
}

// CodebaseInfo is what the agent already knows about one file.
type CodebaseInfo struct {
	FileName   string   `json:"fileName,omitempty"`
	Imports    []string `json:"imports,omitempty"`
	Functions  []string `json:"functions,omitempty"`
	Classes    []string `json:"classes,omitempty"`
	Interfaces []string `json:"interfaces,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	JSON       any      `json:"json,omitempty"`
}

// The schema types below only drive JSON schema generation. They decode
// into QueryParams because the field names match.

type codeQuerySchema struct {
	Question     string           `json:"question" jsonschema:"required,description=A query you have about the actual code in your repository"`
	Files        []string         `json:"files,omitempty" jsonschema:"description=An array of FULL file paths. (skip it if you don't know the exact relative path you want to search for)"`
	CodebaseInfo []codeFileSchema `json:"codebaseInfo,omitempty" jsonschema:"description=An array of information about each file."`
}

func (codeQuerySchema) JSONSchemaExtend(s *jsonschema.Schema) {
	s.Description = "The schema for querying actual code in your codebase. This tool leverages information from the AST Vector Store to enhance results. Your query, along with optional file path details, guides the search."
}

type codeFileSchema struct {
	FileName   string   `json:"fileName,omitempty" jsonschema:"description=The name of the file being queried."`
	Imports    []string `json:"imports,omitempty" jsonschema:"description=The imported modules in the file."`
	Functions  []string `json:"functions,omitempty" jsonschema:"description=An array of function names in the file."`
	Classes    []string `json:"classes,omitempty" jsonschema:"description=An array of class names in the file."`
	Interfaces []string `json:"interfaces,omitempty" jsonschema:"description=An array of interface names in the file."`
	Tags       []string `json:"tags,omitempty" jsonschema:"description=An array of HTML tag names in the file."`
	JSON       any      `json:"json,omitempty" jsonschema:"description=Any other data related to the file."`
}

type astQuerySchema struct {
	Question     string          `json:"question" jsonschema:"required,description=A question you have about the ABSTRACT SYNTAX TREE of the repository"`
	Files        []string        `json:"files,omitempty" jsonschema:"description=An array of FULL file paths. (skip it if you don't know the exact relative path you want to search for)"`
	CodebaseInfo []astFileSchema `json:"codebaseInfo,omitempty" jsonschema:"description=An array of information about each file."`
}

func (astQuerySchema) JSONSchemaExtend(s *jsonschema.Schema) {
	s.Description = "The schema for Abstract Syntax Trees of your codebase, generated from parsed TypeScript and HTML files. As well as a question you have"
}

type astFileSchema struct {
	FileName   string   `json:"fileName,omitempty" jsonschema:"description=The name of the file being parsed into AST."`
	Imports    []string `json:"imports,omitempty" jsonschema:"description=The imported modules in the file."`
	Functions  []string `json:"functions,omitempty" jsonschema:"description=An array of function names."`
	Classes    []string `json:"classes,omitempty" jsonschema:"description=An array of class names."`
	Interfaces []string `json:"interfaces,omitempty" jsonschema:"description=An array of interface names."`
	Tags       []string `json:"tags,omitempty" jsonschema:"description=An array of HTML tag names."`
	JSON       any      `json:"json,omitempty" jsonschema:"description=Any other data in the form of JSON."`
}
