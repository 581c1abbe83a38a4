package llm

import (
	"encoding/json"
	"testing"
)

type schemaArgs struct {
	Question string   `json:"question" jsonschema:"required,description=The question to ask"`
	Files    []string `json:"files,omitempty"`
}

func TestGenerateSchemaFrom(t *testing.T) {
	data, err := json.Marshal(GenerateSchemaFrom(schemaArgs{}))
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}

	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		t.Fatalf("unmarshal schema: %v", err)
	}
	if schema["type"] != "object" {
		t.Errorf("type = %v, want object", schema["type"])
	}
	if _, ok := schema["$ref"]; ok {
		t.Error("schema should be inlined without $ref")
	}
	props, _ := schema["properties"].(map[string]any)
	question, _ := props["question"].(map[string]any)
	if question["description"] != "The question to ask" {
		t.Errorf("question description = %v", question["description"])
	}
	required, _ := schema["required"].([]any)
	if len(required) != 1 || required[0] != "question" {
		t.Errorf("required = %v, want [question]", required)
	}
}

func TestParseToolArguments(t *testing.T) {
	got, err := ParseToolArguments[schemaArgs](`{"question":"where?","files":["a.ts"]}`)
	if err != nil {
		t.Fatalf("ParseToolArguments() error = %v", err)
	}
	if got.Question != "where?" || len(got.Files) != 1 {
		t.Errorf("ParseToolArguments() = %+v", got)
	}

	if _, err := ParseToolArguments[schemaArgs](`not json`); err == nil {
		t.Error("ParseToolArguments() with invalid JSON should return error")
	}
}
