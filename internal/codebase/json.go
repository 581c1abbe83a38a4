package codebase

import "encoding/json"

// ParseJSON decodes a .json file. Content that is not valid JSON yields an empty object.
func ParseJSON(fileName string, content []byte) FileInfo {
	var value any
	if err := json.Unmarshal(content, &value); err != nil {
		value = map[string]any{}
	}
	return FileInfo{Kind: KindJSON, FileName: fileName, JSON: value}
}
