package codebase

import "path/filepath"

// Route returns the parser kind for a file path based on its extension.
// Only .ts, .html and .json files are parsed; the match is case-sensitive.
func Route(path string) Kind {
	switch filepath.Ext(path) {
	case ".ts":
		return KindTypeScript
	case ".html":
		return KindHTML
	case ".json":
		return KindJSON
	default:
		return KindNone
	}
}

// Partition groups files by kind, keeping the input order inside each group.
func Partition(files []string) map[Kind][]string {
	groups := make(map[Kind][]string)
	for _, f := range files {
		k := Route(f)
		if k == KindNone {
			continue
		}
		groups[k] = append(groups[k], f)
	}
	return groups
}
