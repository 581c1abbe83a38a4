package main

import (
	"os"

	"repoqa/internal/cli"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API answers questions about an indexed code repository.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: repoqa API
//   description: |
//     Question answering over a git repository. The repository is indexed into a source
//     store and an AST summary store, and an agent answers questions using both.
//   version: 1.0.0
// schemes:
//   - http
// consumes:
//   - application/json
// produces:
//   - application/json

func main() {
	os.Exit(cli.Execute())
}
