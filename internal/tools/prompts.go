package tools

// Tool names as the agent sees them.
const (
	CodeQueryToolName = "monorepo-qa"
	ASTQueryToolName  = "monorepo-ast-search"
)

const (
	// CodeQueryDescription describes the code search tool to the agent.
	CodeQueryDescription = "ask questions about the code in a repo and get answers. it will also tell you when to stop searching, pay attention to that"

	// ASTQueryDescription describes the AST search tool to the agent.
	ASTQueryDescription = "Tool for exploring an Abstract Syntax Tree (AST) Vector Store. This store holds an abstracted form of your nx-monorepo codebase, with metadata and code structure.\n\nThe results are paginated, so leverage that to get more results for the same query."

	// RepoStoreContents tells the self-query model what code documents hold.
	RepoStoreContents = "ask whatever question you get directly to this agent. do not modify"

	// ASTStoreContents tells the self-query model what AST documents hold.
	ASTStoreContents = "The AST vector store is your go-to for querying and understanding your codebase. It holds an abstracted form of your codebase, each document being an Abstract Syntax Tree (AST) with metadata and file names."

	// NoDocumentsAnswer is returned when no retrieval step produced a document.
	NoDocumentsAnswer = "No relevant documents found"
)

const (
	sourceAttributeDescription = "file names to narrow down the search"
	selfQueryTemplate          = "find this file: %s related to this question: %s"
)
