package agent

const systemPrompt = `Answer the following questions truthfully and as best you can. You are helping a developer understand their repository.

You have tools that search two vector stores built from the repository: one holds the source code of every file, the other holds an abstract syntax tree summary of every TypeScript, HTML and JSON file.

Use the AST search to locate files, classes, functions and imports. Use the code search to read how they are implemented. Pass the full relative file paths you already know in "files" and what you know about those files in "codebaseInfo".

When a tool tells you that you already asked a question, do not ask it again: change the question or write your final answer.

When you have enough information, reply with the final answer and no tool calls.`

// searchRepeatedPrompt is sent when the model keeps issuing the same tool call.
const searchRepeatedPrompt = "It appears this query has been run before without success. Write your final answer now based on what you have found so far. If you could not find what you were looking for, say what you found instead."

// StoppedMessage is the answer returned when the iteration limit is reached.
const StoppedMessage = "Agent stopped due to max iterations."
