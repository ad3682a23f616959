// Package builtin provides ready-made tools for agents:
//
//   - Calculator: binary arithmetic ("4 * 8")
//   - CodeWriter: write a file ("<path> <json-string>")
//   - FileReader: read a file ("<path>")
//   - DirectoryLister: list a directory ("<path>")
//   - System: run a shell command ("<command>")
//   - WebScraper: fetch a page and return its visible text ("<url>")
//
// Filesystem tools accept an optional root directory; relative paths resolve
// against it and paths escaping it are rejected. No other sandboxing is
// applied: System runs whatever the model asks for.
package builtin

import "github.com/hupe1980/agentloop/tool"

// Default returns every builtin tool with default options, in catalog order.
func Default() []tool.Tool {
	return []tool.Tool{
		NewCalculator(),
		NewCodeWriter(),
		NewFileReader(),
		NewDirectoryLister(),
		NewSystem(),
		NewWebScraper(),
	}
}
