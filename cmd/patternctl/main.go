// patternctl: pattern-first code generation CLI and MCP server.
//
// Code is only derived from stored, validated patterns. The CLI routes
// a task to a domain, searches the pattern store, reuses the best
// match, and only creates new validated patterns when nothing fits.
//
// Usage:
//
//	patternctl generate "setup nextjs project"   # run the pattern-first flow
//	patternctl create-pattern --domain frontend  # scaffold or submit a pattern
//	patternctl search "navigation"               # search stored patterns
//	patternctl list                              # list the whole store
//	patternctl serve                             # start MCP server (stdio transport)
package main

func main() {
	Execute()
}
