package main

import "github.com/sqsp-tools/squarespace-mcp/internal/cli"

func main() {
	cli.Execute()
}
