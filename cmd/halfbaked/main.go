// Package main provides the halfbaked CLI.
package main

import "github.com/orieldave/half-baked/internal/cli"

func main() {
	cli.Execute()
}
