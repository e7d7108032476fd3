// Package main is the snapgate entry point
package main

import "snapgate/internal/cli"

func main() {
	cli.Execute()
}
