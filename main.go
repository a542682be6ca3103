// Package main is the entry point for the steeze-edge gate.
package main

import "github.com/joeydtaylor/steeze-edge/cmd"

func main() {
	cmd.Execute()
}
