// Package main is the entry point for the editops CLI.
package main

import "github.com/serroba/editops/cmd"

func main() {
	cmd.Execute()
}
