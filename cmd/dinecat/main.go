package main

import "github.com/dinecat/dinecat/cmd/dinecat/cmd"

func main() {
	cmd.Execute()
}
