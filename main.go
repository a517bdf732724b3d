package main

import "github.com/luthersystems/mceval/cmd"

func main() {
	cmd.Execute()
}
