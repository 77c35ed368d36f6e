package main

import "github.com/planedeck/planedeck/cmd/planedeck/commands"

func main() {
	commands.Execute()
}
