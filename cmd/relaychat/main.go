package main

import "github.com/diogo/relaychat/internal/commands"

func main() {
	commands.Execute()
}
