package main

import "storefront/cmd/storectl/commands"

func main() {
	commands.Execute()
}
