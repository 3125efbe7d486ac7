package main

import "chatwire/cmd/schemagen/command"

func main() {
	command.Execute()
}
