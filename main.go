package main

import "github.com/naricha/ctxwhisper/cmd"

func main() {
	cmd.Execute()
}
