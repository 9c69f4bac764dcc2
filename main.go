package main

import "github.com/parley-chat/parley-services/cmd"

func main() {
	cmd.Execute()
}
