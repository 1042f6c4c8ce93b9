package main

import "josephlewis.net/microsh/cmd"

func main() {
	cmd.Execute()
}
