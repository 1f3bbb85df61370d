package main

import "github.com/ainize-bot/crowdy/cmd"

func main() {
	cmd.Execute()
}
