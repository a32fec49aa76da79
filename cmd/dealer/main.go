package main

import "promptresponse/internal/cli"

func main() {
	cli.Execute()
}
