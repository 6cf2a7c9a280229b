package main

import "greencommute/internal/cli"

func main() {
	cli.Execute()
}
