package main

import "github.com/shiftdesk/shiftdesk/internal/cli"

func main() {
	cli.Execute()
}
