package main

import "github.com/njchilds90/chatsanitizer/internal/cli"

func main() {
	cli.Execute()
}
