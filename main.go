package main

import "github.com/blaqat/theme-generation/cmd"

func main() {
	cmd.Execute()
}
