package main

import "github.com/mischadiehm/muka/cmd"

func main() {
	cmd.Execute()
}
