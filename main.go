package main

import "github.com/itsmostafa/yearbook/cmd"

func main() {
	cmd.Execute()
}
