package main

import "github.com/andrejsstepanovs/collab/cmd"

func main() {
	cmd.Execute()
}
