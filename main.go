package main

import "github.com/Bitlatte/projman/cmd"

func main() {
	cmd.Execute()
}
