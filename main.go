package main

import "github.com/kozaktomas/avatar-faces/cmd"

func main() {
	cmd.Execute()
}
