package main

import "github.com/CarloDePieri/pass2keepass2/cmd/pass2keepass2/cmd"

func main() {
	cmd.Execute()
}
