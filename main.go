package main

import "github.com/gaurav-prasanna/parselinks/cmd"

func main() {
	cmd.Execute()
}
