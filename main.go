package main

import "github.com/gaurav-prasanna/chatscribe/cmd"

func main() {
	cmd.Execute()
}
