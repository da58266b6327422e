package main

import "test-token/cmd"

func main() {
	cmd.Execute()
}
