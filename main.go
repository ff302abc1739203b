package main

import "github.com/jsphweid/progstudio/cmd"

func main() {
	cmd.Execute()
}
