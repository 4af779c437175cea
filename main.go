package main

import "github.com/jsphweid/remitok/cmd"

func main() {
	cmd.Execute()
}
