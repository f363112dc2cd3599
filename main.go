package main

import "github.com/relloyd/airpipe/cmd"

func main() {
	cmd.Execute()
}
