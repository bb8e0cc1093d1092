package main

import "github.com/roessland/syncwich/cmd"

func main() {
	cmd.Execute()
}
