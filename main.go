package main

import "github.com/skvdb/skv/cmd"

func main() {
	cmd.Execute()
}
