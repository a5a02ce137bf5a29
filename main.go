package main

import "github.com/notargets/tecmesh/cmd"

func main() {
	cmd.Execute()
}
