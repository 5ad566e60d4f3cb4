package main

import "github.com/darrancebeh/ischedulr/cmd"

func main() {
	cmd.Execute()
}
