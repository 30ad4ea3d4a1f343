package main

import "github.com/rmartin/apkscan/cmd"

// execCmd is indirected so tests can stub out command execution.
var execCmd = cmd.Execute

func main() {
	execCmd()
}
