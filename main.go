package main

import "FITSrender/cmd"

func main() {
	cmd.Execute()
}
