package main

import "panekit/cmd"

func main() {
	cmd.Execute()
}
