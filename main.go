package main

import "pagesdrop/cmd"

func main() {
	cmd.Execute()
}
