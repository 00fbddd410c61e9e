package main

import (
	"cryptodash/cmd"
)

func main() {
	cmd.Execute()
}
