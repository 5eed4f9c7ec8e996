package main

import (
	_ "time/tzdata"

	"courtside/cmd"
)

func main() {
	cmd.Execute()
}
