package main

import (
	"github.com/contact-sim/contact-sim/cmd"
)

func main() {
	cmd.Execute()
}
