package main

import (
	"github.com/deso-protocol/ternpow/cmd"
)

func main() {
	cmd.Execute()
}
