package main

import (
	"os"

	"github.com/bureauram/ldgateway/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
