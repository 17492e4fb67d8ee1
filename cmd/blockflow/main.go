package main

import "github.com/andrescamacho/blockflow-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
