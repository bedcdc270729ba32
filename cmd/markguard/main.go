package main

import "github.com/markguard/markguard/pkg/cli"

func main() {
	cli.Execute()
}
