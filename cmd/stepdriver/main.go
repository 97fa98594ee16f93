package main

import "github.com/stepdriver-dev/stepdriver/pkg/cli"

func main() {
	cli.Execute()
}
