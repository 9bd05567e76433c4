package main

import "github.com/kailas-cloud/vecrag/internal/cli"

func main() {
	cli.Execute()
}
