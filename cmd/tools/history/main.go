package main

import "github.com/sahaara/backend/internal/cli"

func main() {
	cli.Execute()
}
