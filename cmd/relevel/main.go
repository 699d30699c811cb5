package main

import "github.com/strongdm/relevel/internal/cli"

func main() {
	cli.Execute()
}
