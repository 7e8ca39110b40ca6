package main

import "github.com/tatianab/lifegit/internal/cli"

func main() {
	cli.Execute()
}
