package main

import "github.com/koscakluka/pullstring-core/internal/cli"

func main() {
	cli.Execute()
}
