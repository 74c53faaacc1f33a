package main

import (
	"github.com/stakeplay/tictactoe-go/internal/cli"
)

func main() {
	cli.Execute()
}
