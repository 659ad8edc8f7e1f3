package main

import (
	"boscoin.io/governance/cmd/govnode/cmd"
)

func main() {
	cmd.Execute()
}
