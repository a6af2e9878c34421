package main

import (
	"os"

	betteragentscmder "github.com/contextware/better-agents/cmd/betteragents"
)

func main() {
	cmd := betteragentscmder.NewBetterAgentsCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
