package main

import "github.com/jhoicas/ProjectLedger-api/cmd/ledgerctl/cmd"

func main() {
	cmd.Execute()
}
