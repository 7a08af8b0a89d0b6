package main

import (
	cmd "github.com/budgetbot/budget/cmd/budget"
	"github.com/budgetbot/budget/internal"
)

var log = internal.GetLogger()

func main() {
	log.Info("Starting budget")
	cmd.Execute()
}
