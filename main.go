package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/up-budget/cmd/ledger"
	"fjacquet/up-budget/cmd/mapping"
	"fjacquet/up-budget/cmd/recommend"
	"fjacquet/up-budget/cmd/root"
	"fjacquet/up-budget/cmd/summary"
	"fjacquet/up-budget/cmd/transactions"
	"fjacquet/up-budget/cmd/trend"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(transactions.Cmd)
	root.Cmd.AddCommand(trend.Cmd)
	root.Cmd.AddCommand(recommend.Cmd)
	root.Cmd.AddCommand(ledger.Cmd)
	root.Cmd.AddCommand(mapping.Cmd)
}

func main() {
	// Ctrl-C cancels in-flight fetches; pages already received are discarded.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
