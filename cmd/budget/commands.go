package main

import (
	"context"
	"fmt"

	"github.com/voidshard/budget/pkg/ledger"
	"github.com/voidshard/budget/pkg/shell"
)

type shellCmd struct{}

func (c *shellCmd) Run(a *app) error {
	return shell.New(a.Ledger, a.In, a.Out, a.Currency).Run(context.Background())
}

type addCmd struct {
	Kind        string `arg:"" help:"income or expense."`
	Description string `arg:"" help:"What the money was for."`
	Amount      string `arg:"" help:"Amount, eg. 12.50."`
}

func (c *addCmd) Run(a *app) error {
	t, err := a.Ledger.Add(c.Kind, c.Description, c.Amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Transaction added: %s\n", shell.FormatTransaction(*t, a.Currency))
	return nil
}

type removeCmd struct {
	ID int64 `arg:"" help:"Transaction id."`
}

func (c *removeCmd) Run(a *app) error {
	if _, err := a.Ledger.Remove(c.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Transaction with ID %d removed.\n", c.ID)
	return nil
}

type updateCmd struct {
	ID          int64  `arg:"" help:"Transaction id."`
	Kind        string `help:"New kind (income or expense)."`
	Description string `help:"New description."`
	Amount      string `help:"New amount."`
}

func (c *updateCmd) Run(a *app) error {
	t, err := a.Ledger.Update(c.ID, ledger.Patch{
		Kind:        &c.Kind,
		Description: &c.Description,
		Amount:      &c.Amount,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Transaction updated: %s\n", shell.FormatTransaction(*t, a.Currency))
	return nil
}

type listCmd struct{}

func (c *listCmd) Run(a *app) error {
	shell.WriteTransactions(a.Out, a.Ledger.List(), a.Currency)
	return nil
}

type balanceCmd struct{}

func (c *balanceCmd) Run(a *app) error {
	fmt.Fprint(a.Out, shell.FormatBalance(a.Ledger.Balance(), a.Currency))
	return nil
}
