// Package shell is the interactive, menu driven front end of the ledger.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/voidshard/budget/pkg/ledger"
)

const menu = `
Personal Budget Tracker Menu:
1. Add Transaction
2. Remove Transaction
3. Update Transaction
4. List Transactions
5. Show Balance
0. Exit
`

// maxLine is the longest input line the shell accepts.
const maxLine = 64 * 1024

type Shell struct {
	ledger   *ledger.Ledger
	in       *bufio.Reader
	out      io.Writer
	currency string
}

func New(l *ledger.Ledger, in io.Reader, out io.Writer, currency string) *Shell {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Shell{
		ledger:   l,
		in:       bufio.NewReaderSize(in, maxLine),
		out:      out,
		currency: currency,
	}
}

// Run shows the menu and handles choices until the user exits or the input
// ends. Failed commands are reported and the menu comes back.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Welcome to the Personal Budget Tracker!")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(s.out, menu)
		choice, err := s.prompt("Choose an option: ")
		if err == nil {
			err = s.dispatch(choice)
		}

		if errors.Is(err, errExit) || errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out, "Exiting Personal Budget Tracker.")
			return nil
		}
		if errors.Is(err, errLineTooLong) {
			fmt.Fprintf(s.out, "Input longer than %d bytes, please try again.\n", maxLine)
			continue
		}
		if err != nil {
			return err
		}
	}
}

var (
	errExit        = errors.New("exit")
	errLineTooLong = errors.New("input line too long")
)

func (s *Shell) dispatch(choice string) error {
	log.Debug().Str("choice", choice).Msg("menu selection")

	switch choice {
	case "1":
		return s.add()
	case "2":
		return s.remove()
	case "3":
		return s.update()
	case "4":
		s.list()
	case "5":
		s.balance()
	case "0":
		return errExit
	default:
		fmt.Fprintln(s.out, "Invalid option, please try again.")
	}
	return nil
}

func (s *Shell) add() error {
	kind, err := s.prompt("Enter transaction type (income/expense): ")
	if err != nil {
		return err
	}
	description, err := s.prompt("Enter description: ")
	if err != nil {
		return err
	}
	amount, err := s.prompt("Enter amount: ")
	if err != nil {
		return err
	}

	t, err := s.ledger.Add(kind, description, amount)
	if err != nil {
		s.report(err)
		return nil
	}
	fmt.Fprintf(s.out, "Transaction added: %s\n", FormatTransaction(*t, s.currency))
	return nil
}

func (s *Shell) remove() error {
	id, ok, err := s.promptID("Enter transaction ID to remove: ")
	if err != nil || !ok {
		return err
	}

	if _, err := s.ledger.Remove(id); err != nil {
		s.report(err)
		return nil
	}
	fmt.Fprintf(s.out, "Transaction with ID %d removed.\n", id)
	return nil
}

func (s *Shell) update() error {
	id, ok, err := s.promptID("Enter transaction ID to update: ")
	if err != nil || !ok {
		return err
	}
	if _, err := s.ledger.Get(id); err != nil {
		s.report(err)
		return nil
	}

	kind, err := s.prompt("Enter new type (income/expense or leave blank): ")
	if err != nil {
		return err
	}
	description, err := s.prompt("Enter new description (or leave blank): ")
	if err != nil {
		return err
	}
	amount, err := s.prompt("Enter new amount (or leave blank): ")
	if err != nil {
		return err
	}

	_, err = s.ledger.Update(id, ledger.Patch{Kind: &kind, Description: &description, Amount: &amount})
	if err != nil {
		s.report(err)
		return nil
	}
	fmt.Fprintf(s.out, "Transaction with ID %d updated.\n", id)
	return nil
}

func (s *Shell) list() {
	WriteTransactions(s.out, s.ledger.List(), s.currency)
}

func (s *Shell) balance() {
	fmt.Fprint(s.out, FormatBalance(s.ledger.Balance(), s.currency))
}

// prompt asks for one line of input. io.EOF means the input is exhausted;
// errLineTooLong means an overlong line was read and thrown away.
func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)

	line, err := s.in.ReadSlice('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		for errors.Is(err, bufio.ErrBufferFull) {
			_, err = s.in.ReadSlice('\n')
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		fmt.Fprintln(s.out)
		return "", errLineTooLong
	}
	if errors.Is(err, io.EOF) && len(line) > 0 {
		err = nil
	}
	if err != nil {
		fmt.Fprintln(s.out)
		return "", err
	}
	return strings.TrimSpace(string(line)), nil
}

// promptID asks for a transaction id; ok is false (and the problem already
// reported) when the answer isn't a positive integer.
func (s *Shell) promptID(label string) (int64, bool, error) {
	raw, err := s.prompt(label)
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(s.out, "Invalid transaction ID: %q\n", raw)
		return 0, false, nil
	}
	return id, true, nil
}

// report prints a failed command. Lookup and input problems are expected;
// anything else (eg. the store refusing a write) is logged as well.
func (s *Shell) report(err error) {
	if !errors.Is(err, ledger.ErrNotFound) && !errors.Is(err, ledger.ErrInvalidInput) {
		log.Error().Err(err).Msg("command failed")
	}
	fmt.Fprintf(s.out, "Error: %v\n", err)
}
