/*Basic command structure*/
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/voidshard/budget/pkg/ledger"
	"github.com/voidshard/budget/pkg/shell"
)

// app is handed to every command's Run.
type app struct {
	Ledger   *ledger.Ledger
	Currency string
	In       io.Reader
	Out      io.Writer
}

// CLI commands / args available
type CLI struct {
	Store    string `help:"Where the ledger lives [jsonfile:/path/file.json sealed:/path/file sqlite:/path/file.db es8:http://myelasticsearch:9200]." default:"jsonfile:transactions.json" env:"BUDGET_STORE"`
	Key      string `help:"Passphrase for sealed stores." env:"BUDGET_KEY"`
	Currency string `help:"ISO 4217 currency amounts are shown in." default:"USD" env:"BUDGET_CURRENCY"`
	Verbose  bool   `short:"v" help:"Log debug output to stderr." env:"BUDGET_VERBOSE"`

	Shell   shellCmd   `cmd:"" default:"1" help:"Interactive menu (the default)."`
	Add     addCmd     `cmd:"" help:"Record a transaction."`
	Remove  removeCmd  `cmd:"" help:"Delete a transaction."`
	Update  updateCmd  `cmd:"" help:"Change fields of a transaction, blank flags are left alone."`
	List    listCmd    `cmd:"" help:"List all transactions."`
	Balance balanceCmd `cmd:"" help:"Show income, expenses and balance."`
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(
		cli,
		kong.Name("budget"),
		kong.Description("A personal income & expense ledger."),
		kong.UsageOnError(),
	)
}

func main() {
	// BUDGET_* settings may also come from a .env file in the working dir
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to read .env file")
	}

	cli := &CLI{}
	parser, err := newParser(cli)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	err = run(ctx, cli, os.Stdin, os.Stdout)
	ctx.FatalIfErrorf(err)
}

// run opens the configured ledger and executes the selected command.
func run(ctx *kong.Context, cli *CLI, in io.Reader, out io.Writer) error {
	configureLogging(cli.Verbose)

	if !shell.ValidCurrency(cli.Currency) {
		return fmt.Errorf("unknown currency %q", cli.Currency)
	}

	storage, err := getStore(cli.Store, cli.Key)
	if err != nil {
		return err
	}

	l, err := ledger.Open(storage)
	if err != nil {
		storage.Close()
		return err
	}
	defer l.Close()

	return ctx.Run(&app{Ledger: l, Currency: cli.Currency, In: in, Out: out})
}

func configureLogging(verbose bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}
