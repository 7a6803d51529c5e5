// Command pokersettle settles a finished home game from the command line.
//
// It reads a CSV roster of name,buy_in,final_stack, checks that the final
// stacks add up to the purse, and prints who pays whom:
//
//	pokersettle game.csv
//	pokersettle -remote http://localhost:8080 - < game.csv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/pterm/pterm"

	"github.com/mmynk/potsettle/internal/calculator"
	"github.com/mmynk/potsettle/internal/ledger"
	"github.com/mmynk/potsettle/internal/middleware"
	"github.com/mmynk/potsettle/pkg/api/apiconnect"
)

func main() {
	remoteFlag := flag.String("remote", "", "settle through a potsettle server at this URL instead of locally")
	tokenFlag := flag.String("token", "", "bearer token sent to the remote server")
	timeoutFlag := flag.Duration("timeout", 10*time.Second, "timeout for remote calls")
	debugFlag := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [OPTIONS] <roster.csv | ->\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	if *debugFlag {
		pterm.DefaultLogger.Level = pterm.LogLevelDebug
	}
	slog.SetDefault(slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger)))

	var in io.Reader = os.Stdin
	if path := flag.Arg(0); path != "-" {
		f, err := os.Open(path)
		if err != nil {
			pterm.Error.Printfln("Cannot open roster: %v", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	var s settler = localSettler{}
	if *remoteFlag != "" {
		var opts []connect.ClientOption
		if *tokenFlag != "" {
			opts = append(opts, connect.WithInterceptors(middleware.BearerAuth(*tokenFlag)))
		}
		s = remoteSettler{client: apiconnect.NewSettleServiceClient(http.DefaultClient, *remoteFlag, opts...)}
		slog.Debug("Settling remotely", "url", *remoteFlag)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	err := run(ctx, in, s)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}

// run reads the roster, prints the players table and, when the stacks
// balance, the payment plan. Errors are printed before being returned.
func run(ctx context.Context, in io.Reader, s settler) error {
	players, err := readRoster(in)
	if err != nil {
		pterm.Error.Println(err.Error())
		return err
	}

	balances, entries := calculator.NetBalances(players)

	pterm.DefaultSection.Println("Players")
	if err := renderTable(playersTable(balances)); err != nil {
		return err
	}

	plan, err := s.Settle(ctx, entries)
	if err != nil {
		var mismatch *ledger.MismatchError
		if errors.As(err, &mismatch) {
			pterm.Error.Println(mismatchMessage(mismatch.ActualSum))
			return err
		}
		pterm.Error.Printfln("Settlement failed: %v", err)
		return err
	}
	slog.Debug("Plan computed", "players", len(players), "payments", len(plan))

	if len(plan) == 0 {
		pterm.Success.Println("Everyone broke even. Nobody owes anything.")
		return nil
	}

	pterm.DefaultSection.Println("Payments")
	if err := renderTable(paymentsTable(plan)); err != nil {
		return err
	}
	for _, p := range plan {
		pterm.Info.Println(statement(p))
	}
	pterm.Success.Printfln("%d payments settle the game.", len(plan))

	return nil
}
