// Command till-admin runs maintenance tasks against a till store: printing
// the daily report, exporting and importing backups, seeding the catalog and
// listing archived sales.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/till/internal/app"
	"github.com/xenking/till/internal/gate"
	"github.com/xenking/till/internal/pos"
	"github.com/xenking/till/internal/storage"
)

const usage = `usage: till-admin <command> [flags]

commands:
  report    print today's daily report
  export    write a backup file
  import    replace the terminal data with a backup file
  seed      add products from a JSON catalog file
  history   list archived sales (postgres store only)

The store is configured like till-server (TILL_STORE_* or till.yaml).
`

type command struct {
	flags *flag.FlagSet
	run   func(ctx context.Context, env *env) error
}

// env is what every command runs against.
type env struct {
	store storage.Store
	term  *pos.Terminal
	gate  *gate.Gate
	loc   *time.Location
	out   io.Writer
	ask   func() (string, error)
	// passphrase given on the command line, if any.
	passphrase string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	commands := map[string]command{
		"report":  reportCommand(),
		"export":  exportCommand(),
		"import":  importCommand(),
		"seed":    seedCommand(),
		"history": historyCommand(),
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var passphrase string
	cmd.flags.StringVar(&passphrase, "passphrase", os.Getenv("TILL_ADMIN_PASSPHRASE"), "operator passphrase (prompted when empty)")
	if err := cmd.flags.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, cmd, passphrase); err != nil {
		slog.Error("command failed", slog.String("command", os.Args[1]), slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd command, passphrase string) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	loc, err := cfg.TimeLocation()
	if err != nil {
		return err
	}
	g, err := app.NewGate(cfg.Gate)
	if err != nil {
		return errors.Wrap(err, "create gate")
	}

	slog.Info("opening store", slog.String("driver", cfg.Store.Driver))
	store, err := app.OpenStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	term, err := pos.New(pos.Options{
		Store:    store,
		Gate:     g,
		Logger:   zap.NewNop(),
		Location: loc,
	})
	if err != nil {
		return errors.Wrap(err, "create terminal")
	}
	if err := term.Load(ctx); err != nil {
		return errors.Wrap(err, "load terminal")
	}

	return cmd.run(ctx, &env{
		store:      store,
		term:       term,
		gate:       g,
		loc:        loc,
		out:        os.Stdout,
		ask:        prompt(os.Stdin, os.Stderr),
		passphrase: passphrase,
	})
}

// prompt reads a passphrase line from in.
func prompt(in io.Reader, out io.Writer) func() (string, error) {
	r := bufio.NewReader(in)
	return func() (string, error) {
		fmt.Fprint(out, "Passphrase: ")
		line, err := r.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return "", errors.Wrap(err, "read passphrase")
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}

const maxAttempts = 3

// privileged holds action until a passphrase is accepted. The command line
// passphrase gets one try; otherwise the operator is prompted until the
// passphrase matches or attempts run out.
func (e *env) privileged(name string, action func(passphrase string) error) error {
	var accepted string
	pending := e.gate.Require(name, func() error {
		return action(accepted)
	})

	if e.passphrase != "" {
		accepted = e.passphrase
		return pending.Verify(accepted)
	}

	var err error
	for range maxAttempts {
		if accepted, err = e.ask(); err != nil {
			pending.Cancel()
			return err
		}
		err = pending.Verify(accepted)
		if !errors.Is(err, gate.ErrIncorrectCredential) {
			return err
		}
		slog.Warn("incorrect passphrase", slog.String("action", pending.Name()))
	}
	pending.Cancel()
	return err
}
