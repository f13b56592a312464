package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lodging/config"
	"lodging/di"
	"lodging/internal/domains/room/service"
	"lodging/shared/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

var errRoomsFailed = errors.New("some rooms could not be reconciled")

type options struct {
	tenant  string
	dryRun  bool
	timeout time.Duration
}

func parseFlags(args []string) (options, error) {
	var opts options

	flags := pflag.NewFlagSet("reconcile", pflag.ContinueOnError)
	flags.StringVar(&opts.tenant, "tenant", "", "only reconcile rooms of this tenant id (default all tenants)")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "report drift without writing")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Minute, "abort the run after this long")

	if err := flags.Parse(args); err != nil {
		return opts, fmt.Errorf("failed to parse flags: %w", err)
	}

	return opts, nil
}

// run recomputes room occupancy from the guest ledger and prints the report as JSON.
func run(ctx context.Context, rooms service.Room, opts options, out io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	res, err := rooms.ReconcileAll(ctx, opts.tenant, opts.dryRun)
	if err != nil {
		return fmt.Errorf("failed to reconcile rooms: %w", err)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(res); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if res.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", errRoomsFailed, res.Failed, res.Checked)
	}

	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger.Configure(config.Get())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, di.InitializeRoomService(), opts, os.Stdout); err != nil {
		logger.ErrorWithStack(err)
		stop()
		os.Exit(1)
	}

	log.Info().Str("tenant", opts.tenant).Bool("dry_run", opts.dryRun).Msg("reconcile finished")
}
