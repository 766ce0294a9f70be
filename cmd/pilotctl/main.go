// Command pilotctl submits a MedRoute pilot request from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/medroute/pilot/pkg/pilotform"
	"github.com/medroute/pilot/pkg/zerolog"
	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:3001"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "pilotctl",
		Short:         "Client for the MedRoute pilot signup API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(out)
	root.AddCommand(newSubmitCmd())
	return root
}

type submitOptions struct {
	server  string
	timeout time.Duration
	verbose bool
	values  pilotform.Values
}

func newSubmitCmd() *cobra.Command {
	opts := &submitOptions{}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Validate and submit a pilot request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSubmit(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.server, "server", defaultServer, "base URL of the MedRoute API")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "give up on the request after this long (0 waits forever)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log request details")
	flags.StringVar(&opts.values.Org, "org", "", "organization name")
	flags.StringVar(&opts.values.Contact, "contact", "", "contact person")
	flags.StringVar(&opts.values.Email, "email", "", "email address")
	flags.StringVar(&opts.values.Phone, "phone", "", "phone number")
	flags.StringVar(&opts.values.City, "city", "", "city")
	flags.StringVar(&opts.values.Notes, "notes", "", "additional notes")

	return cmd
}

func runSubmit(cmd *cobra.Command, opts *submitOptions) error {
	out := cmd.OutOrStdout()

	formOpts := []pilotform.Option{}
	if opts.verbose {
		logger := zerolog.NewJSONLogger("pilotctl", cmd.ErrOrStderr())
		logger.SetLevel("debug")
		formOpts = append(formOpts, pilotform.WithLogger(logger))
	}

	form, err := pilotform.New(opts.server, formOpts...)
	if err != nil {
		fmt.Fprintln(out, err)
		return err
	}
	for _, field := range pilotform.Fields {
		if err := form.Update(field, opts.values.Get(field)); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	err = form.Submit(ctx)
	switch {
	case errors.Is(err, pilotform.ErrValidation):
		printFieldErrors(out, form.State().Errors)
		return err
	case err != nil:
		fmt.Fprintln(out, form.StatusMessage())
		if opts.verbose {
			fmt.Fprintln(out, err)
		}
		return err
	}

	fmt.Fprintln(out, form.StatusMessage())
	form.ResetOutcome()
	fmt.Fprintf(out, "%s: run pilotctl submit again.\n", pilotform.MsgSubmitMore)
	return nil
}

func printFieldErrors(out io.Writer, errs map[pilotform.Field]string) {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, string(field))
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(out, "--%s: %s\n", field, errs[pilotform.Field(field)])
	}
}
