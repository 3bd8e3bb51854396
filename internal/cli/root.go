// Package cli implements employeectl, the operator command line for the
// employee store and the postal-code lookup.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jaswdr/faker"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/employees/internal/cep"
	"github.com/JonMunkholm/employees/internal/core"
)

// Opener connects the components a command needs. The returned func
// releases them.
type Opener func(ctx context.Context) (*core.Service, cep.Lookuper, func(), error)

type commandline struct {
	fs     afero.Fs
	open   Opener
	fake   faker.Faker
	output string

	svc    *core.Service
	lookup cep.Lookuper
	close  func()
}

// NewCommand builds the employeectl command tree. Files are read and
// written through fs.
func NewCommand(fs afero.Fs, open Opener) *cobra.Command {
	cl := &commandline{fs: fs, open: open, fake: faker.New()}

	root := &cobra.Command{
		Use:           "employeectl",
		Short:         "Manage employees and look up Brazilian postal codes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cl.output, "output", "o", "table", "output format: table or json")

	cl.list(root)
	cl.get(root)
	cl.create(root)
	cl.update(root)
	cl.delete(root)
	cl.cep(root)
	cl.seed(root)
	cl.importCSV(root)
	return root
}

// Run executes cmd and prints a failure to stderr. It returns the process
// exit code.
func Run(ctx context.Context, cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	red := color.New(color.FgRed).FprintfFunc()
	red(stderr, "Error: %v\n", err)
	if core.IsUserFacing(err) {
		msg := core.MapError(err)
		fmt.Fprintf(stderr, "%s (%s)\n", msg.Action, msg.Code)
	}
	return 1
}

func (cl *commandline) connect(cmd *cobra.Command, args []string) error {
	if err := cl.checkOutput(); err != nil {
		return err
	}
	if cl.svc != nil {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, lookup, closeFn, err := cl.open(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	cl.svc, cl.lookup, cl.close = svc, lookup, closeFn
	return nil
}

func (cl *commandline) disconnect(cmd *cobra.Command, args []string) {
	if cl.close != nil {
		cl.close()
	}
	cl.svc, cl.lookup, cl.close = nil, nil, nil
}

func (cl *commandline) checkOutput() error {
	switch cl.output {
	case "table", "json":
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use table or json)", cl.output)
	}
}

// check unwraps a data-access result.
func check[T any](op string, res core.Result[T]) (T, error) {
	if !res.Success {
		return res.Data, &opError{op: op, err: res.Err()}
	}
	return res.Data, nil
}

// opError names the failed operation while keeping the error's kind and
// text for MapError.
type opError struct {
	op  string
	err error
}

func (e *opError) Error() string { return e.op + ": " + e.err.Error() }
func (e *opError) Unwrap() error { return e.err }

var errNothingToDo = errors.New("nothing to write: pass --file or at least one field flag")
