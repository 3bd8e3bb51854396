package cli

import (
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// failedPath names the rejected-rows file next to the input:
// "equipe.csv" -> "equipe - failed.csv".
func failedPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + " - failed.csv"
}

func (cl *commandline) importCSV(cmd *cobra.Command) {
	var failedOut string
	ccmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Create employees from a CSV file",
		Long: `Create one employee per CSV row. The header names the columns
(nome, email, salario, dataAdmissao, ...; accents and case are ignored).
Rejected rows are written, with the reason, to "<file> - failed.csv".`,
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: cl.connect,
		PersistentPostRun: cl.disconnect,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := cl.fs.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			res, err := cl.svc.ImportCSV(cmd.Context(), f)
			if err != nil {
				return err
			}

			success(cmd.ErrOrStderr(), "created %d employee(s)\n", res.Created)
			if res.Blank > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d blank row(s)\n", res.Blank)
			}
			if len(res.Failed) == 0 {
				return nil
			}

			out := failedOut
			if out == "" {
				out = failedPath(args[0])
			}
			if err := writeCSV(cl.fs, out, append([][]string{res.FailedHeader}, res.Failed...)); err != nil {
				return err
			}
			warning(cmd.ErrOrStderr(), "%d row(s) rejected, see %s\n", len(res.Failed), out)
			return nil
		},
	}
	ccmd.Flags().StringVar(&failedOut, "failed-out", "", "where to write rejected rows (default \"<file> - failed.csv\")")
	cmd.AddCommand(ccmd)
}

func writeCSV(fs afero.Fs, path string, records [][]string) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
