package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/employees/internal/apperr"
	"github.com/JonMunkholm/employees/internal/core"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, apperr.Newf(apperr.Validation, "invalid employee id: %q", s)
	}
	return id, nil
}

func (cl *commandline) list(cmd *cobra.Command) {
	ccmd := &cobra.Command{
		Use:               "list",
		Short:             "List every employee",
		Aliases:           []string{"ls"},
		Args:              cobra.NoArgs,
		PersistentPreRunE: cl.connect,
		PersistentPostRun: cl.disconnect,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := check("list", cl.svc.List(cmd.Context()))
			if err != nil {
				return err
			}
			return cl.printRows(cmd.OutOrStdout(), rows)
		},
	}
	cmd.AddCommand(ccmd)
}

func (cl *commandline) get(cmd *cobra.Command) {
	ccmd := &cobra.Command{
		Use:               "get <id>",
		Short:             "Show one employee",
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: cl.connect,
		PersistentPostRun: cl.disconnect,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			row, err := check("get", cl.svc.Get(cmd.Context(), id))
			if err != nil {
				return err
			}
			return cl.printRow(cmd.OutOrStdout(), row)
		},
	}
	cmd.AddCommand(ccmd)
}

func (cl *commandline) create(cmd *cobra.Command) {
	var file string
	ccmd := &cobra.Command{
		Use:   "create",
		Short: "Create employees from a YAML/JSON file or field flags",
		Example: `  employeectl create --nome "Ana Souza" --salario "3.500,00" --data-admissao 2024-02-01
  employeectl create -f equipe.yaml`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: cl.connect,
		PersistentPostRun: cl.disconnect,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := cl.records(cmd, file)
			if err != nil {
				return err
			}

			var created []core.EmployeeRow
			for i, rec := range records {
				e, err := core.EmployeeFromValues(rec)
				if err != nil {
					return fmt.Errorf("record %d: %w", i+1, err)
				}
				rows, err := check("create", cl.svc.Create(cmd.Context(), e))
				if err != nil {
					return err
				}
				created = append(created, rows...)
			}

			success(cmd.ErrOrStderr(), "created %d employee(s)\n", len(records))
			if len(created) == 0 {
				return nil
			}
			return cl.printRows(cmd.OutOrStdout(), created)
		},
	}
	ccmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON file with one employee or a list")
	fieldFlags(ccmd)
	cmd.AddCommand(ccmd)
}

func (cl *commandline) update(cmd *cobra.Command) {
	var file string
	ccmd := &cobra.Command{
		Use:               "update <id>",
		Short:             "Update the given fields of an employee",
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: cl.connect,
		PersistentPostRun: cl.disconnect,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			records, err := cl.records(cmd, file)
			if err != nil {
				return err
			}
			if len(records) != 1 {
				return fmt.Errorf("update takes one employee, file has %d", len(records))
			}

			e, err := core.EmployeeFromValues(records[0])
			if err != nil {
				return err
			}
			rows, err := check("update", cl.svc.Update(cmd.Context(), id, e))
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				warning(cmd.ErrOrStderr(), "no employee updated (id %d)\n", id)
				return nil
			}
			success(cmd.ErrOrStderr(), "updated employee %d\n", id)
			return cl.printRows(cmd.OutOrStdout(), rows)
		},
	}
	ccmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON file with the fields to change")
	fieldFlags(ccmd)
	cmd.AddCommand(ccmd)
}

func (cl *commandline) delete(cmd *cobra.Command) {
	ccmd := &cobra.Command{
		Use:               "delete <id>",
		Short:             "Delete an employee",
		Aliases:           []string{"rm"},
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: cl.connect,
		PersistentPostRun: cl.disconnect,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			rows, err := check("delete", cl.svc.Delete(cmd.Context(), id))
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				warning(cmd.ErrOrStderr(), "no employee deleted (id %d)\n", id)
				return nil
			}
			success(cmd.ErrOrStderr(), "deleted employee %d\n", id)
			return nil
		},
	}
	cmd.AddCommand(ccmd)
}

// records merges the file records with the field flags, flags winning.
func (cl *commandline) records(cmd *cobra.Command, file string) ([]map[string]string, error) {
	flags := flagValues(cmd)

	var records []map[string]string
	if file != "" {
		var err error
		if records, err = cl.readRecords(file); err != nil {
			return nil, err
		}
	} else {
		if len(flags) == 0 {
			return nil, errNothingToDo
		}
		records = []map[string]string{{}}
	}

	for _, rec := range records {
		for k, v := range flags {
			rec[k] = v
		}
	}
	return records, nil
}
