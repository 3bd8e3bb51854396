package cli

import (
	"github.com/spf13/cobra"
)

func (cl *commandline) cep(cmd *cobra.Command) {
	ccmd := &cobra.Command{
		Use:               "cep <code>",
		Short:             "Look up a postal code",
		Example:           "  employeectl cep 01310-100",
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: cl.connect,
		PersistentPostRun: cl.disconnect,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := cl.lookup.Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return cl.printAddress(cmd.OutOrStdout(), addr)
		},
	}
	cmd.AddCommand(ccmd)
}
