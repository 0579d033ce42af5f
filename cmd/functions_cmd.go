package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/showroom/internal/cel"
	"github.com/oakwood-commons/showroom/pkg/settings"
)

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List the CEL functions usable in --where",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fns, err := cel.DiscoverFunctions()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "Variables: _ (record fields), name, price, limited")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Functions:")
		for _, fn := range fns {
			fmt.Fprintf(w, "  %s\n", fn)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Examples:")
		for _, ex := range cel.Examples() {
			fmt.Fprintf(w, "  %s --where '%s'\n", settings.CliBinaryName, ex)
		}
		return nil
	},
}
