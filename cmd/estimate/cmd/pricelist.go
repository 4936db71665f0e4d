package cmd

import (
	"fmt"

	"detailing-bot/internal/pricelist"

	"github.com/spf13/cobra"
)

func newPriceListCmd(e *env) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "pricelist",
		Short: "Export the catalog as an Excel price list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := e.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			if err := pricelist.Save(cat, out); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d services and %d packages to %s\n",
				len(cat.Services()), len(cat.Packages()), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "prices.xlsx", "output file")
	return cmd
}
