package main

import (
	"encoding/hex"
	"fmt"

	"github.com/fine-structures/alkanes/alkane"
	"github.com/fine-structures/alkanes/libalkane/catalog"
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "catalog PATH",
		Short: "Prints the isomer count of each level stored in a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catCtx := alkane.NewCatalogContext()
			defer func() {
				catCtx.Close()
				<-catCtx.Done()
			}()

			cat, err := catalog.OpenCatalog(catCtx, alkane.CatalogOpts{
				DbPathName: args[0],
				ReadOnly:   true,
			})
			if err != nil {
				return err
			}
			defer cat.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# labeller: %s\n", cat.LabellerKind())
			alkane.WriteTableHeader(out)
			for C := 1; C <= cat.MaxCarbons(); C++ {
				if verify {
					if _, err = cat.ReadLevel(C); err != nil {
						return err
					}
				}
				lvl := alkane.LevelCount{Carbons: C, Isomers: cat.NumIsomers(C)}
				lvl.WriteTableRow(out, hex.EncodeToString(cat.LevelDigest(C)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", false, "read back each level and check it against its digest")
	return cmd
}
