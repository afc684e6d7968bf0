package main

import (
	"fmt"

	"github.com/fine-structures/alkanes/alkane"
	"github.com/fine-structures/alkanes/libalkane"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	var (
		labeller string
		root     int
	)

	cmd := &cobra.Command{
		Use:   "encode EXPR...",
		Short: "Encodes skeleton expressions such as CC(C)C into digit codes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := alkane.ParseLabellerKind(labeller)
			if err != nil {
				return err
			}
			lb := libalkane.MustNewLabeller(kind)
			out := cmd.OutOrStdout()
			for _, expr := range args {
				sk, err := libalkane.ParseSkeleton(expr)
				if err != nil {
					return errors.Wrapf(err, "%q", expr)
				}
				X := sk.Code()
				if root > 0 {
					if X, err = sk.CodeFrom(root - 1); err != nil {
						return errors.Wrapf(err, "%q", expr)
					}
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", expr, X, lb.Signature(X, nil))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&labeller, "labeller", "", "canonical labeller: morgan or ahu")
	cmd.Flags().IntVar(&root, "root", 0, "root the code at this atom (1-based, in expression order); 0 roots at a most-bonded atom")
	return cmd
}
