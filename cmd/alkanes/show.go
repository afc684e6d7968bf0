package main

import (
	"fmt"
	"io"

	"github.com/fine-structures/alkanes/alkane"
	"github.com/fine-structures/alkanes/libalkane"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	var labeller string

	cmd := &cobra.Command{
		Use:   "show CODE...",
		Short: "Validates digit codes and prints their bonds, signature and skeleton",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := alkane.ParseLabellerKind(labeller)
			if err != nil {
				return err
			}
			lb := libalkane.MustNewLabeller(kind)
			for _, str := range args {
				X, err := alkane.ParseCode(str)
				if err != nil {
					return errors.Wrapf(err, "%q", str)
				}
				showCode(cmd.OutOrStdout(), X, lb)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&labeller, "labeller", "", "canonical labeller: morgan or ahu")
	return cmd
}

func showCode(out io.Writer, X alkane.Code, lb alkane.Labeller) {
	fmt.Fprintf(out, "code:      %s\n", X)
	fmt.Fprintf(out, "carbons:   %d\n", X.CarbonCount())
	if err := X.Validate(); err != nil {
		fmt.Fprintf(out, "valid:     no (%v)\n", err)
	} else {
		fmt.Fprintf(out, "valid:     yes\n")
	}
	fmt.Fprintf(out, "skeleton:  %s\n", libalkane.FormatSkeleton(X))

	adj := X.Connectivity()
	fmt.Fprintf(out, "bonds:    ")
	for a, nbrs := range adj {
		for _, b := range nbrs {
			if a < b {
				fmt.Fprintf(out, " %d-%d", a+1, b+1)
			}
		}
	}
	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "signature: %s (%s)\n\n", lb.Signature(X, nil), lb.Kind())
}
