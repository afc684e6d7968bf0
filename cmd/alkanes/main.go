package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
)

func main() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "1")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	root := newRootCmd(fset)
	err := root.Execute()
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

// newRootCmd returns the alkanes command tree; klogFlags receives the --verbosity setting.
func newRootCmd(klogFlags *flag.FlagSet) *cobra.Command {
	var verbosity int

	enumCmd := newEnumerateCmd()

	root := &cobra.Command{
		Use:   "alkanes",
		Short: "Enumerates the constitutional isomers of the alkanes CnH2n+2",
		Long: `alkanes grows every carbon skeleton tree one atom at a time, from methane up to
the requested carbon count, keeping one code per distinct skeleton.

Run without a subcommand to enumerate.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if klogFlags != nil && cmd.Flags().Changed("verbosity") {
				klogFlags.Set("v", strconv.Itoa(verbosity))
			}
		},
		RunE: enumCmd.RunE,
	}
	root.PersistentFlags().IntVarP(&verbosity, "verbosity", "V", 1, "log verbosity (2 logs each level)")
	root.PersistentFlags().String("config", "", "YAML config file")
	root.Flags().AddFlagSet(enumCmd.Flags())

	root.AddCommand(
		enumCmd,
		newShowCmd(),
		newEncodeCmd(),
		newCatalogCmd(),
		newConfigCmd(),
		newScriptCmd(),
	)
	return root
}
