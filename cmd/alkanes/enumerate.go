package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/fine-structures/alkanes/alkane"
	"github.com/fine-structures/alkanes/config"
	"github.com/fine-structures/alkanes/libalkane"
	"github.com/fine-structures/alkanes/libalkane/catalog"
	"github.com/fine-structures/alkanes/libalkane/metrics"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newEnumerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enumerate",
		Short: "Enumerates isomers for 1..max carbons and prints the count of each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			printCodes, _ := cmd.Flags().GetBool("codes")
			printDigests, _ := cmd.Flags().GetBool("digest")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return runEnumerate(ctx, cmd.OutOrStdout(), cfg, printCodes, printDigests)
		},
	}
	config.RegisterFlags(cmd.Flags(), config.Default())
	cmd.Flags().Bool("codes", false, "print the code and skeleton of each isomer")
	cmd.Flags().Bool("digest", false, "print the blake3 digest of each level's artifact (table format)")
	return cmd
}

// loadConfig resolves the enumeration settings: defaults < --config file < env < flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	pathname, _ := cmd.Flags().GetString("config")
	return config.Load(pathname, cmd.Flags())
}

func runEnumerate(ctx context.Context, out io.Writer, cfg *config.Config, printCodes, printDigests bool) error {
	opts := libalkane.EnumOpts{
		MaxCarbons: cfg.MaxCarbons,
		Labeller:   alkane.LabellerKind(cfg.Labeller),
		Index:      alkane.IndexKind(cfg.Index),
		Workers:    cfg.Workers,
		BatchSize:  cfg.BatchSize,
		MaxIsomers: int(cfg.MaxIsomers),
	}

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts.Metrics = metrics.New(reg)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				klog.Warningf("metrics server: %v", err)
			}
		}()
		defer srv.Close()
		klog.Infof("serving metrics on %s/metrics", cfg.MetricsAddr)
	}

	if cfg.Catalog != "" {
		catCtx := alkane.NewCatalogContext()
		defer func() {
			catCtx.Close()
			<-catCtx.Done()
		}()
		cat, err := catalog.OpenCatalog(catCtx, alkane.CatalogOpts{
			DbPathName: cfg.Catalog,
			Labeller:   opts.Labeller,
		})
		if err != nil {
			return errors.Wrapf(err, "opening catalog %q", cfg.Catalog)
		}
		opts.Catalog = cat
		klog.V(1).Infof("catalog %q holds levels 1..%d", cfg.Catalog, cat.MaxCarbons())
	}

	exportOpts := libalkane.ExportOpts{
		Dir:      cfg.OutputDir,
		Compress: cfg.Compress,
	}

	table := cfg.Format == "table"
	if table {
		alkane.WriteTableHeader(out)
	}
	opts.OnLevel = func(set *alkane.IsomerSet) error {
		if table {
			var cols []string
			if printDigests {
				cols = append(cols, hex.EncodeToString(set.Digest()))
			}
			alkane.CountLevel(set).WriteTableRow(out, cols...)
		}
		if printCodes {
			printOpts := alkane.DefaultPrintOpts
			printOpts.Label = fmt.Sprintf("C%d", set.CarbonCount())
			alkane.StreamIsomers(set).Print(nopCloser{out}, printOpts).PullAll()
		}
		if exportOpts.Dir != "" {
			if err := libalkane.ExportLevel(set, exportOpts); err != nil {
				klog.Warningf("%v", err)
			}
		}
		return nil
	}

	startTime := time.Now()
	sum, _, err := libalkane.Enumerate(ctx, opts)
	if !table && sum != nil {
		fmt.Fprintln(out, sum.String())
	}
	if err != nil {
		return err
	}
	klog.V(1).Infof("%d isomers in %v", sum.Total(), time.Since(startTime))
	return nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
