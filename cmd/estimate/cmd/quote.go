package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"detailing-bot/internal/catalog"
	"detailing-bot/internal/estimator"
	"detailing-bot/internal/preview"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newQuoteCmd(e *env) *cobra.Command {
	var (
		services  []string
		packageID string
		animate   bool
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Print the estimate for a selection",
		Long: `Print the estimated total for a set of services and an optional package.

With --animate the total counts up on the terminal the way it does on the site.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cat, err := e.loadCatalog(ctx)
			if err != nil {
				return err
			}

			sel := estimator.Selection{Services: services, Package: packageID}
			if unknown := unknownIDs(cat, sel); len(unknown) > 0 {
				e.logger.Warn("Unknown ids priced at $0", zap.Strings("ids", unknown))
			}

			out := cmd.OutOrStdout()
			if animate {
				return animateQuote(ctx, e, cat, sel, out)
			}

			printQuote(out, estimator.Compute(cat, sel))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&services, "services", "s", nil, "comma-separated service ids")
	cmd.Flags().StringVarP(&packageID, "package", "p", "", "package id")
	cmd.Flags().BoolVarP(&animate, "animate", "a", false, "animate the total on the terminal")

	return cmd
}

// unknownIDs lists selected ids missing from c. They still price at $0.
func unknownIDs(c *catalog.Catalog, sel estimator.Selection) []string {
	var unknown []string
	for _, id := range sel.Services {
		if !c.HasService(id) {
			unknown = append(unknown, id)
		}
	}
	if sel.Package != "" {
		if _, ok := c.Package(sel.Package); !ok {
			unknown = append(unknown, sel.Package)
		}
	}
	return unknown
}

func printQuote(w io.Writer, q estimator.Quote) {
	if !q.Visible {
		fmt.Fprintln(w, "Nothing selected.")
		return
	}
	fmt.Fprintln(w, estimator.Render(estimator.View{
		Visible:         q.Visible,
		Displayed:       q.Target,
		Target:          q.Target,
		IndividualTotal: q.IndividualTotal,
		Savings:         q.Savings,
		PackageSelected: q.PackageSelected,
		PackageName:     q.PackageName,
	}))
}

// animateQuote runs a preview loop and redraws the total line in place until it settles.
func animateQuote(ctx context.Context, e *env, c *catalog.Catalog, sel estimator.Selection, w io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	est := estimator.New(c, estimator.WithDuration(e.cfg.AnimationDuration))

	settled := make(chan estimator.View, 1)
	var once sync.Once
	render := func(_ context.Context, v estimator.View) {
		if v.Visible {
			line, _, _ := strings.Cut(estimator.Render(v), "\n")
			fmt.Fprintf(w, "\r\033[K%s", line)
		}
		if !v.Animating {
			once.Do(func() { settled <- v })
		}
	}

	loop := preview.New(est, e.cfg.FrameInterval, render, e.logger)
	go loop.Run(ctx)

	if err := loop.Send(ctx, sel); err != nil {
		return err
	}

	var final estimator.View
	select {
	case final = <-settled:
	case <-ctx.Done():
		return ctx.Err()
	}
	cancel()
	<-loop.Done()

	if !final.Visible {
		fmt.Fprintln(w, "Nothing selected.")
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, estimator.Render(final))
	return nil
}
