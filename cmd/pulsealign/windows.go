package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pulse/dsp/window"
)

func newWindowsCmd() *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "windows [window-name ...]",
		Short: "Print properties of the smoothing windows",
		Long: `Print coherent gain, equivalent noise bandwidth and scallop loss of the
smoothing windows at the given length. Without arguments every window is
listed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := window.Kinds()
			if len(args) > 0 {
				kinds = kinds[:0:0]
				for _, name := range args {
					k, err := window.ParseKind(name)
					if err != nil {
						return err
					}
					kinds = append(kinds, k)
				}
			}
			return printWindows(cmd.OutOrStdout(), kinds, length)
		},
	}
	cmd.Flags().IntVarP(&length, "length", "n", 11, "window length in samples")
	return cmd
}

func printWindows(w io.Writer, kinds []window.Kind, length int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Window\tLength\tCoherent Gain\tENBW [bins]\tScallop [dB]\n")
	fmt.Fprintf(tw, "------\t------\t-------------\t-----------\t------------\n")
	for _, k := range kinds {
		a, err := window.Info(k, length)
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		fmt.Fprintf(tw, "%s\t%d\t%.6f\t%.4f\t%.4f\n", k, length, a.CoherentGain, a.ENBW, a.ScallopLossdB)
	}
	return tw.Flush()
}
