package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/srlehn/hwdisplay/display"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   `list`,
	Short: `list planes and crtcs`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(withManager(listFunc))
	},
}

func listFunc(m *display.Manager) error {
	heading(os.Stdout, `planes`)
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tCAPS\tZORDER\tCRTCS")
	for _, pl := range m.Planes() {
		z := `-`
		if fz := pl.FixedZorder(); fz != display.InvalidZorder {
			z = fmt.Sprint(fz)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t0x%x\n",
			pl.ID(), pl.Name(), pl.Type(), pl.Capabilities(), z, pl.PossibleCrtcs())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	heading(os.Stdout, `crtcs`)
	for _, c := range m.Crtcs() {
		kind := `hardware`
		if c.Headless() {
			kind = `headless`
		}
		fmt.Printf("%s (%s)\n", c.ID(), kind)
	}
	return nil
}
