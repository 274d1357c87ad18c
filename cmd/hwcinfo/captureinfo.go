package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/vdin"
)

func init() {
	rootCmd.AddCommand(captureInfoCmd)
}

var captureInfoCmd = &cobra.Command{
	Use:   `capture-info`,
	Short: `show the geometry the capture device would use`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(withManager(func(m *display.Manager) error {
			v, err := vdin.Open(m.Settings())
			if err != nil {
				return err
			}
			defer v.Close()
			info := v.StreamInfo()
			heading(os.Stdout, `capture`)
			fmt.Printf("%dx%d@%d %s state:%s\n", info.Width, info.Height, info.Fps, info.Format, v.State())
			return nil
		}))
	},
}
