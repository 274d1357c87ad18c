package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/srlehn/hwdisplay/display"
)

func init() {
	rootCmd.AddCommand(vsyncCmd)
	vsyncCmd.Flags().IntVarP(&vsyncCount, `count`, `n`, 10, `number of vsyncs`)
}

var vsyncCount int

var vsyncCmd = &cobra.Command{
	Use:   `vsync`,
	Short: `print vsync timestamps of the main output`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(withManager(func(m *display.Manager) error {
			crtc := m.Crtc(display.Vout1)
			if crtc == nil {
				return display.ErrNoDevice
			}
			var last int64
			for i := 0; i < vsyncCount; i++ {
				ts, err := crtc.WaitVBlank()
				if err != nil {
					return err
				}
				if last != 0 {
					fmt.Printf("%d\t%v\n", ts, time.Duration(ts-last))
				} else {
					fmt.Println(ts)
				}
				last = ts
			}
			return nil
		}))
	},
}
