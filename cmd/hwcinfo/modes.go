package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal/errors"
)

func init() {
	rootCmd.AddCommand(modesCmd)
}

var modesCmd = &cobra.Command{
	Use:       `modes <hdmi|panel|cvbs|dummy>`,
	Short:     `list the modes of a connector`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{`hdmi`, `panel`, `cvbs`, `dummy`},
	Run: func(cmd *cobra.Command, args []string) {
		run(withManager(func(m *display.Manager) error {
			t, ok := display.ParseConnectorType(args[0])
			if !ok {
				return errors.Errorf(`unknown connector %q`, args[0])
			}
			conn, err := m.Connector(t)
			if err != nil {
				return err
			}
			// bind so the physical size can be queried
			if crtc := m.Crtc(display.Vout1); crtc != nil && conn.Type() != display.ConnectorDummy && !conn.BoundCrtc().Valid() {
				conn.BindCrtc(crtc.Handle())
			}
			if err := conn.LoadProperties(); err != nil {
				return err
			}
			heading(os.Stdout, fmt.Sprintf(`%s connected:%t`, conn.Name(), conn.IsConnected()))
			conn.Modes().Dump(os.Stdout)
			hdr := conn.HdrCapabilities()
			if hdr != (display.HdrCapabilities{}) {
				fmt.Printf("hdr: %+v\n", hdr)
			}
			return nil
		}))
	},
}
