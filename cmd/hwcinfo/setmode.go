package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal/errors"
)

func init() {
	rootCmd.AddCommand(setmodeCmd)
	setmodeCmd.Flags().StringVar(&setmodeConnector, `connector`, `hdmi`, `connector to bind`)
}

var setmodeConnector string

var setmodeCmd = &cobra.Command{
	Use:   `setmode <vout1|vout2> <mode>`,
	Short: `switch the display mode of an output`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		run(withManager(func(m *display.Manager) error {
			var id display.CrtcID
			switch strings.ToLower(args[0]) {
			case `vout1`, `0`:
				id = display.Vout1
			case `vout2`, `1`:
				id = display.Vout2
			default:
				return errors.Errorf(`unknown crtc %q`, args[0])
			}
			crtc := m.Crtc(id)
			if crtc == nil {
				return errors.WrapPrefix(display.ErrNoDevice, args[0], 0)
			}
			mode := args[1]
			if mode == display.NullModeName {
				return crtc.SetMode(display.ModeInfo{Name: mode})
			}
			t, ok := display.ParseConnectorType(setmodeConnector)
			if !ok {
				return errors.Errorf(`unknown connector %q`, setmodeConnector)
			}
			conn, err := m.Connector(t)
			if err != nil {
				return err
			}
			if err := crtc.Bind(conn, nil); err != nil {
				return err
			}
			if err := crtc.LoadProperties(); err != nil {
				return err
			}
			_, mi, ok := crtc.Modes().Find(func(mi display.ModeInfo) bool { return mi.Name == mode })
			if !ok {
				return errors.WrapPrefix(display.ErrModeUnknown, mode, 0)
			}
			return crtc.SetMode(mi)
		}))
	},
}
