package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/srlehn/hwdisplay/display"
)

func init() {
	rootCmd.AddCommand(dumpCmd)
}

var dumpCmd = &cobra.Command{
	Use:   `dump`,
	Short: `dump the state of all display resources`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(withManager(func(m *display.Manager) error {
			for _, t := range []display.ConnectorType{display.ConnectorHdmi, display.ConnectorPanel, display.ConnectorCvbs} {
				conn, err := m.Connector(t)
				if err != nil {
					return err
				}
				_ = conn.LoadProperties()
			}
			heading(os.Stdout, `display resources`)
			m.Dump(os.Stdout)
			return nil
		}))
	},
}
