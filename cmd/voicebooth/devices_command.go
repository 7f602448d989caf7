package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"voicebooth/internal/capture"
)

// listDevices is swapped in tests; enumerating real devices needs PortAudio.
var listDevices = capture.Devices

func newDevicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "devices",
		Short:       "List input-capable audio devices",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeDeviceTable(cmd.OutOrStdout())
		},
	}
}

func formatDevices(devices []capture.Device) string {
	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		rows = append(rows, []string{
			strconv.Itoa(d.Index),
			d.Name,
			d.HostAPI,
			strconv.Itoa(d.MaxInputChannels),
			fmt.Sprintf("%.0f", d.DefaultSampleRate),
			yesNo(d.Default),
		})
	}
	return renderTable([]column{
		{title: "Index", numeric: true},
		{title: "Name"},
		{title: "Host API"},
		{title: "Inputs", numeric: true},
		{title: "Rate", numeric: true},
		{title: "Default"},
	}, rows)
}
