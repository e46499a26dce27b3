package arg

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all tracking data to a JSON file",
	Run: func(cmd *cobra.Command, args []string) {
		conn, obj := trackerObject()
		defer conn.Close()

		timeData, err := callString(obj, "GetTimeData")
		if err != nil {
			log.Fatal("Failed to get time data:", err)
		}
		heatmapData, err := callString(obj, "GetHeatmapData")
		if err != nil {
			log.Fatal("Failed to get heatmap data:", err)
		}

		// mirror the in-memory structures: {tabData, currentSessionTime} plus
		// the per-domain heatmap points
		export := map[string]json.RawMessage{
			"timeData":    json.RawMessage(timeData),
			"heatmapData": json.RawMessage(heatmapData),
		}
		data, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			log.Fatal("Failed to encode export:", err)
		}

		out := exportOut
		if out == "" {
			out = fmt.Sprintf("tabwarden-export-%s.json", time.Now().Format("20060102-150405"))
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			log.Fatal("Failed to write export file:", err)
		}
		fmt.Println("Exported tracking data to", out)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default tabwarden-export-<timestamp>.json)")
	rootCmd.AddCommand(exportCmd)
}
