package arg

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tabwarden/tabwarden/internal/heatmap"
)

var (
	heatmapDomain string
	heatmapOut    string
	heatmapCols   int
	heatmapRows   int
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Render a cursor heatmap for a domain to a PNG",
	Run: func(cmd *cobra.Command, args []string) {
		conn, obj := trackerObject()
		defer conn.Close()

		raw, err := callString(obj, "GetHeatmapData")
		if err != nil {
			log.Fatal("Failed to get heatmap data:", err)
		}

		var data map[string][]heatmap.Point
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			fmt.Println("error loading heatmap data")
			return
		}
		if len(data) == 0 {
			fmt.Println("No cursor data recorded yet")
			return
		}

		domain := heatmapDomain
		if domain == "" {
			domain = busiestDomain(data)
			fmt.Println("No domain given, using busiest:", domain)
		}
		points, ok := data[domain]
		if !ok {
			log.Fatalf("No cursor data for domain %s", domain)
		}

		grid := heatmap.BucketGrid(points, heatmapCols, heatmapRows)
		out := heatmapOut
		if out == "" {
			out = fmt.Sprintf("heatmap-%s.png", domain)
		}
		if err := heatmap.WritePNG(heatmap.Render(grid, 0), out); err != nil {
			log.Fatal("Failed to write heatmap:", err)
		}

		fmt.Printf("Rendered %d points to %s\n", len(points), out)
		if region := grid.HottestRegion(); region != "" {
			fmt.Println("Hottest region:", region)
		}
	},
}

// busiestDomain picks the domain with the most recorded points.
func busiestDomain(data map[string][]heatmap.Point) string {
	domains := make([]string, 0, len(data))
	for d := range data {
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool {
		if len(data[domains[i]]) != len(data[domains[j]]) {
			return len(data[domains[i]]) > len(data[domains[j]])
		}
		return domains[i] < domains[j]
	})
	return domains[0]
}

func init() {
	heatmapCmd.Flags().StringVarP(&heatmapDomain, "domain", "d", "", "domain to render (default: busiest)")
	heatmapCmd.Flags().StringVarP(&heatmapOut, "output", "o", "", "output PNG file")
	heatmapCmd.Flags().IntVar(&heatmapCols, "cols", 16, "grid columns")
	heatmapCmd.Flags().IntVar(&heatmapRows, "rows", 9, "grid rows")
	rootCmd.AddCommand(heatmapCmd)
}
