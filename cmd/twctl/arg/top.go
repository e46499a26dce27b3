package arg

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/tabwarden/tabwarden/internal/stats"
)

var topN int

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the top domains by active time",
	Run: func(cmd *cobra.Command, args []string) {
		conn, obj := trackerObject()
		defer conn.Close()

		raw, err := callString(obj, "GetTopDomains", int32(topN))
		if err != nil {
			log.Fatal("Failed to call method:", err)
		}

		var domains []stats.DomainStat
		if err := json.Unmarshal([]byte(raw), &domains); err != nil {
			fmt.Println("error loading time data")
			return
		}
		if len(domains) == 0 {
			fmt.Println("No browsing time recorded yet")
			return
		}

		fmt.Printf("%-4s %-32s %-10s %s\n", "#", "DOMAIN", "TIME", "SESSIONS")
		for i, d := range domains {
			fmt.Printf("%-4d %-32s %-10s %d\n", i+1, d.Domain, stats.FormatDuration(d.TotalTime), d.Sessions)
		}
	},
}

func init() {
	topCmd.Flags().IntVarP(&topN, "count", "n", 10, "number of domains to show")
	rootCmd.AddCommand(topCmd)
}
