package arg

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/tabwarden/tabwarden/internal/config"
	"github.com/tabwarden/tabwarden/internal/stats"
)

var (
	domainsN      int
	domainsDBPath string
)

// domainsCmd reads the sqlite projection directly, so totals survive closed
// tabs and daemon restarts.
var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "Show durable per-domain totals from the stats database",
	Run: func(cmd *cobra.Command, args []string) {
		dbPath := domainsDBPath
		if dbPath == "" {
			var cfg config.Config
			cfg.SetDefault()
			dbPath = cfg.Storage.DBPath
		}

		projector, err := stats.NewProjector(dbPath)
		if err != nil {
			log.Fatal("Failed to open stats database:", err)
		}
		defer projector.Close()

		domains, err := projector.TopDomains(context.Background(), domainsN)
		if err != nil {
			fmt.Println("error loading time data")
			return
		}
		if len(domains) == 0 {
			fmt.Println("No browsing time recorded yet")
			return
		}

		fmt.Printf("%-4s %-32s %-10s %-8s %s\n", "#", "DOMAIN", "TIME", "SESSIONS", "LAST SEEN")
		for i, d := range domains {
			lastSeen := "-"
			if !d.LastSeen.IsZero() {
				lastSeen = d.LastSeen.Local().Format("2006-01-02 15:04")
			}
			fmt.Printf("%-4d %-32s %-10s %-8d %s\n", i+1, d.Domain, stats.FormatDuration(d.TotalTime), d.Sessions, lastSeen)
		}
	},
}

func init() {
	domainsCmd.Flags().IntVarP(&domainsN, "count", "n", 10, "number of domains to show")
	domainsCmd.Flags().StringVar(&domainsDBPath, "db", "", "path to the stats database")
	rootCmd.AddCommand(domainsCmd)
}
