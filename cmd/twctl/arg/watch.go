package arg

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tabwarden/tabwarden/internal/stats"
	"github.com/tabwarden/tabwarden/internal/ui/topview"
)

var (
	watchN        int
	watchInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live top-domains view that refreshes while you browse",
	Run: func(cmd *cobra.Command, args []string) {
		conn, obj := trackerObject()
		defer conn.Close()

		fetch := func() ([]stats.DomainStat, int64, error) {
			raw, err := callString(obj, "GetTopDomains", int32(watchN))
			if err != nil {
				return nil, 0, err
			}
			var domains []stats.DomainStat
			if err := json.Unmarshal([]byte(raw), &domains); err != nil {
				return nil, 0, err
			}

			timeRaw, err := callString(obj, "GetTimeData")
			if err != nil {
				return nil, 0, err
			}
			var payload struct {
				CurrentSessionTime int64 `json:"currentSessionTime"`
			}
			if err := json.Unmarshal([]byte(timeRaw), &payload); err != nil {
				return nil, 0, err
			}
			return domains, payload.CurrentSessionTime, nil
		}

		p := tea.NewProgram(topview.New(fetch, watchN, watchInterval))
		if _, err := p.Run(); err != nil {
			log.Fatal("Failed to run watch view:", err)
		}
		fmt.Println()
	},
}

func init() {
	watchCmd.Flags().IntVarP(&watchN, "count", "n", 10, "number of domains to show")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 2*time.Second, "refresh interval")
	rootCmd.AddCommand(watchCmd)
}
