package arg

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/tabwarden/tabwarden/internal/stats"
	"github.com/tabwarden/tabwarden/internal/tracker"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check if TabWarden is running and show the current session",
	Run: func(cmd *cobra.Command, args []string) {
		conn, obj := trackerObject()
		defer conn.Close()

		status, err := callString(obj, "GetStatus")
		if err != nil {
			log.Fatal("Failed to call method:", err)
		}
		fmt.Println("TabWarden Status:", status)

		raw, err := callString(obj, "GetTimeData")
		if err != nil {
			fmt.Println("error loading time data")
			return
		}

		var payload struct {
			TabData            tracker.TabData `json:"tabData"`
			CurrentSessionTime int64           `json:"currentSessionTime"`
		}
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			fmt.Println("error loading time data")
			return
		}

		fmt.Printf("Tracked tabs: %d\n", len(payload.TabData))
		fmt.Printf("Current session: %s\n", stats.FormatDuration(payload.CurrentSessionTime))
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
