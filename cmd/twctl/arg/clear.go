package arg

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/tabwarden/tabwarden/internal/ipc"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all accumulated tracking data",
	Run: func(cmd *cobra.Command, args []string) {
		conn, obj := trackerObject()
		defer conn.Close()

		if err := obj.Call(ipc.InterfaceName+".ClearData", 0).Store(); err != nil {
			log.Fatal("Failed to call method:", err)
		}
		fmt.Println("All tracking data cleared")
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
