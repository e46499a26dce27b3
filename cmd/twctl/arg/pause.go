package arg

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/tabwarden/tabwarden/internal/ipc"
)

var pauseCmd = &cobra.Command{
	Use:     "pause",
	Aliases: []string{"p"},
	Short:   "Pause time tracking",
	Run: func(cmd *cobra.Command, args []string) {
		conn, obj := trackerObject()
		defer conn.Close()

		if err := obj.Call(ipc.InterfaceName+".Pause", 0).Store(); err != nil {
			log.Fatal("Failed to call method:", err)
		}
		fmt.Println("Time tracking paused")
	},
}

var resumeCmd = &cobra.Command{
	Use:     "resume",
	Aliases: []string{"r"},
	Short:   "Resume time tracking",
	Run: func(cmd *cobra.Command, args []string) {
		conn, obj := trackerObject()
		defer conn.Close()

		if err := obj.Call(ipc.InterfaceName+".Resume", 0).Store(); err != nil {
			log.Fatal("Failed to call method:", err)
		}
		fmt.Println("Time tracking resumed")
	},
}

func init() {
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
}
