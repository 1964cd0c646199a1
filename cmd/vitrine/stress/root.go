package stress

import (
	"github.com/spf13/cobra"

	"github.com/openpane/vitrine/cmd/vitrine/vitrine"
)

func init() {
	stressCmd.Flags().IntVarP(&windows, "windows", "n", 4, "Concurrent windows")
	stressCmd.Flags().IntVarP(&frames, "frames", "f", 300, "Frames per window")
	stressCmd.Flags().IntVar(&width, "width", 800, "Initial window width")
	stressCmd.Flags().IntVar(&height, "height", 600, "Initial window height")
	stressCmd.Flags().IntVar(&frameMs, "frame-ms", 8, "Delay between frames")
	stressCmd.Flags().IntVar(&releaseMs, "release-ms", 12, "Simulated compositor release latency")
	stressCmd.Flags().IntVar(&resizeEvery, "resize-every", 120, "Resize the window every n frames (0 disables)")
	stressCmd.Flags().IntVar(&unmapEvery, "unmap-every", 90, "Unmap the target every n frames (0 disables)")
	stressCmd.Flags().IntVar(&remapMs, "remap-ms", 30, "Delay before an unmapped target remaps")
	stressCmd.Flags().IntVar(&workers, "workers", 4, "Painter worker pool size")
	vitrine.RootCmd.AddCommand(stressCmd)
}

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Run a synthetic presentation workload against a simulated compositor",
	Args:  cobra.NoArgs,
	Run:   stress,
}
var windows int
var frames int
var width int
var height int
var frameMs int
var releaseMs int
var resizeEvery int
var unmapEvery int
var remapMs int
var workers int
