package main

import (
	"github.com/spf13/cobra"
)

// envConfig 指定配置文件的环境变量
const envConfig = "STATCOUNTER_CONFIG"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "statcounter",
		Short: "Per-key view, like and click counters over HTTP",
		Long: `statcounter counts page views, likes and button clicks.

Post counters live in redis, mysql or memory, button clicks live in a local file.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringP("conf", "c", "", "path of the YAML config, defaults to $"+envConfig)

	root.AddCommand(
		newServeCmd(),
		newDumpCmd(),
	)
	return root
}

func confPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("conf")
	return path
}
