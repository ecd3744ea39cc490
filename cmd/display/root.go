package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	flagConfigDir string
	flagBoard     string
	flagOnce      bool
	flagJSON      bool
)

// v holds the merged configuration. Set by PersistentPreRunE.
var v *viper.Viper

var rootCmd = &cobra.Command{
	Use:           "guidelight-display",
	Short:         "Guidelight Display Mode for in-store screens",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir := flagConfigDir
		if dir == "" {
			dir = defaultConfigDir()
		}
		loaded, err := loadConfig(dir)
		if err != nil {
			return err
		}
		if f := cmd.Flags().Lookup("board"); f != nil {
			if err := loaded.BindPFlag(cfgKeyBoard, f); err != nil {
				return err
			}
		}
		v = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "directory holding display.yaml (default: user config dir/guidelight)")

	runCmd.Flags().StringVar(&flagBoard, "board", "", "board slug to show")
	runCmd.Flags().BoolVar(&flagOnce, "once", false, "render once and exit")
	statusCmd.Flags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
}
