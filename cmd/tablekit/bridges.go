package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/tablekit/internal/ui"
)

func init() {
	rootCmd.AddCommand(bridgesCmd)
	bridgesCmd.AddCommand(bridgesNicknameCmd)
}

var bridgesCmd = &cobra.Command{
	Use:   "bridges",
	Short: "List bridges remembered from earlier scans",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		printer := newPrinter(cmd)
		if len(reg.Bridges) == 0 {
			printer.PrintWarning("No bridges remembered", ui.Param{Key: "Hint", Value: "run 'tablekit scan'"})
			return nil
		}

		names := make([]string, 0, len(reg.Bridges))
		for name := range reg.Bridges {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			b := reg.Bridges[name]
			label := name
			if b.Nickname != "" {
				label = fmt.Sprintf("%s (%s)", b.Nickname, name)
			}
			printer.Println(label)
			printer.Println(fmt.Sprintf("   Address:   %s", b.LastAddr))
			if !b.LastSeen.IsZero() {
				printer.Println(fmt.Sprintf("   Last seen: %s", b.LastSeen.Format(time.RFC822)))
			}
		}
		return nil
	},
}

var bridgesNicknameCmd = &cobra.Command{
	Use:   "nickname <instance> <nickname>",
	Short: "Give a remembered bridge a nickname",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		reg.SetBridgeNickname(args[0], args[1])
		if err := saveRegistry(reg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		newPrinter(cmd).PrintSuccess("Nickname saved",
			ui.Param{Key: "Bridge", Value: args[0]},
			ui.Param{Key: "Nickname", Value: args[1]},
		)
		return nil
	},
}
