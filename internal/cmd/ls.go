package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/yuzeguitarist/qrdrop/internal/app"
	"github.com/yuzeguitarist/qrdrop/internal/store"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List generated QR codes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := store.Load(app.NewPaths(cfg.Root).MappingPath)
		if err != nil {
			return err
		}
		printTable(cmd, st.Snapshot())
		return nil
	},
}

func printTable(cmd *cobra.Command, t store.Table) {
	type row struct{ file, data string }
	rows := make([]row, 0, len(t))
	for data, file := range t {
		rows = append(rows, row{file, data})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].file < rows[j].file })

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, app.Color(out, fmt.Sprintf("%-20s  %s", "FILE", "DATA"), "1"))
	for _, r := range rows {
		fmt.Fprintf(out, "%-20s  %s\n", r.file, r.data)
	}
}
