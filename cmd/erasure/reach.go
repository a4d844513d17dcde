package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"erasure/internal/program"
	"erasure/internal/reach"
	"erasure/internal/types"
)

func newReachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reach <program.yaml> [owner]",
		Short: "Report which type parameters reach a value-wrapper bound",
		Long: "Lists every type parameter of the program (or of one owner, a class\n" +
			"name or a Class#member reference) with its bounds, whether a\n" +
			"value-wrapper type is reachable through them and how many\n" +
			"parameters the search entered.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := program.Load(args[0])
			if err != nil {
				return err
			}
			owner := ""
			if len(args) == 2 {
				owner = args[1]
			}

			checker := reach.NewChecker(prog.Types)
			t := newTable("OWNER", "PARAM", "BOUNDS", "VISITED", "REACHES")
			for i := 1; i <= prog.Types.TypeParamCount(); i++ {
				id := types.TypeParamID(i)
				info, _ := prog.Types.TypeParam(id)
				if owner != "" && info.Owner != owner {
					continue
				}
				bounds := make([]string, len(info.Bounds))
				for j, b := range info.Bounds {
					bounds[j] = prog.Types.Format(b)
				}
				r := checker.Search(id)
				verdict := "no"
				if r.Reaches {
					verdict = mangleColor.Sprint("yes")
				}
				t.add(info.Owner, info.Name, strings.Join(bounds, " & "), strconv.Itoa(r.Visited), verdict)
			}
			if len(t.rows) == 0 {
				if owner != "" {
					return fmt.Errorf("no type parameters owned by %s", owner)
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "program declares no type parameters")
				return err
			}
			return t.render(cmd.OutOrStdout())
		},
	}
}
