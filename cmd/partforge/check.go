package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/partforge/pkg/engine"
	"github.com/chazu/partforge/pkg/kernel/trace"
)

var checkCmd = &cobra.Command{
	Use:   "check <script>",
	Short: "Dry-run a part script without building real geometry",
	Long: `check evaluates a script against the analytic kernel and prints each
part's composition roster, bounding box and volume. No meshes or
documents are produced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}

		plan, evalErrs, err := engine.NewEngine().Evaluate(string(source))
		if err != nil {
			return fmt.Errorf("evaluate %s: %w", args[0], err)
		}
		if len(evalErrs) > 0 {
			for _, ee := range evalErrs {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", args[0], ee.Error())
			}
			return fmt.Errorf("%d script error(s)", len(evalErrs))
		}

		k := trace.New()
		objs, err := plan.Build(k)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, obj := range objs {
			if obj.Shape == nil {
				fmt.Fprintf(out, "%s: void\n", obj.Name)
				continue
			}
			s := obj.Shape.(*trace.Solid)
			min, max := s.BoundingBox()
			fmt.Fprintf(out, "%s: volume %.3f, bounds (%.2f,%.2f,%.2f)..(%.2f,%.2f,%.2f)\n",
				obj.Name, s.Volume(),
				min[0], min[1], min[2], max[0], max[1], max[2])
			if adds := obj.AdditiveNames(); len(adds) > 0 {
				fmt.Fprintf(out, "  additive: %s\n", strings.Join(adds, ", "))
			}
			if subs := obj.SubtractiveNames(); len(subs) > 0 {
				fmt.Fprintf(out, "  subtractive: %s\n", strings.Join(subs, ", "))
			}
		}
		fmt.Fprintf(out, "%d part(s), %d primitive(s), %d boolean op(s)\n",
			len(objs), k.Boxes+k.Cylinders, k.Unions+k.Differences+k.Intersections)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
