package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chazu/partforge/pkg/document"
	"github.com/chazu/partforge/pkg/engine"
	"github.com/chazu/partforge/pkg/export"
	"github.com/chazu/partforge/pkg/kernel/sdfx"
)

var buildCmd = &cobra.Command{
	Use:   "build [profile.yaml]",
	Short: "Evaluate a part script and write STL meshes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "partforge.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		profile, err := loadProfile(path)
		if err != nil {
			return err
		}
		return runBuild(profile)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

// runBuild evaluates the profile's script against the sdfx kernel and
// writes one STL per part, plus document records when configured.
func runBuild(profile *Profile) error {
	source, err := os.ReadFile(profile.Script)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	plan, evalErrs, err := engine.NewEngine().Evaluate(string(source))
	if err != nil {
		return fmt.Errorf("evaluate %s: %w", profile.Script, err)
	}
	if len(evalErrs) > 0 {
		for _, ee := range evalErrs {
			slog.Error("script error", "script", profile.Script, "err", ee.Error())
		}
		return fmt.Errorf("%s: %d script error(s)", profile.Script, len(evalErrs))
	}
	slog.Info("script evaluated", "script", profile.Script, "parts", len(plan.Requests))

	k := sdfx.New()
	objs, err := plan.Build(k)
	if err != nil {
		return err
	}

	var store *document.Store
	if profile.Document != "" {
		store, err = document.Open(profile.Document)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	if err := os.MkdirAll(profile.Output, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for _, obj := range objs {
		if obj.Shape == nil {
			slog.Warn("part is void, skipping mesh", "part", obj.Name)
			continue
		}
		mesh, err := k.ToMesh(obj.Shape)
		if err != nil {
			return fmt.Errorf("mesh %q: %w", obj.Name, err)
		}
		mesh.PartName = obj.Name

		out := filepath.Join(profile.Output, obj.Name+".stl")
		if err := export.SaveSTL(out, mesh); err != nil {
			return err
		}
		slog.Info("mesh written", "part", obj.Name, "path", out, "triangles", mesh.TriangleCount())

		if store != nil {
			rec, err := store.Save(obj.Snapshot())
			if err != nil {
				return err
			}
			slog.Info("part recorded", "part", obj.Name, "id", rec.ID)
		}
	}
	return nil
}
