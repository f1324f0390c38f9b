package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// rebuildDebounce coalesces the bursts of write events editors emit on
// save.
const rebuildDebounce = 200 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [profile.yaml]",
	Short: "Rebuild whenever the part script changes",
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
		return runWatch(profile)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(profile *Profile) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: many editors replace the file
	// on save, which drops a file-level watch.
	dir := filepath.Dir(profile.Script)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	build := func() {
		if err := runBuild(profile); err != nil {
			slog.Error("build failed", "script", profile.Script, "err", err)
		}
	}

	slog.Info("watching", "script", profile.Script)
	build()

	target := filepath.Clean(profile.Script)
	var timer *time.Timer
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(rebuildDebounce, build)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch error", "err", err)
		}
	}
}
