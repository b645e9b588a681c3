package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/reactagentic/compiler/internal/config"
	"github.com/reactagentic/compiler/internal/driver"
)

var (
	configPath string
	watch      bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reactagentic [path]",
		Short: "Compile TSX command/agent/skill sources into Claude Code artifacts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBuild,
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a JSON build config (defaults are used when omitted)")
	cmd.Flags().BoolVar(&watch, "watch", false, "rebuild whenever an input file's mtime changes")
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if !watch {
		return runOnce(cmd, root, cfg)
	}
	return runWatch(cmd, root, cfg)
}

func runOnce(cmd *cobra.Command, root string, cfg config.Config) error {
	res, err := driver.Build(cmd.Context(), root, cfg)
	if err != nil {
		return err
	}
	for _, msg := range res.Log.Done() {
		fmt.Fprint(os.Stderr, msg.String())
	}
	if res.Failed {
		return fmt.Errorf("build %s failed", res.BuildID)
	}
	return nil
}

// runWatch polls input file mtimes (spec §1's non-goals exclude a real
// filesystem-event watcher) and triggers a full rebuild whenever any
// change is observed, coalescing bursts of changes into one rebuild.
func runWatch(cmd *cobra.Command, root string, cfg config.Config) error {
	var lastSnapshot map[string]time.Time
	for {
		snapshot, err := snapshotMtimes(root)
		if err != nil {
			return err
		}
		if !snapshotsEqual(lastSnapshot, snapshot) {
			if err := runOnce(cmd, root, cfg); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
			lastSnapshot = snapshot
		}
		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func snapshotMtimes(root string) (map[string]time.Time, error) {
	paths, err := driver.DiscoverFiles(root)
	if err != nil {
		return nil, err
	}
	snapshot := make(map[string]time.Time, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		snapshot[path] = info.ModTime()
	}
	return snapshot, nil
}

func snapshotsEqual(a, b map[string]time.Time) bool {
	if a == nil {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	for path, t := range b {
		if !a[path].Equal(t) {
			return false
		}
	}
	return true
}
