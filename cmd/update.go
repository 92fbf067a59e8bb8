package cmd

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// repository releases are published to
const repository = "s0up4200/dblist"

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records the build information injected at link time
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipInit: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "dblist %s (built %s, %s/%s)\n", version, buildTime, runtime.GOOS, runtime.GOARCH)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:         "update",
	Short:       "Update dblist to the latest release",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipInit: ""},
	RunE:        runUpdate,
}

func init() {
	rootCmd.AddCommand(versionCmd, updateCmd)
}

// parseVersion rejects development builds, which cannot be compared
// against releases.
func parseVersion(v string) (semver.Version, error) {
	parsed, err := semver.ParseTolerant(v)
	if err != nil {
		return semver.Version{}, fmt.Errorf("cannot update development build %q: %w", v, err)
	}
	return parsed, nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	current, err := parseVersion(version)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repository))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return errors.New("no release found for " + runtime.GOOS + "/" + runtime.GOARCH)
	}

	out := cmd.OutOrStdout()

	if latest.LessOrEqual(current.String()) {
		fmt.Fprintf(out, "dblist %s is up to date\n", current)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Fprintf(out, "Updated dblist %s -> %s\n", current, latest.Version())
	return nil
}
