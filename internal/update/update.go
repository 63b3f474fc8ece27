// Package update checks for and installs new tally releases.
package update

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/creativeprojects/go-selfupdate"
)

// Repository is the GitHub slug releases are published under.
const Repository = "pengelbrecht/tally"

const checkTimeout = 30 * time.Second

// InstallMethod describes how the running binary was installed.
type InstallMethod int

const (
	InstallUnknown InstallMethod = iota
	InstallHomebrew
	InstallBinary
)

// Release is the subset of release metadata callers need.
type Release struct {
	Version string
	URL     string
}

// DetectInstallMethod inspects the executable path.
func DetectInstallMethod() InstallMethod {
	exe, err := os.Executable()
	if err != nil {
		return InstallUnknown
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return installMethodForPath(exe)
}

func installMethodForPath(path string) InstallMethod {
	p := filepath.ToSlash(path)
	if strings.Contains(p, "/Cellar/") || strings.Contains(p, "/homebrew/") || strings.Contains(p, "/linuxbrew/") {
		return InstallHomebrew
	}
	return InstallBinary
}

// CheckForUpdate reports the latest release and whether it is newer than current.
func CheckForUpdate(current string) (*Release, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(Repository))
	if err != nil {
		return nil, false, fmt.Errorf("detect latest release: %w", err)
	}
	if !found {
		return nil, false, errors.New("no release found for this platform")
	}

	rel := &Release{Version: latest.Version(), URL: latest.URL}
	if isDevVersion(current) {
		return rel, true, nil
	}
	return rel, latest.GreaterThan(current), nil
}

// Update replaces the running executable with the latest release.
func Update(current string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(Repository))
	if err != nil {
		return fmt.Errorf("detect latest release: %w", err)
	}
	if !found {
		return errors.New("no release found for this platform")
	}
	if !isDevVersion(current) && latest.LessOrEqual(current) {
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("install update: %w", err)
	}
	return nil
}

func isDevVersion(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == "dev"
}
