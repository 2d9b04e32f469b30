package util

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dixieflatline76/Vista/config"
	"github.com/google/go-github/v63/github"
	"golang.org/x/mod/semver"
)

// CheckForUpdatesResult holds the outcome of the update check.
type CheckForUpdatesResult struct {
	UpdateAvailable bool
	CurrentVersion  string
	LatestVersion   string
	ReleaseURL      string
}

// CheckForUpdates asks GitHub for the latest release and compares it with config.AppVersion.
// A nil client uses http.DefaultClient.
func CheckForUpdates(ctx context.Context, client *http.Client) (*CheckForUpdatesResult, error) {
	gh := github.NewClient(client)

	release, _, err := gh.Repositories.GetLatestRelease(ctx, config.GitHubOwner, config.GitHubRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest GitHub release: %w", err)
	}

	current := withVPrefix(config.AppVersion)
	latest := withVPrefix(release.GetTagName())

	return &CheckForUpdatesResult{
		UpdateAvailable: semver.Compare(latest, current) > 0,
		CurrentVersion:  current,
		LatestVersion:   latest,
		ReleaseURL:      release.GetHTMLURL(),
	}, nil
}

func withVPrefix(version string) string {
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}
