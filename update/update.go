package update

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	goversion "github.com/hashicorp/go-version"
)

// version is stamped at build time via -ldflags "-X screenai/update.version=...".
var version = "0.0.0-dev"

func Version() string { return version }

// Info describes the outcome of an update check.
type Info struct {
	Available bool      `json:"available"`
	Version   string    `json:"version"`
	Notes     string    `json:"notes,omitempty"`
	Date      time.Time `json:"date,omitempty"`
}

// releaseLister is the slice of the go-github Repositories service the
// checker needs. Tests substitute a fake.
type releaseLister interface {
	GetLatestRelease(ctx context.Context, owner, repo string) (*github.RepositoryRelease, *github.Response, error)
}

type Checker struct {
	lister releaseLister
	owner  string
	repo   string
}

func NewChecker(owner, repo string) *Checker {
	return &Checker{
		lister: github.NewClient(nil).Repositories,
		owner:  owner,
		repo:   repo,
	}
}

// Check queries the latest GitHub release and compares it against the
// running version.
func (c *Checker) Check(ctx context.Context) (Info, error) {
	if c.owner == "" || c.repo == "" {
		return Info{}, errors.New("update: owner and repo not configured")
	}

	release, _, err := c.lister.GetLatestRelease(ctx, c.owner, c.repo)
	if err != nil {
		return Info{}, fmt.Errorf("update: fetch latest release of %s/%s: %w", c.owner, c.repo, err)
	}

	tag := strings.TrimPrefix(release.GetTagName(), "v")
	latest, err := goversion.NewVersion(tag)
	if err != nil {
		return Info{}, fmt.Errorf("update: parse release tag %q: %w", release.GetTagName(), err)
	}
	current, err := goversion.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return Info{}, fmt.Errorf("update: parse running version %q: %w", version, err)
	}

	info := Info{
		Version: latest.String(),
		Notes:   release.GetBody(),
		Date:    release.GetPublishedAt().Time,
	}
	info.Available = latest.GreaterThan(current)
	return info, nil
}

// Install downloads and applies an available update. Not wired up yet;
// the release pipeline does not publish self-update artifacts.
func (c *Checker) Install() error {
	return errors.New("updater is not configured yet")
}

// RunPeriodic checks once at startup and then on every interval tick,
// calling notify whenever a newer release exists. Check failures are
// logged and treated as "no update available".
func (c *Checker) RunPeriodic(ctx context.Context, interval time.Duration, notify func(Info)) {
	check := func() {
		info, err := c.Check(ctx)
		if err != nil {
			log.Printf("update check failed: %v", err)
			return
		}
		if info.Available && notify != nil {
			notify(info)
		}
	}

	check()

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			check()
		}
	}
}
