// Package ghcrawl lists the public repositories of a GitHub organization as
// landscape records.
package ghcrawl

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/go-github/v57/github"
	"github.com/huangsam/digger/internal/logger"
	"github.com/huangsam/digger/schema"
	"golang.org/x/oauth2"
)

// createdAtFormat is the date layout landscape datasets use.
const createdAtFormat = "2006/01/02"

const perPage = 100

// NewGitHubClient creates a GitHub client. An empty token makes
// unauthenticated requests, which GitHub rate-limits more tightly.
func NewGitHubClient(ctx context.Context, token string) *github.Client {
	if token == "" {
		return github.NewClient(nil)
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	return github.NewClient(tc)
}

// Crawler reads organization repositories through the GitHub REST API.
type Crawler struct {
	client *github.Client
}

// NewCrawler returns a Crawler using client.
func NewCrawler(client *github.Client) *Crawler {
	return &Crawler{client: client}
}

// CrawlOrg lists every public repository of org, following pagination,
// and returns one landscape record per repository.
func (c *Crawler) CrawlOrg(ctx context.Context, org string) ([]schema.Record, error) {
	if org == "" {
		return nil, fmt.Errorf("organization is required")
	}

	opt := &github.RepositoryListByOrgOptions{
		Type:        "public",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var records []schema.Record
	for {
		repos, resp, err := c.client.Repositories.ListByOrg(ctx, org, opt)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories of %s: %w", org, err)
		}
		for _, repo := range repos {
			records = append(records, RepoRecord(repo))
		}
		logger.WithField("org", org).WithField("page", opt.Page).Debugf("listed %d repositories", len(repos))
		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	return records, nil
}

// RepoRecord converts a repository into a landscape record.
// Classification and OpenRank are left empty for curation.
func RepoRecord(repo *github.Repository) schema.Record {
	createdAt := ""
	if ts := repo.GetCreatedAt(); !ts.IsZero() {
		createdAt = ts.Format(createdAtFormat)
	}
	return schema.Record{
		"repo_id":        strconv.FormatInt(repo.GetID(), 10),
		"repo_name":      repo.GetFullName(),
		"classification": "",
		"stars":          strconv.Itoa(repo.GetStargazersCount()),
		"forks":          strconv.Itoa(repo.GetForksCount()),
		"language":       repo.GetLanguage(),
		"created_at":     createdAt,
		"description":    repo.GetDescription(),
		"openrank":       "",
	}
}
