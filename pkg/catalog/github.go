package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const githubAPIBase = "https://api.github.com"

// Entry is one item of the remote catalog listing. Only directories are
// candidate skills; files sharing the tree (license, readme) are not.
type Entry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

// Client fetches the skills catalog from a GitHub repository subtree using
// the contents API for listings and raw.githubusercontent.com for the
// per-skill SKILL.md documents.
type Client struct {
	httpClient *http.Client
	repo       string // owner/name
	ref        string
	path       string
}

// NewClient returns a Client for the given repository ("owner/name"), ref,
// and subtree path.
func NewClient(repo, ref, path string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		repo:       repo,
		ref:        ref,
		path:       path,
	}
}

// List returns the entries of the catalog subtree.
func (c *Client) List(ctx context.Context) ([]Entry, error) {
	url := fmt.Sprintf("%s/repos/%s/contents/%s?ref=%s", githubAPIBase, c.repo, c.path, c.ref)

	body, err := c.get(ctx, url, "application/vnd.github+json")
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("parsing catalog listing: %w", err)
	}

	return entries, nil
}

// FetchDoc retrieves the SKILL.md document for one catalog entry. A non-2xx
// response is an error for that entry only; callers drop the entry and move
// on.
func (c *Client) FetchDoc(ctx context.Context, entry Entry) (string, error) {
	url := fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/SKILL.md", c.repo, c.ref, entry.Path)

	body, err := c.get(ctx, url, "")
	if err != nil {
		return "", err
	}

	return string(body), nil
}

func (c *Client) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req.Header.Set("User-Agent", "better-agents")

	// Optional token raises the GitHub API rate limit.
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		req.Header.Set("Authorization", "token "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("GitHub API rate limit exceeded; set GITHUB_TOKEN for higher limits")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return body, nil
}
