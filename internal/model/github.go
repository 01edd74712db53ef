package model

// GithubLinkage is the connection state between the local account and a
// GitHub identity. A zero value means "not connected".
type GithubLinkage struct {
	GithubUsername string `json:"githubUsername"`
	AvatarURL      string `json:"avatarUrl"`
	GithubEmail    string `json:"githubEmail"`
	Connected      bool   `json:"connected"`
}

// RepositoryOwner is the owner block of a GitHub repository payload.
type RepositoryOwner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// Repository is a read-only projection of one of the user's GitHub repositories.
// Field names follow GitHub's REST payload, which the backend passes through.
type Repository struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	FullName    string          `json:"full_name"`
	Private     bool            `json:"private"`
	HTMLURL     string          `json:"html_url"`
	Description string          `json:"description"`
	Owner       RepositoryOwner `json:"owner"`
}

// PublicRepoResult is returned by POST /public-repo/analyze.
type PublicRepoResult struct {
	RepoID          int64  `json:"repoId"`
	RepoName        string `json:"repoName"`
	Owner           string `json:"owner"`
	OpenIssuesCount int    `json:"openIssuesCount"`
}
