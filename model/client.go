package model

// UnknownVersion is reported for clients the latest export did not mention.
const UnknownVersion = "unknown"

// Client is an execution client tracked by the dashboard.
type Client struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	HiveName string `json:"hiveName"`
	Language string `json:"language"`
	Website  string `json:"website"`
	Logo     string `json:"logo,omitempty"`
	Repo     string `json:"repo,omitempty"`
	// Version reported by the latest hive export
	Version string `json:"version"`
	// Link to the source tree hive built the client from
	GithubRepo string `json:"githubRepo,omitempty"`
}

// Active reports whether the client appeared in the latest export.
func (c Client) Active() bool {
	return c.Version != "" && c.Version != UnknownVersion
}
