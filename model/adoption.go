package model

// ClientAdoptionResult holds per-client counts for one EIP.
type ClientAdoptionResult struct {
	Passed  int     `json:"passed"`
	Failed  int     `json:"failed"`
	Pending int     `json:"pending"`
	Total   int     `json:"total"`
	Score   float64 `json:"score"`
}

type ClientAdoption struct {
	Name       string               `json:"name"`
	Version    string               `json:"version"`
	GithubRepo string               `json:"githubRepo,omitempty"`
	Result     ClientAdoptionResult `json:"result"`
}

type AdoptionSummary struct {
	TotalClients  int     `json:"totalClients"`
	ActiveClients int     `json:"activeClients"`
	TotalTests    int     `json:"totalTests"`
	TotalVariants int     `json:"totalVariants"`
	OverallScore  float64 `json:"overallScore"`
}

// EIPAdoption is the API projection of one EIP's results.
type EIPAdoption struct {
	EIP         string           `json:"eip"`
	Spec        string           `json:"spec"`
	LastUpdated string           `json:"lastUpdated"`
	Summary     AdoptionSummary  `json:"summary"`
	Clients     []ClientAdoption `json:"clients"`
}

type ForkAdoptionSummary struct {
	TotalEIPs    int     `json:"totalEIPs"`
	AverageScore float64 `json:"averageScore"`
}

// ForkAdoption is the API projection of all EIPs in a fork.
type ForkAdoption struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Summary     ForkAdoptionSummary `json:"summary"`
	EIPs        []EIPAdoption       `json:"eips"`
}
