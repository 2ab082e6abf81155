package adoption

// report.go builds the EIP and fork projections served by the API.

import (
	"math"

	"github.com/balboard/balboard/model"
	"github.com/rs/zerolog"
)

// BuildEIPAdoption projects one EIP's results for the given client roster.
// spec is the EIP document link taken from the fork manifest.
func BuildEIPAdoption(eip, spec string, doc model.TestResults, clients []model.Client) model.EIPAdoption {
	stats := OverallStats(doc.Tests, clients)

	active := 0
	for _, cs := range stats.Clients {
		if cs.Total > 0 && (cs.Passed > 0 || cs.Failed > 0) {
			active++
		}
	}

	out := model.EIPAdoption{
		EIP:         eip,
		Spec:        spec,
		LastUpdated: doc.LastUpdated,
		Summary: model.AdoptionSummary{
			TotalClients:  stats.TotalClients,
			ActiveClients: active,
			TotalTests:    stats.TotalTests,
			TotalVariants: stats.TotalVariants,
			OverallScore:  round1(stats.OverallPassRate),
		},
		Clients: make([]model.ClientAdoption, 0, len(clients)),
	}

	for i, cs := range stats.Clients {
		client := clients[i]
		name := client.Name
		if name == "" {
			name = client.ID
		}
		version := client.Version
		if version == "" {
			version = model.UnknownVersion
		}
		out.Clients = append(out.Clients, model.ClientAdoption{
			Name:       name,
			Version:    version,
			GithubRepo: client.GithubRepo,
			Result: model.ClientAdoptionResult{
				Passed:  cs.Passed,
				Failed:  cs.Failed,
				Pending: cs.Pending,
				Total:   cs.Total,
				Score:   round1(cs.PassRate),
			},
		})
	}
	return out
}

// ResultsLoader loads the results document of an EIP.
type ResultsLoader interface {
	LoadResults(fork, eip string) (model.TestResults, error)
}

// BuildForkAdoption projects every EIP of a fork. An EIP whose results cannot
// be loaded contributes a zero summary; the average covers all EIPs.
func BuildForkAdoption(logger zerolog.Logger, fork string, manifest model.ForkManifest, loader ResultsLoader, clients []model.Client) model.ForkAdoption {
	out := model.ForkAdoption{
		Name:        manifest.Name,
		Description: manifest.Description,
		EIPs:        make([]model.EIPAdoption, 0, len(manifest.EIPs)),
	}

	var sum float64
	for _, eip := range manifest.EIPs {
		doc, err := loader.LoadResults(fork, eip.Number)
		if err != nil {
			logger.Warn().Err(err).Str("fork", fork).Str("eip", eip.Number).Msg("No test results found")
			out.EIPs = append(out.EIPs, model.EIPAdoption{
				EIP:     eip.Number,
				Spec:    eip.Spec,
				Clients: []model.ClientAdoption{},
			})
			continue
		}

		adoption := BuildEIPAdoption(eip.Number, eip.Spec, doc, clients)
		sum += adoption.Summary.OverallScore
		out.EIPs = append(out.EIPs, adoption)
	}

	out.Summary.TotalEIPs = len(manifest.EIPs)
	if out.Summary.TotalEIPs > 0 {
		out.Summary.AverageScore = round1(sum / float64(out.Summary.TotalEIPs))
	}
	return out
}

// EIPProgress returns the overall pass rate as a whole percentage, counting
// only clients that reported a version.
func EIPProgress(doc model.TestResults, clients []model.Client) int {
	active := make([]model.Client, 0, len(clients))
	for _, c := range clients {
		if c.Active() {
			active = append(active, c)
		}
	}
	stats := OverallStats(doc.Tests, active)
	return int(math.Floor(stats.OverallPassRate + 0.5))
}

// ForkProgress averages the EIP progress values that are above zero.
func ForkProgress(progress []int) int {
	var sum, n int
	for _, p := range progress {
		if p > 0 {
			sum += p
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return int(math.Floor(float64(sum)/float64(n) + 0.5))
}
