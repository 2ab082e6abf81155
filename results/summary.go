package results

import (
	"sort"

	"github.com/balboard/balboard/model"
)

// ClientSummary counts the recorded outcomes of one client.
type ClientSummary struct {
	Client string
	Passed int
	Failed int
}

// Total returns the number of recorded outcomes.
func (s ClientSummary) Total() int {
	return s.Passed + s.Failed
}

// SummarizeSimulation counts pass and fail results of sim per client across
// the document. Clients are sorted by id.
func SummarizeSimulation(doc model.TestResults, sim model.Simulation) []ClientSummary {
	counts := make(map[string]*ClientSummary)

	for _, test := range doc.Tests {
		for _, variant := range test.Variants {
			for client := range variant.Results {
				result, ok := variant.ResultFor(client, sim)
				if !ok || result.Status == model.StatusPending {
					continue
				}
				s, ok := counts[client]
				if !ok {
					s = &ClientSummary{Client: client}
					counts[client] = s
				}
				if result.Status == model.StatusPass {
					s.Passed++
				} else {
					s.Failed++
				}
			}
		}
	}

	out := make([]ClientSummary, 0, len(counts))
	for _, s := range counts {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Client < out[j].Client })
	return out
}
