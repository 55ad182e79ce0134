package hybrid

import (
	"sort"

	"github.com/veridex/evidenceAPI/internal/domain/evidenceModel"
)

// rankedList is one store-produced candidate list, kept in the order the
// store returned it. Lists themselves stay in production order: keyword
// lists first, then dense lists granularity by granularity.
type rankedList struct {
	name    string
	results []evidenceModel.SearchResult
}

type fusedEntry struct {
	result    evidenceModel.SearchResult
	score     float32
	firstList int
}

// fuseRRF merges the non-empty lists with reciprocal rank fusion. Rank r
// (1-indexed) contributes 1/(k+r). A result's payload comes from its first
// occurrence across the lists. A single non-empty list passes through with
// its raw store scores untouched. Ties in fused score break by the list a
// result first appeared in, then by id.
func fuseRRF(lists []rankedList, k int, topK int) []evidenceModel.SearchResult {
	var nonEmpty []rankedList
	for _, list := range lists {
		if len(list.results) > 0 {
			nonEmpty = append(nonEmpty, list)
		}
	}

	if len(nonEmpty) == 0 {
		return []evidenceModel.SearchResult{}
	}
	if len(nonEmpty) == 1 {
		results := nonEmpty[0].results
		if len(results) > topK {
			results = results[:topK]
		}
		return results
	}

	entries := make(map[string]*fusedEntry)
	var order []string

	for listIndex, list := range nonEmpty {
		for rank, result := range list.results {
			entry, seen := entries[result.ID]
			if !seen {
				entry = &fusedEntry{result: result, firstList: listIndex}
				entries[result.ID] = entry
				order = append(order, result.ID)
			}
			entry.score += 1 / float32(k+rank+1)
		}
	}

	fused := make([]evidenceModel.SearchResult, 0, len(order))
	for _, id := range order {
		entry := entries[id]
		result := entry.result
		result.Score = entry.score
		fused = append(fused, result)
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		listI, listJ := entries[fused[i].ID].firstList, entries[fused[j].ID].firstList
		if listI != listJ {
			return listI < listJ
		}
		return fused[i].ID < fused[j].ID
	})

	if len(fused) > topK {
		fused = fused[:topK]
	}
	return fused
}
