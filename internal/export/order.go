package export

import "github.com/goliatone/go-llms/pkg/interfaces"

// ResolveOrder merges the canonical id list with the corpus. Canonical ids
// present in the corpus come first, in canonical order; the rest of the
// corpus follows in its own iteration order. Canonical ids missing from the
// corpus are skipped and every corpus entry is emitted once.
func ResolveOrder(canonical []string, corpus []interfaces.DocumentEntry) []interfaces.DocumentEntry {
	if len(corpus) == 0 {
		return []interfaces.DocumentEntry{}
	}

	byID := make(map[string]int, len(corpus))
	for i, entry := range corpus {
		if _, ok := byID[entry.ID]; !ok {
			byID[entry.ID] = i
		}
	}

	ordered := make([]interfaces.DocumentEntry, 0, len(corpus))
	visited := make(map[string]struct{}, len(corpus))

	for _, id := range canonical {
		idx, ok := byID[id]
		if !ok {
			continue
		}
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}
		ordered = append(ordered, corpus[idx])
	}

	for _, entry := range corpus {
		if _, seen := visited[entry.ID]; seen {
			continue
		}
		visited[entry.ID] = struct{}{}
		ordered = append(ordered, entry)
	}

	return ordered
}
