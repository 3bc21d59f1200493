package ingest

import "strconv"

// normaliseHeader names unnamed columns after their position and suffixes repeated names
// with ".1", ".2", ...
func normaliseHeader(header []string) []string {
	names := make([]string, len(header))
	for i, name := range header {
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		names[i] = name
	}

	used := make(map[string]struct{}, len(names))
	suffix := make(map[string]int)
	for i, name := range names {
		candidate := name
		for {
			if _, ok := used[candidate]; !ok {
				break
			}
			suffix[name]++
			candidate = name + "." + strconv.Itoa(suffix[name])
		}
		names[i] = candidate
		used[candidate] = struct{}{}
	}

	return names
}
