package wring

// LastWins splits items into survivors and losers so that only the last item
// of every key survives. Relative order of both results follows items.
func LastWins[T any, K comparable](items []T, key func(T) K) (keep, drop []T) {
	last := make(map[K]int, len(items))
	for i, it := range items {
		last[key(it)] = i
	}
	for i, it := range items {
		if last[key(it)] == i {
			keep = append(keep, it)
		} else {
			drop = append(drop, it)
		}
	}
	return keep, drop
}

// firstWins removes repeated items keeping the first occurrence.
func firstWins[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	out := items[:0:0]
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
