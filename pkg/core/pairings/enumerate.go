package pairings

// EnumerateSolutions produces every distinct way to partition people into
// unordered pairs. For an odd count, each person is considered as the
// leftover exactly once, with every matching of the remaining even set
// enumerated for each choice.
//
// The number of matchings for 2k people is (2k-1)!!, so this is only
// tractable for small groups (practically under ~12-14 people).
func EnumerateSolutions(people []string) []Solution {
	if len(people) < 2 {
		return nil
	}

	if len(people)%2 == 0 {
		matchings := matchEvenGroup(people)
		solutions := make([]Solution, 0, len(matchings))
		for _, pairs := range matchings {
			solutions = append(solutions, Solution{Pairs: pairs, LeftOut: []string{}})
		}
		return solutions
	}

	var solutions []Solution
	for i, leftOut := range people {
		remaining := withoutIndex(people, i)
		for _, pairs := range matchEvenGroup(remaining) {
			solutions = append(solutions, Solution{Pairs: pairs, LeftOut: []string{leftOut}})
		}
	}
	return solutions
}

// matchEvenGroup enumerates every perfect matching of an even-sized set:
// fix the first person, pair them with each remaining person in turn, and
// recurse on the rest. Each matching is produced exactly once.
func matchEvenGroup(people []string) [][]Pair {
	if len(people) == 0 {
		return [][]Pair{{}}
	}
	if len(people) == 2 {
		return [][]Pair{{NewPair(people[0], people[1])}}
	}

	first := people[0]
	rest := people[1:]

	var matchings [][]Pair
	for i, partner := range rest {
		subMatchings := matchEvenGroup(withoutIndex(rest, i))
		for _, sub := range subMatchings {
			pairs := make([]Pair, 0, len(sub)+1)
			pairs = append(pairs, NewPair(first, partner))
			pairs = append(pairs, sub...)
			matchings = append(matchings, pairs)
		}
	}
	return matchings
}

func withoutIndex(people []string, i int) []string {
	remaining := make([]string, 0, len(people)-1)
	remaining = append(remaining, people[:i]...)
	remaining = append(remaining, people[i+1:]...)
	return remaining
}
