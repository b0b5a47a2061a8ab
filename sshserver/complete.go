package sshserver

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// completeCommand completes the first word of input against names. Prefix
// matches win over fuzzy ones. A single candidate replaces the word and adds
// a trailing space; several candidates are returned for display and the
// input is extended to their common prefix.
func completeCommand(input string, names []string) (string, []string) {
	if strings.ContainsAny(input, " \t") {
		return input, nil
	}
	word := strings.ToLower(input)
	if word == "" {
		return input, nil
	}
	var candidates []string
	for _, name := range names {
		if strings.HasPrefix(name, word) {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		for _, match := range fuzzy.Find(word, names) {
			candidates = append(candidates, match.Str)
		}
	} else {
		sort.Strings(candidates)
	}
	switch len(candidates) {
	case 0:
		return input, nil
	case 1:
		return candidates[0] + " ", nil
	}
	if common := commonPrefix(candidates); len(common) > len(word) {
		return common, candidates
	}
	return input, candidates
}

func commonPrefix(values []string) string {
	if len(values) == 0 {
		return ""
	}
	prefix := values[0]
	for _, value := range values[1:] {
		for !strings.HasPrefix(value, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}
