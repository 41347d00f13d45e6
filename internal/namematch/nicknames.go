package namematch

import "strings"

// DefaultNicknames returns the built-in nickname table mapping common short
// forms and well-known player aliases to their canonical spellings. The
// scorer copies the table at construction, so callers may not mutate matcher
// behavior afterwards.
func DefaultNicknames() map[string]string {
	return map[string]string{
		"chris": "christopher",
		"mike":  "michael",
		"matt":  "matthew",
		"dave":  "david",
		"rob":   "robert",
		"bob":   "robert",
		"dan":   "daniel",
		"andy":  "andrew",
		"tony":  "anthony",
		"joe":   "joseph",
		"jim":   "james",
		"tom":   "thomas",
		"will":  "william",
		"bill":  "william",
		"tim":   "timothy",
		"gabe":  "gabriel",
		"aj":    "a.j.",
		"cj":    "c.j.",
		"dj":    "d.j.",
		"jj":    "j.j.",
		"tj":    "t.j.",
		// Well-known player aliases.
		"jamo":      "jameson",
		"cmc":       "christian mccaffrey",
		"dhop":      "deandre hopkins",
		"hollywood": "marquise brown",
		"megatron":  "calvin johnson",
		"arsb":      "amon-ra st brown",
	}
}

// expandVariants generates nickname-expanded variants of a name in both
// directions (nickname to canonical and canonical to nickname). The first
// entry is always the normalized name itself.
func (s *Scorer) expandVariants(name string) []string {
	normalized := Normalize(name)
	tokens := strings.Fields(normalized)

	variants := []string{normalized}
	seen := map[string]struct{}{normalized: {}}
	add := func(v string) {
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		variants = append(variants, v)
	}

	for i, token := range tokens {
		if full, ok := s.nicknames[token]; ok {
			add(replaceToken(tokens, i, full))
		}
		for nick, full := range s.nicknames {
			if token == full {
				add(replaceToken(tokens, i, nick))
			}
		}
	}
	return variants
}

func replaceToken(tokens []string, index int, value string) string {
	replaced := make([]string, len(tokens))
	copy(replaced, tokens)
	replaced[index] = value
	return strings.Join(replaced, " ")
}
