// Package namematch scores free-text player names against authoritative
// scorer names and resolves the best candidate from a pool.
//
// Scoring applies a sequence of short-circuit rules (exact, normalized,
// nickname-expanded, token-order swap, initials, bare surname) before falling
// back to a weighted blend of token, Levenshtein, and character-sequence
// similarities. Scores are classified into confidence tiers by thresholds
// supplied at construction; thresholds are validated, never clamped.
package namematch
