// Package util provides shared utility functions.
package util

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultShortIDLength is the default number of characters for short IDs.
	DefaultShortIDLength = 8
	// MaxAmbiguousCandidates is the max number of candidates to show in ambiguous error.
	MaxAmbiguousCandidates = 5
)

// Errors returned by ID resolution functions.
var (
	ErrAmbiguousID = errors.New("ambiguous ID prefix")
	ErrNotFound    = errors.New("not found")
)

// ShortID returns a shortened version of an ID.
// If n is 0 or negative, DefaultShortIDLength (8) is used.
//
// Examples:
//
//	ShortID("3f2b9c1e-5d4a-4c8e-9b1a-2f6d7e8c9a0b", 0) → "3f2b9c1e"
//	ShortID("abc", 8) → "abc" (no truncation if shorter)
func ShortID(id string, n int) string {
	if n <= 0 {
		n = DefaultShortIDLength
	}
	if len(id) <= n {
		return id
	}
	return id[:n]
}

// ResolveID resolves an ID or unique prefix against a set of known IDs.
//
// Resolution rules:
//  1. An exact match always wins, even if it is also a prefix of another ID.
//  2. If idOrPrefix matches exactly one ID prefix, return that ID.
//  3. If multiple matches, return ErrAmbiguousID with candidates.
//  4. If no matches, return ErrNotFound.
func ResolveID(idOrPrefix string, ids []string, entityType string) (string, error) {
	prefix := strings.TrimSpace(idOrPrefix)
	if prefix == "" {
		return "", fmt.Errorf("%s ID: %w", entityType, ErrNotFound)
	}

	var candidates []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			candidates = append(candidates, id)
		}
	}
	return resolveFromCandidates(prefix, candidates, entityType)
}

// resolveFromCandidates handles the common resolution logic.
func resolveFromCandidates(prefix string, candidates []string, entityType string) (string, error) {
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("%s with prefix %q: %w", entityType, prefix, ErrNotFound)
	case 1:
		return candidates[0], nil
	default:
		shown := candidates
		if len(shown) > MaxAmbiguousCandidates {
			shown = shown[:MaxAmbiguousCandidates]
		}
		return "", fmt.Errorf("%w: prefix %q matches %d %ss: %v",
			ErrAmbiguousID, prefix, len(candidates), entityType, shown)
	}
}
