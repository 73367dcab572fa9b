// Package ident mints the public-facing 6-character IDs users exchange.
package ident

import (
	"context"
	"math/rand/v2"

	"observation-tracker/internal/errors"
)

const (
	userAlphabet        = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	observationAlphabet = "0123456789"

	publicIDLength = 6

	// At sane utilization a handful of attempts is already unlikely;
	// hitting this bound means the namespace is effectively full.
	defaultMaxAttempts = 100
)

// Namespace is the existence check a Generator retries against. Implementations
// wrap the relevant repository (users or observations); tests use an in-memory set.
type Namespace interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Generator struct {
	alphabet    string
	length      int
	maxAttempts int
}

// ForUserIDs returns the generator for public user IDs (A-Z, 0-9)
func ForUserIDs() Generator {
	return Generator{alphabet: userAlphabet, length: publicIDLength, maxAttempts: defaultMaxAttempts}
}

// ForObservationIDs returns the generator for public observation IDs (digits only)
func ForObservationIDs() Generator {
	return Generator{alphabet: observationAlphabet, length: publicIDLength, maxAttempts: defaultMaxAttempts}
}

// NewGenerator builds a generator with a custom alphabet and bounds
func NewGenerator(alphabet string, length, maxAttempts int) Generator {
	return Generator{alphabet: alphabet, length: length, maxAttempts: maxAttempts}
}

func (g Generator) candidate() string {
	id := make([]byte, g.length)
	for i := range id {
		id[i] = g.alphabet[rand.IntN(len(g.alphabet))]
	}
	return string(id)
}

// Generate returns a fresh ID not present in ns, retrying on collision.
// A duplicate that slips past the check in a race is rejected by the store's
// uniqueness constraint; callers treat that as one more collision and call
// Generate again.
func (g Generator) Generate(ctx context.Context, ns Namespace) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		id := g.candidate()

		exists, err := ns.Exists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}

	return "", errors.Conflict("ID namespace exhausted", nil)
}
