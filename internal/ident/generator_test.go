package ident

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apiError "observation-tracker/internal/errors"
)

// fakeNamespace is an in-memory occupied-ID set
type fakeNamespace struct {
	occupied map[string]bool
	checks   int
}

func (f *fakeNamespace) Exists(_ context.Context, id string) (bool, error) {
	f.checks++
	return f.occupied[id], nil
}

func TestGenerate_UserIDShape(t *testing.T) {
	gen := ForUserIDs()
	ns := &fakeNamespace{occupied: map[string]bool{}}

	for range 200 {
		id, err := gen.Generate(context.Background(), ns)
		assert.NoError(t, err)
		assert.Len(t, id, 6)
		for _, ch := range id {
			assert.Contains(t, userAlphabet, string(ch))
		}
	}
}

func TestGenerate_ObservationIDShape(t *testing.T) {
	gen := ForObservationIDs()
	ns := &fakeNamespace{occupied: map[string]bool{}}

	for range 200 {
		id, err := gen.Generate(context.Background(), ns)
		assert.NoError(t, err)
		assert.Len(t, id, 6)
		assert.Equal(t, "", strings.Trim(id, "0123456789"))
	}
}

func TestGenerate_RetriesUntilFreeValue(t *testing.T) {
	// Namespace holds every value except "B": with alphabet {A,B} and length 1
	// the generator must eventually return "B" and never "A".
	gen := NewGenerator("AB", 1, 1000)
	ns := &fakeNamespace{occupied: map[string]bool{"A": true}}

	for range 50 {
		id, err := gen.Generate(context.Background(), ns)
		assert.NoError(t, err)
		assert.Equal(t, "B", id)
	}
}

func TestGenerate_ExhaustedNamespace(t *testing.T) {
	gen := NewGenerator("AB", 1, 25)
	ns := &fakeNamespace{occupied: map[string]bool{"A": true, "B": true}}

	_, err := gen.Generate(context.Background(), ns)
	assert.Error(t, err)

	var apiErr *apiError.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "conflict", apiErr.Kind)
	assert.Equal(t, 25, ns.checks)
}

func TestGenerate_PropagatesNamespaceError(t *testing.T) {
	gen := ForObservationIDs()
	errNS := namespaceErr{}

	_, err := gen.Generate(context.Background(), errNS)
	assert.Error(t, err)
}

type namespaceErr struct{}

func (namespaceErr) Exists(context.Context, string) (bool, error) {
	return false, assert.AnError
}
