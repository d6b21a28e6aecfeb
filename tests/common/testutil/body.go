//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// Mutation edits a request body before it is sent.
type Mutation func(body map[string]any)

// Body turns a request DTO into its JSON map so tests can drop or corrupt fields.
func Body(t *testing.T, dto any, muts ...Mutation) map[string]any {
	t.Helper()
	raw, err := json.Marshal(dto)
	require.NoError(t, err)

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &body))
	for _, mut := range muts {
		if mut != nil {
			mut(body)
		}
	}
	return body
}

// Field sets key, or removes it when value is nil.
func Field(key string, value any) Mutation {
	return func(body map[string]any) {
		if value == nil {
			delete(body, key)
			return
		}
		body[key] = value
	}
}
