package gqlreq_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/gqlreq"
)

func TestOperationKinds(t *testing.T) {
	tests := []struct {
		kind gqlreq.OperationKind
		op   gqlreq.Operation
		verb string
	}{
		{gqlreq.QueryGet, gqlreq.OperationQuery, "get"},
		{gqlreq.QueryList, gqlreq.OperationQuery, "list"},
		{gqlreq.MutationCreate, gqlreq.OperationMutation, "create"},
		{gqlreq.MutationUpdate, gqlreq.OperationMutation, "update"},
		{gqlreq.MutationDelete, gqlreq.OperationMutation, "delete"},
		{gqlreq.SubscriptionOnCreate, gqlreq.OperationSubscription, "onCreate"},
		{gqlreq.SubscriptionOnUpdate, gqlreq.OperationSubscription, "onUpdate"},
		{gqlreq.SubscriptionOnDelete, gqlreq.OperationSubscription, "onDelete"},
	}
	for _, tt := range tests {
		t.Run(tt.verb, func(t *testing.T) {
			assert.Equal(t, tt.op, tt.kind.Operation())
			assert.Equal(t, tt.verb, tt.kind.Verb())

			got, err := gqlreq.ParseOperationKind(string(tt.op), tt.verb)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, got)
		})
	}
}

func TestOperationKindValid(t *testing.T) {
	assert.True(t, gqlreq.QueryGet.Valid())
	assert.False(t, gqlreq.QueryType("sync").Valid())
	assert.True(t, gqlreq.MutationDelete.Valid())
	assert.False(t, gqlreq.MutationType("upsert").Valid())
	assert.True(t, gqlreq.SubscriptionOnUpdate.Valid())
	assert.False(t, gqlreq.SubscriptionType("onSync").Valid())
}

func TestSubscriptionMutation(t *testing.T) {
	assert.Equal(t, gqlreq.MutationCreate, gqlreq.SubscriptionOnCreate.Mutation())
	assert.Equal(t, gqlreq.MutationUpdate, gqlreq.SubscriptionOnUpdate.Mutation())
	assert.Equal(t, gqlreq.MutationDelete, gqlreq.SubscriptionOnDelete.Mutation())
	assert.Empty(t, gqlreq.SubscriptionType("onSync").Mutation())
}

func TestParseOperationKindErrors(t *testing.T) {
	for _, tt := range []struct{ op, verb string }{
		{"query", "sync"},
		{"mutation", "get"},
		{"subscription", "create"},
		{"fragment", "get"},
	} {
		t.Run(tt.op+"/"+tt.verb, func(t *testing.T) {
			_, err := gqlreq.ParseOperationKind(tt.op, tt.verb)
			assert.True(t, gqlreq.IsUnsupportedOperation(err))
		})
	}
	assert.Equal(t, "mutation", gqlreq.OperationMutation.String())
}
