package privacy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/gqlreq/privacy"
)

func TestViewerContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, privacy.ViewerFromContext(ctx))

	v := &privacy.SimpleViewer{UserID: "u1", Roles: []string{"user"}, TenantID: "acme"}
	ctx = privacy.WithViewer(ctx, v)
	got := privacy.ViewerFromContext(ctx)
	assert.Equal(t, "u1", got.GetID())
	assert.Equal(t, []string{"user"}, got.GetRoles())
	assert.Equal(t, "acme", got.GetTenantID())
}

func TestDenyIfNoViewer(t *testing.T) {
	rule := privacy.DenyIfNoViewer()
	assert.ErrorIs(t, rule.EvalRequest(context.Background(), listTodos()), privacy.Deny)

	ctx := privacy.WithViewer(context.Background(), &privacy.SimpleViewer{UserID: "u1"})
	assert.ErrorIs(t, rule.EvalRequest(ctx, listTodos()), privacy.Skip)
}

func TestHasRole(t *testing.T) {
	tests := []struct {
		name   string
		viewer privacy.Viewer
		rule   privacy.Rule
		want   error
	}{
		{name: "NoViewer", rule: privacy.HasRole("admin"), want: privacy.Skip},
		{name: "Match", viewer: &privacy.SimpleViewer{Roles: []string{"admin"}}, rule: privacy.HasRole("admin"), want: privacy.Allow},
		{name: "Miss", viewer: &privacy.SimpleViewer{Roles: []string{"user"}}, rule: privacy.HasRole("admin"), want: privacy.Skip},
		{name: "AnyMatch", viewer: &privacy.SimpleViewer{Roles: []string{"mod"}}, rule: privacy.HasAnyRole("admin", "mod"), want: privacy.Allow},
		{name: "AnyMiss", viewer: &privacy.SimpleViewer{Roles: []string{"user"}}, rule: privacy.HasAnyRole("admin", "mod"), want: privacy.Skip},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.viewer != nil {
				ctx = privacy.WithViewer(ctx, tt.viewer)
			}
			assert.ErrorIs(t, tt.rule.EvalRequest(ctx, listTodos()), tt.want)
		})
	}
}

func TestIsOwner(t *testing.T) {
	ctx := privacy.WithViewer(context.Background(), &privacy.SimpleViewer{UserID: "u1"})
	rule := privacy.IsOwner("todoOwnerId")

	assert.ErrorIs(t, rule.EvalRequest(ctx, createTodo(map[string]any{"todoOwnerId": "u1"})), privacy.Allow)
	assert.ErrorIs(t, rule.EvalRequest(ctx, createTodo(map[string]any{"todoOwnerId": "u2"})), privacy.Skip)
	assert.ErrorIs(t, rule.EvalRequest(ctx, createTodo(map[string]any{"name": "milk"})), privacy.Skip)
	assert.ErrorIs(t, rule.EvalRequest(ctx, createTodo(nil)), privacy.Skip)
	assert.ErrorIs(t, rule.EvalRequest(ctx, listTodos()), privacy.Skip, "queries carry no input")
	assert.ErrorIs(t, rule.EvalRequest(context.Background(), createTodo(map[string]any{"todoOwnerId": "u1"})), privacy.Skip)

	numeric := privacy.WithViewer(context.Background(), &privacy.SimpleViewer{UserID: "42"})
	assert.ErrorIs(t, rule.EvalRequest(numeric, createTodo(map[string]any{"todoOwnerId": 42})), privacy.Allow)
}

func TestTenantRule(t *testing.T) {
	ctx := privacy.WithViewer(context.Background(), &privacy.SimpleViewer{UserID: "u1", TenantID: "acme"})
	rule := privacy.TenantRule("tenantId")

	assert.ErrorIs(t, rule.EvalRequest(ctx, createTodo(map[string]any{"tenantId": "acme"})), privacy.Allow)
	assert.ErrorIs(t, rule.EvalRequest(ctx, createTodo(map[string]any{"tenantId": "other"})), privacy.Deny)
	assert.ErrorIs(t, rule.EvalRequest(ctx, createTodo(map[string]any{})), privacy.Skip)

	noTenant := privacy.WithViewer(context.Background(), &privacy.SimpleViewer{UserID: "u1"})
	assert.ErrorIs(t, rule.EvalRequest(noTenant, createTodo(map[string]any{"tenantId": "acme"})), privacy.Skip)
}

func TestRequireTenant(t *testing.T) {
	rule := privacy.RequireTenant()
	assert.ErrorIs(t, rule.EvalRequest(context.Background(), listTodos()), privacy.Deny)

	noTenant := privacy.WithViewer(context.Background(), &privacy.SimpleViewer{UserID: "u1"})
	err := rule.EvalRequest(noTenant, listTodos())
	assert.ErrorIs(t, err, privacy.Deny)
	assert.Contains(t, err.Error(), "tenant required")

	ctx := privacy.WithViewer(context.Background(), &privacy.SimpleViewer{UserID: "u1", TenantID: "acme"})
	assert.ErrorIs(t, rule.EvalRequest(ctx, listTodos()), privacy.Skip)
}
