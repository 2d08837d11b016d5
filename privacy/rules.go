package privacy

import (
	"context"
	"fmt"
	"slices"

	"github.com/syssam/gqlreq"
)

// Viewer represents the authenticated user on whose behalf a request is sent.
type Viewer interface {
	// GetID returns the viewer's unique identifier.
	GetID() string
	// GetRoles returns the viewer's roles.
	GetRoles() []string
	// GetTenantID returns the viewer's tenant identifier, or "".
	GetTenantID() string
}

type viewerCtxKey struct{}

// WithViewer returns a new context with the viewer attached.
func WithViewer(ctx context.Context, viewer Viewer) context.Context {
	return context.WithValue(ctx, viewerCtxKey{}, viewer)
}

// ViewerFromContext retrieves the viewer from the context.
// Returns nil if no viewer is present.
func ViewerFromContext(ctx context.Context) Viewer {
	v, _ := ctx.Value(viewerCtxKey{}).(Viewer)
	return v
}

// SimpleViewer is a basic implementation of the Viewer interface.
type SimpleViewer struct {
	UserID   string
	Roles    []string
	TenantID string
}

// GetID returns the user ID.
func (v *SimpleViewer) GetID() string {
	return v.UserID
}

// GetRoles returns the user's roles.
func (v *SimpleViewer) GetRoles() []string {
	return v.Roles
}

// GetTenantID returns the tenant ID.
func (v *SimpleViewer) GetTenantID() string {
	return v.TenantID
}

// DenyIfNoViewer returns a rule that denies every request sent without a
// viewer in the context.
//
//	privacy.Policy{
//	    privacy.DenyIfNoViewer(),
//	    privacy.HasRole("admin"),
//	    privacy.AlwaysDenyRule(),
//	}
func DenyIfNoViewer() Rule {
	return ContextRule(func(ctx context.Context) error {
		if ViewerFromContext(ctx) == nil {
			return Denyf("gqlreq/privacy: viewer required")
		}
		return Skip
	})
}

// HasRole returns a rule that allows the request if the viewer has the role.
func HasRole(role string) Rule {
	return HasAnyRole(role)
}

// HasAnyRole returns a rule that allows the request if the viewer has any
// of the roles, and skips otherwise.
func HasAnyRole(roles ...string) Rule {
	return ContextRule(func(ctx context.Context) error {
		viewer := ViewerFromContext(ctx)
		if viewer == nil {
			return Skip
		}
		viewerRoles := viewer.GetRoles()
		for _, role := range roles {
			if slices.Contains(viewerRoles, role) {
				return Allow
			}
		}
		return Skip
	})
}

// IsOwner returns a mutation rule that allows the request if the input
// field (a wire name, e.g. "todoOwnerId") holds the viewer's ID.
//
//	privacy.Policy{
//	    privacy.DenyIfNoViewer(),
//	    privacy.IsOwner("todoOwnerId"),
//	    privacy.AlwaysDenyRule(),
//	}
func IsOwner(field string) Rule {
	return RuleFunc(func(ctx context.Context, r *gqlreq.Request) error {
		viewer := ViewerFromContext(ctx)
		if viewer == nil {
			return Skip
		}
		value, ok := inputField(r, field)
		if !ok {
			return Skip
		}
		if value == viewer.GetID() {
			return Allow
		}
		return Skip
	})
}

// TenantRule returns a mutation rule that allows the request if the input
// field matches the viewer's tenant, and denies it on a mismatch.
func TenantRule(field string) Rule {
	return RuleFunc(func(ctx context.Context, r *gqlreq.Request) error {
		viewer := ViewerFromContext(ctx)
		if viewer == nil || viewer.GetTenantID() == "" {
			return Skip
		}
		value, ok := inputField(r, field)
		if !ok {
			return Skip
		}
		if value == viewer.GetTenantID() {
			return Allow
		}
		return Denyf("gqlreq/privacy: tenant mismatch")
	})
}

// RequireTenant returns a rule denying requests sent by a viewer without a tenant.
func RequireTenant() Rule {
	return ContextRule(func(ctx context.Context) error {
		viewer := ViewerFromContext(ctx)
		if viewer == nil {
			return Denyf("gqlreq/privacy: viewer required for tenant-scoped request")
		}
		if viewer.GetTenantID() == "" {
			return Denyf("gqlreq/privacy: tenant required")
		}
		return Skip
	})
}

// inputField returns the string form of a field of the $input variable.
func inputField(r *gqlreq.Request, field string) (string, bool) {
	if r.Operation != gqlreq.OperationMutation {
		return "", false
	}
	v, ok := r.Variables.Get("input")
	if !ok {
		return "", false
	}
	input, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	value, ok := input[field]
	if !ok || value == nil {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return v, true
	default:
		return fmt.Sprintf("%v", v), true
	}
}
