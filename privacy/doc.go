// Package privacy provides request policies: ordered rules that decide
// whether a compiled request may be handed to a destination.
//
// A rule returns one of three decisions:
//
//   - Allow: grants the request and stops evaluation
//   - Deny: rejects the request and stops evaluation
//   - Skip: defers to the next rule
//
// If every rule skips, the request is allowed. Policies are attached to an
// api.Category and evaluated before the request reaches a plugin:
//
//	policy := privacy.Policy{
//	    privacy.AllowKindRule(gqlreq.QueryList),
//	    privacy.DenyIfNoViewer(),
//	    privacy.OnModel(privacy.HasRole("admin"), "Invoice"),
//	    privacy.IsOwner("todoOwnerId"),
//	    privacy.AlwaysDenyRule(),
//	}
//	cat := api.NewCategory("api", api.WithPolicy(policy))
//
// The viewer is carried in the context:
//
//	ctx = privacy.WithViewer(ctx, &privacy.SimpleViewer{UserID: "u1", Roles: []string{"user"}})
//	err := cat.Send(ctx, "appsync", req)
//
// DecisionContext short-circuits every policy, which is useful for system
// jobs that must bypass viewer checks.
package privacy
