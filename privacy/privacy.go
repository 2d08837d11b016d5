package privacy

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/syssam/gqlreq"
)

// Policy decision sentinel errors.
//
// Rules return one of these to steer evaluation. Use errors.Is() to check
// for these values:
//
//	if errors.Is(err, privacy.Allow) { ... }
//	if errors.Is(err, privacy.Deny) { ... }
//	if errors.Is(err, privacy.Skip) { ... }
var (
	// Allow may be returned by rules to indicate that the policy
	// evaluation should terminate with an allow decision.
	Allow = errors.New("gqlreq/privacy: allow rule")

	// Deny may be returned by rules to indicate that the policy
	// evaluation should terminate with a deny decision.
	Deny = errors.New("gqlreq/privacy: deny rule")

	// Skip may be returned by rules to indicate that the policy
	// evaluation should continue to the next rule in the chain.
	Skip = errors.New("gqlreq/privacy: skip rule")
)

// Allowf returns a formatted wrapped Allow decision.
func Allowf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Allow)...)
}

// Denyf returns a formatted wrapped Deny decision.
func Denyf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Deny)...)
}

// Skipf returns a formatted wrapped Skip decision.
func Skipf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Skip)...)
}

// Rule decides whether a request is allowed.
type Rule interface {
	EvalRequest(context.Context, *gqlreq.Request) error
}

// RuleFunc type is an adapter which allows the use of
// ordinary functions as request rules.
type RuleFunc func(context.Context, *gqlreq.Request) error

// EvalRequest returns f(ctx, r).
func (f RuleFunc) EvalRequest(ctx context.Context, r *gqlreq.Request) error {
	return f(ctx, r)
}

// AlwaysAllowRule returns a rule that always returns an Allow decision.
func AlwaysAllowRule() Rule {
	return fixedDecision{Allow}
}

// AlwaysDenyRule returns a rule that always returns a Deny decision.
func AlwaysDenyRule() Rule {
	return fixedDecision{Deny}
}

// ContextRule creates a rule from a context evaluation function.
// Returning nil is equivalent to returning Skip.
func ContextRule(eval func(context.Context) error) Rule {
	return RuleFunc(func(ctx context.Context, _ *gqlreq.Request) error {
		return eval(ctx)
	})
}

// OnOperation evaluates the given rule only on requests of the given
// document operation (query, mutation or subscription).
func OnOperation(rule Rule, op gqlreq.Operation) Rule {
	return RuleFunc(func(ctx context.Context, r *gqlreq.Request) error {
		if r.Operation == op {
			return rule.EvalRequest(ctx, r)
		}
		return Skip
	})
}

// OnKind evaluates the given rule only on requests of one of the given kinds.
func OnKind(rule Rule, kinds ...gqlreq.OperationKind) Rule {
	return RuleFunc(func(ctx context.Context, r *gqlreq.Request) error {
		for _, k := range kinds {
			if k.Operation() == r.Operation && k.Verb() == r.Verb {
				return rule.EvalRequest(ctx, r)
			}
		}
		return Skip
	})
}

// OnModel evaluates the given rule only on requests built for one of the models.
func OnModel(rule Rule, models ...string) Rule {
	return RuleFunc(func(ctx context.Context, r *gqlreq.Request) error {
		if slices.Contains(models, r.Model) {
			return rule.EvalRequest(ctx, r)
		}
		return Skip
	})
}

// DenyKindRule returns a rule denying the given operation kind.
func DenyKindRule(kind gqlreq.OperationKind) Rule {
	rule := RuleFunc(func(_ context.Context, r *gqlreq.Request) error {
		return Denyf("gqlreq/privacy: operation %s %s is not allowed", r.Operation, r.Verb)
	})
	return OnKind(rule, kind)
}

// AllowKindRule returns a rule allowing the given operation kind.
func AllowKindRule(kind gqlreq.OperationKind) Rule {
	return OnKind(AlwaysAllowRule(), kind)
}

// Policy is an ordered list of rules. Evaluation stops at the first rule
// that returns something other than nil or Skip, and returns that decision
// unchanged.
type Policy []Rule

// EvalRequest evaluates a request against the policy.
func (policy Policy) EvalRequest(ctx context.Context, r *gqlreq.Request) error {
	for _, rule := range policy {
		switch decision := rule.EvalRequest(ctx, r); {
		case decision == nil || errors.Is(decision, Skip):
		default:
			return decision
		}
	}
	return nil
}

// Policies combines multiple policies into the top-level decision. A decision
// stored in the context by DecisionContext wins over every policy. An Allow
// from one of the policies stops the evaluation with a nil error.
type Policies []Rule

// EvalRequest evaluates the policies in order.
func (policies Policies) EvalRequest(ctx context.Context, r *gqlreq.Request) error {
	if decision, ok := DecisionFromContext(ctx); ok {
		return decision
	}
	for _, policy := range policies {
		switch decision := policy.EvalRequest(ctx, r); {
		case decision == nil || errors.Is(decision, Skip):
		case errors.Is(decision, Allow):
			return nil
		default:
			return decision
		}
	}
	return nil
}

type decisionCtxKey struct{}

// DecisionContext creates a new context from the given parent context with
// a policy decision attach to it.
func DecisionContext(parent context.Context, decision error) context.Context {
	if decision == nil || errors.Is(decision, Skip) {
		return parent
	}
	return context.WithValue(parent, decisionCtxKey{}, decision)
}

// DecisionFromContext retrieves the policy decision from the context.
func DecisionFromContext(ctx context.Context) (error, bool) {
	decision, ok := ctx.Value(decisionCtxKey{}).(error)
	if ok && errors.Is(decision, Allow) {
		decision = nil
	}
	return decision, ok
}

type fixedDecision struct {
	decision error
}

func (f fixedDecision) EvalRequest(context.Context, *gqlreq.Request) error {
	return f.decision
}
