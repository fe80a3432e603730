package ast

// Visitor traverses a Policy's AST. Implement it for validation,
// transformation, or analysis passes.
type Visitor interface {
	VisitPolicy(*Policy) error
	VisitRule(*Rule) error
	VisitCondition(*ConditionNode) error
	VisitAction(*Action) error
	VisitValue(*ValueNode) error
	VisitVariable(*Variable) error
}

// Walk visits policy and every node reachable from it, depth-first,
// stopping at the first error returned by the visitor.
func Walk(policy *Policy, visitor Visitor) error {
	if err := visitor.VisitPolicy(policy); err != nil {
		return err
	}

	for _, variable := range policy.Variables {
		if err := visitor.VisitVariable(variable); err != nil {
			return err
		}
		if err := visitor.VisitValue(variable.Value); err != nil {
			return err
		}
	}

	for _, rule := range policy.Rules {
		if err := visitor.VisitRule(rule); err != nil {
			return err
		}

		if rule.Conditions != nil {
			if err := walkCondition(rule.Conditions, visitor); err != nil {
				return err
			}
		}

		for _, action := range rule.Actions {
			if err := visitor.VisitAction(action); err != nil {
				return err
			}
			for _, param := range action.Parameters {
				if err := visitor.VisitValue(param); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func walkCondition(cond *ConditionNode, visitor Visitor) error {
	if err := visitor.VisitCondition(cond); err != nil {
		return err
	}

	if cond.Value != nil {
		if err := visitor.VisitValue(cond.Value); err != nil {
			return err
		}
	}

	for _, arg := range cond.Args {
		if err := visitor.VisitValue(arg); err != nil {
			return err
		}
	}

	for _, child := range cond.Children {
		if err := walkCondition(child, visitor); err != nil {
			return err
		}
	}

	return nil
}
