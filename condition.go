package sqlbuild

// condKind enumerates the boolean expression variants held by Cond.
type condKind int

const (
	condCompare condKind = iota
	condTree
	condNot
)

// Cond is a boolean-valued expression node usable in WHERE, HAVING, ON and
// FILTER clauses. Like Expr, a Cond is immutable once constructed: And, Or
// and Not return new nodes.
type Cond struct {
	kind condKind

	// Comparison operands. right is nil for operators that take no
	// right-hand side, such as IS NULL.
	op    string
	left  Expression
	right Expression

	// Tree branches.
	lc, rc *Cond

	// Negated condition.
	inner *Cond

	err error
}

// Marker method for Expression.
func (c *Cond) expression() {}

// errCond returns a condition node carrying a deferred construction error.
func errCond(err error) *Cond {
	return &Cond{err: err}
}

// Build renders the condition node.
func (c *Cond) Build() (string, []any, error) {
	if c == nil {
		return "", nil, invalidArgumentError("nil condition")
	}
	if c.err != nil {
		return "", nil, c.err
	}
	switch c.kind {
	case condCompare:
		leftSQL, leftParams, err := c.left.Build()
		if err != nil {
			return "", nil, err
		}
		if c.right == nil {
			return leftSQL + " " + c.op, leftParams, nil
		}
		rightSQL, rightParams, err := c.right.Build()
		if err != nil {
			return "", nil, err
		}
		return leftSQL + " " + c.op + " " + rightSQL, concatParams(leftParams, rightParams), nil
	case condTree:
		leftSQL, leftParams, err := c.lc.Build()
		if err != nil {
			return "", nil, err
		}
		rightSQL, rightParams, err := c.rc.Build()
		if err != nil {
			return "", nil, err
		}
		return "(" + leftSQL + ") " + c.op + " (" + rightSQL + ")", concatParams(leftParams, rightParams), nil
	case condNot:
		sql, params, err := c.inner.Build()
		if err != nil {
			return "", nil, err
		}
		return "NOT (" + sql + ")", params, nil
	}
	return "", nil, invalidArgumentError("internal error: unknown condition kind %d", c.kind)
}

// String renders the condition for debugging and testing purposes.
func (c *Cond) String() string {
	sql, _, err := c.Build()
	if err != nil {
		return "Cond[!" + err.Error() + "]"
	}
	return "Cond[" + sql + "]"
}

// And combines two conditions with AND. Both sides are parenthesized.
func (c *Cond) And(other *Cond) *Cond {
	return &Cond{kind: condTree, op: "AND", lc: c, rc: other}
}

// Or combines two conditions with OR. Both sides are parenthesized.
func (c *Cond) Or(other *Cond) *Cond {
	return &Cond{kind: condTree, op: "OR", lc: c, rc: other}
}

// Not negates the condition, wrapping it as NOT (...).
func (c *Cond) Not() *Cond {
	return &Cond{kind: condNot, inner: c}
}

// tautology returns the always-true condition appended by the UpdateAll and
// DeleteAll bypasses.
func tautology() *Cond {
	return &Cond{kind: condCompare, op: "=", left: Raw("1"), right: Raw("1")}
}
