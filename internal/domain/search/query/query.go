package query

import (
	"slices"
	"strings"
)

// Op is the node kind of a Query.
type Op int

// Node kinds.
const (
	OpNothing Op = iota
	OpAll
	OpTerm
	OpText
	OpPrefix
	OpAnd
	OpOr
	OpAndNot
)

var opNames = map[Op]string{
	OpNothing: "NOTHING",
	OpAll:     "ALL",
	OpTerm:    "TERM",
	OpText:    "TEXT",
	OpPrefix:  "PREFIX",
	OpAnd:     "AND",
	OpOr:      "OR",
	OpAndNot:  "AND_NOT",
}

// String returns the operator name.
func (o Op) String() string { return opNames[o] }

// Query is an immutable boolean expression over index terms and free text.
// The zero value matches nothing.
type Query struct {
	op    Op
	value string
	subs  []Query
}

// Nothing returns a query that matches no document.
func Nothing() Query { return Query{op: OpNothing} }

// All returns a query that matches every document.
func All() Query { return Query{op: OpAll} }

// Term returns an exact term query. Terms are case-insensitive.
func Term(term string) Query {
	return Query{op: OpTerm, value: strings.ToLower(term)}
}

// Text returns a free-text word query matched against the analyzed document body.
func Text(word string) Query {
	return Query{op: OpText, value: word}
}

// Prefix returns a partial-word query matched against the analyzed document body.
func Prefix(p string) Query {
	return Query{op: OpPrefix, value: strings.ToLower(p)}
}

// And returns the conjunction of qs. MatchAll operands are dropped,
// a MatchNothing operand makes the whole conjunction match nothing.
// And() with no operands matches everything.
func And(qs ...Query) Query {
	subs := make([]Query, 0, len(qs))
	for _, q := range qs {
		switch q.op {
		case OpAll:
			continue
		case OpNothing:
			return Nothing()
		case OpAnd:
			subs = append(subs, q.subs...)
		default:
			subs = append(subs, q)
		}
	}
	switch len(subs) {
	case 0:
		return All()
	case 1:
		return subs[0]
	}
	return Query{op: OpAnd, subs: subs}
}

// Or returns the disjunction of qs. MatchNothing operands are dropped,
// a MatchAll operand makes the whole disjunction match everything.
// Or() with no operands matches nothing.
func Or(qs ...Query) Query {
	subs := make([]Query, 0, len(qs))
	for _, q := range qs {
		switch q.op {
		case OpNothing:
			continue
		case OpAll:
			return All()
		case OpOr:
			subs = append(subs, q.subs...)
		default:
			subs = append(subs, q)
		}
	}
	switch len(subs) {
	case 0:
		return Nothing()
	case 1:
		return subs[0]
	}
	return Query{op: OpOr, subs: subs}
}

// AndNot returns documents matching left but not right.
func AndNot(left, right Query) Query {
	switch {
	case left.op == OpNothing || right.op == OpAll:
		return Nothing()
	case right.op == OpNothing:
		return left
	}
	return Query{op: OpAndNot, subs: []Query{left, right}}
}

// Op returns the node kind.
func (q Query) Op() Op { return q.op }

// Value returns the term, word or prefix of a leaf node.
func (q Query) Value() string { return q.value }

// Subs returns a copy of the operands of an AND / OR / AND_NOT node.
func (q Query) Subs() []Query { return slices.Clone(q.subs) }

// IsNothing reports whether q matches no document.
func (q Query) IsNothing() bool { return q.op == OpNothing }

// IsAll reports whether q matches every document.
func (q Query) IsAll() bool { return q.op == OpAll }

// Len returns the number of leaves (terms, words and prefixes) in q.
func (q Query) Len() int {
	switch q.op {
	case OpTerm, OpText, OpPrefix:
		return 1
	case OpAnd, OpOr, OpAndNot:
		n := 0
		for _, s := range q.subs {
			n += s.Len()
		}
		return n
	default:
		return 0
	}
}

// Terms returns the exact terms of q in depth-first order.
func (q Query) Terms() []string {
	var out []string
	q.walk(func(n Query) {
		if n.op == OpTerm {
			out = append(out, n.value)
		}
	})
	return out
}

// Equal reports whether q and other are structurally identical.
func (q Query) Equal(other Query) bool {
	if q.op != other.op || q.value != other.value || len(q.subs) != len(other.subs) {
		return false
	}
	for i := range q.subs {
		if !q.subs[i].Equal(other.subs[i]) {
			return false
		}
	}
	return true
}

// String renders q for logs, e.g. (type:application AND (pkg:foo OR foo*)).
func (q Query) String() string {
	var b strings.Builder
	q.write(&b)
	return b.String()
}

func (q Query) write(b *strings.Builder) {
	switch q.op {
	case OpNothing:
		b.WriteString("<nothing>")
	case OpAll:
		b.WriteString("<all>")
	case OpTerm:
		b.WriteString(q.value)
	case OpText:
		b.WriteString(`"` + q.value + `"`)
	case OpPrefix:
		b.WriteString(q.value + "*")
	default:
		b.WriteByte('(')
		for i, s := range q.subs {
			if i > 0 {
				b.WriteString(" " + q.op.String() + " ")
			}
			s.write(b)
		}
		b.WriteByte(')')
	}
}

func (q Query) walk(fn func(Query)) {
	fn(q)
	for _, s := range q.subs {
		s.walk(fn)
	}
}

// ExactTerm reports whether q consists of exactly one leaf that is a term
// starting with prefix, and returns that term.
func ExactTerm(q Query, prefix string) (string, bool) {
	if q.op != OpTerm || !strings.HasPrefix(q.value, prefix) {
		return "", false
	}
	return q.value, true
}
