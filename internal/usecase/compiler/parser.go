package compiler

import (
	"strings"

	"github.com/kailas-cloud/appdex/internal/domain/search/query"
)

// parser is a recursive-descent parser over whitespace tokens:
//
//	expr  = and { "OR" and }
//	and   = unary { ["AND"] unary }
//	unary = "NOT" unary | leaf
//
// Adjacent words are ANDed. Dangling operators are ignored.
type parser struct {
	tokens  []string
	pos     int
	partial int // index of the token expanded as a prefix, -1 for none
}

func parse(tokens []string, partial bool) query.Query {
	p := &parser{tokens: tokens, partial: -1}
	if partial {
		for i := len(tokens) - 1; i >= 0; i-- {
			if !isOperator(tokens[i]) {
				if !strings.Contains(tokens[i], ":") {
					p.partial = i
				}
				break
			}
		}
	}
	q := p.expr()
	if q.IsAll() {
		// a string of operators only
		return query.Nothing()
	}
	return q
}

func (p *parser) peek() string {
	if p.pos >= len(p.tokens) {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *parser) expr() query.Query {
	subs := []query.Query{p.and()}
	for p.peek() == opOr {
		p.pos++
		subs = append(subs, p.and())
	}
	// an empty side of OR must not widen the result to everything
	kept := subs[:0]
	for _, s := range subs {
		if !s.IsAll() {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return query.All()
	}
	return query.Or(kept...)
}

func (p *parser) and() query.Query {
	var pos, neg []query.Query
	for {
		tok := p.peek()
		switch tok {
		case "", opOr:
			return query.AndNot(query.And(pos...), query.Or(neg...))
		case opAnd:
			p.pos++
			continue
		}
		q, negated := p.unary()
		if negated {
			neg = append(neg, q)
		} else {
			pos = append(pos, q)
		}
	}
}

// unary returns the operand and whether it is negated (odd number of NOTs).
func (p *parser) unary() (query.Query, bool) {
	negated := false
	for p.peek() == opNot {
		negated = !negated
		p.pos++
	}
	if tok := p.peek(); tok == "" || tok == opOr || tok == opAnd {
		return query.All(), false
	}
	q := p.leaf(p.pos)
	p.pos++
	return q, negated
}

// leaf compiles one word. Prefixed terms ("category:audio") match index terms;
// plain words match the text. Hyphenated words become a conjunction of their parts.
func (p *parser) leaf(i int) query.Query {
	tok := p.tokens[i]
	if strings.Contains(tok, ":") {
		return query.Term(tok)
	}

	parts := strings.FieldsFunc(tok, func(r rune) bool { return r == '-' })
	if len(parts) == 0 {
		return query.All()
	}
	subs := make([]query.Query, 0, len(parts))
	for j, w := range parts {
		word := query.Text(w)
		if i == p.partial && j == len(parts)-1 {
			word = query.Or(word, query.Prefix(w))
		}
		subs = append(subs, word)
	}
	return query.And(subs...)
}
