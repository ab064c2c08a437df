package sanitize

import (
	"fmt"
	"strings"
)

// RuleKind names the two substitution semantics
type RuleKind string

const (
	KindLiteral RuleKind = "literal"
	KindRegex   RuleKind = "regex"
)

// Rule is a single substitution. It is implemented only by Literal and
// Regex.
type Rule interface {
	Kind() RuleKind
	Pattern() string
	Replacement() string
	String() string
	sealed()
}

// Literal replaces every occurrence of From with To
type Literal struct {
	From string
	To   string
}

func (Literal) Kind() RuleKind        { return KindLiteral }
func (l Literal) Pattern() string     { return l.From }
func (l Literal) Replacement() string { return l.To }
func (l Literal) String() string      { return fmt.Sprintf("literal %q -> %q", l.From, l.To) }
func (Literal) sealed()               {}

func (l Literal) apply(name string) string {
	return strings.ReplaceAll(name, l.From, l.To)
}

// Regex replaces every match of Expr with To
type Regex struct {
	Expr string
	To   string
}

func (Regex) Kind() RuleKind        { return KindRegex }
func (r Regex) Pattern() string     { return r.Expr }
func (r Regex) Replacement() string { return r.To }
func (r Regex) String() string      { return fmt.Sprintf("regex %q -> %q", r.Expr, r.To) }
func (Regex) sealed()               {}

// NewRule builds a rule from its loosely typed form
func NewRule(pattern, replacement string, isRegex bool) Rule {
	if isRegex {
		return Regex{Expr: pattern, To: replacement}
	}
	return Literal{From: pattern, To: replacement}
}
