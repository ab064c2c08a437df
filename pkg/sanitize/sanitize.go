package sanitize

import (
	"time"

	"github.com/arthur-debert/flatdir/pkg/errors"
	"github.com/arthur-debert/flatdir/pkg/events"
	"github.com/dlclark/regexp2"
)

// DefaultMatchTimeout bounds a single regex evaluation
const DefaultMatchTimeout = time.Second

// backslashGroupRef matches a \1 style group reference that is not itself
// escaped. regexp2 would insert it literally.
var backslashGroupRef = regexp2.MustCompile(`(?<!\\)(?:\\\\)*\\\d`, regexp2.None)

type compiledRule struct {
	index int
	rule  Rule
	re    *regexp2.Regexp
}

// Skipped records a rule left out of the active list
type Skipped struct {
	Index int
	Rule  Rule
	Err   error
}

// Step is one rule evaluated by Trace
type Step struct {
	Index   int
	Rule    Rule
	Before  string
	After   string
	Applied bool
	Err     error
}

// Sanitizer applies an ordered rule list to names. It is safe for
// concurrent use once constructed.
type Sanitizer struct {
	rules    []compiledRule
	all      []Rule
	skipped  []Skipped
	observer events.Observer
	timeout  time.Duration
}

// Option configures a Sanitizer
type Option func(*Sanitizer)

// WithObserver sends RuleApplied and RuleSkipped events to o
func WithObserver(o events.Observer) Option {
	return func(s *Sanitizer) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithMatchTimeout overrides DefaultMatchTimeout
func WithMatchTimeout(d time.Duration) Option {
	return func(s *Sanitizer) {
		s.timeout = d
	}
}

// New compiles rules in order. Unusable rules are reported and skipped.
func New(rules []Rule, opts ...Option) *Sanitizer {
	s := &Sanitizer{
		observer: events.Discard,
		timeout:  DefaultMatchTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.all = append([]Rule(nil), rules...)
	for i, rule := range rules {
		compiled, err := s.compile(i, rule)
		if err != nil {
			s.skip(i, rule, err)
			continue
		}
		s.rules = append(s.rules, compiled)
	}
	return s
}

func (s *Sanitizer) compile(i int, rule Rule) (compiledRule, error) {
	switch r := rule.(type) {
	case Literal:
		if r.From == "" {
			return compiledRule{}, errors.New(errors.ErrRuleInvalid, "literal rule has an empty pattern")
		}
		return compiledRule{index: i, rule: r}, nil
	case Regex:
		if r.Expr == "" {
			return compiledRule{}, errors.New(errors.ErrRuleInvalid, "regex rule has an empty pattern")
		}
		re, err := regexp2.Compile(r.Expr, regexp2.None)
		if err != nil {
			return compiledRule{}, errors.Wrapf(err, errors.ErrRuleInvalid, "invalid regex %q", r.Expr)
		}
		if bad, _ := backslashGroupRef.MatchString(r.To); bad {
			return compiledRule{}, errors.Newf(errors.ErrRuleInvalid,
				"replacement %q refers to a group as \\N; use ${N} instead", r.To).
				WithDetail("replacement", r.To)
		}
		re.MatchTimeout = s.timeout
		return compiledRule{index: i, rule: r, re: re}, nil
	default:
		return compiledRule{}, errors.Newf(errors.ErrRuleInvalid, "unsupported rule type %T", rule)
	}
}

func (s *Sanitizer) skip(i int, rule Rule, err error) {
	s.skipped = append(s.skipped, Skipped{Index: i, Rule: rule, Err: err})
	ev := events.Event{Kind: events.RuleSkipped, RuleIndex: i, Err: err}
	if rule != nil {
		ev.Pattern = rule.Pattern()
		ev.Replacement = rule.Replacement()
	}
	s.observer.Observe(ev)
}

// Rules returns the configured rules, including skipped ones
func (s *Sanitizer) Rules() []Rule {
	return append([]Rule(nil), s.all...)
}

// Skipped returns the rules left out at construction
func (s *Sanitizer) Skipped() []Skipped {
	return append([]Skipped(nil), s.skipped...)
}

// Sanitize runs name through every active rule in order
func (s *Sanitizer) Sanitize(name string) string {
	out, _ := s.run(name, false)
	return out
}

// Trace is Sanitize that also reports what each rule did
func (s *Sanitizer) Trace(name string) (string, []Step) {
	return s.run(name, true)
}

func (s *Sanitizer) run(name string, trace bool) (string, []Step) {
	var steps []Step
	out := name
	for _, cr := range s.rules {
		before := out
		after, err := cr.apply(before)
		if err != nil {
			// Evaluation failures (e.g. a timeout) skip only this rule
			// for this name.
			s.observer.Observe(events.Event{
				Kind:        events.RuleSkipped,
				RuleIndex:   cr.index,
				Pattern:     cr.rule.Pattern(),
				Replacement: cr.rule.Replacement(),
				Before:      before,
				Err:         errors.Wrapf(err, errors.ErrRuleInvalid, "rule %d failed", cr.index),
			})
			after = before
		}
		if after != before {
			s.observer.Observe(events.Event{
				Kind:        events.RuleApplied,
				RuleIndex:   cr.index,
				Pattern:     cr.rule.Pattern(),
				Replacement: cr.rule.Replacement(),
				Before:      before,
				After:       after,
			})
		}
		if trace {
			steps = append(steps, Step{
				Index:   cr.index,
				Rule:    cr.rule,
				Before:  before,
				After:   after,
				Applied: after != before,
				Err:     err,
			})
		}
		out = after
	}
	return out, steps
}

func (cr compiledRule) apply(name string) (string, error) {
	switch r := cr.rule.(type) {
	case Literal:
		return r.apply(name), nil
	case Regex:
		return cr.re.Replace(name, r.To, -1, -1)
	}
	return name, nil
}
