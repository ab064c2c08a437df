// Package sanitize rewrites accumulated directory names through an ordered
// list of substitution rules.
//
// A rule is either a Literal substring replacement or a Regex substitution.
// Rules compose left to right: every rule sees the output of the rule
// before it, never the original input. Regex rules are compiled with
// github.com/dlclark/regexp2, which supports backreferences inside the
// pattern (for example `^assets_rws\+\+(.*?)\+\+\1$`). Replacements refer
// to groups as $1, ${1} or ${name}; a \1 style reference would be copied
// literally, so such a rule is skipped with a warning.
//
// A rule that cannot be used, such as a regex that does not compile, is
// reported as an events.RuleSkipped warning and left out. It never stops a
// run.
//
//	s := sanitize.New([]sanitize.Rule{
//		sanitize.Literal{From: "build++PS3++pal_en", To: "EU_EN"},
//		sanitize.Regex{Expr: `^audio\+\+`, To: ""},
//	})
//	s.Sanitize("audio++voices") // "voices"
package sanitize
