package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Policy canonicalizes raw transcript text before word-level comparison.
// Implementations are pure: the same input always yields the same output and
// no state is shared between calls.
type Policy interface {
	Name() string
	Normalize(s string) string
}

// Words applies a policy and splits the result on whitespace.
func Words(p Policy, s string) []string {
	return strings.Fields(p.Normalize(s))
}

// ForName resolves a policy by its configuration name. Unknown names are a
// configuration error and must be rejected before any sample is processed.
func ForName(name string) (Policy, error) {
	switch name {
	case "none":
		return nonePolicy{}, nil
	case "basic":
		return basicPolicy{}, nil
	case "english":
		return englishPolicy{}, nil
	}
	return nil, fmt.Errorf("unknown normalizer %q (want one of none|basic|english)", name)
}

// nonePolicy strips typographic punctuation that STT vendors rarely emit but
// transcripts sometimes carry, and nothing else. No case folding.
type nonePolicy struct{}

const smartPunctuation = "“”„‘’—–…"

func (nonePolicy) Name() string { return "none" }

func (nonePolicy) Normalize(s string) string {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(smartPunctuation, r) {
			return -1
		}
		return r
	}, s)
	return strings.ReplaceAll(s, "...", "")
}

var (
	bracketSpans = regexp.MustCompile(`\[[^\]]*\]|<[^>]*>`)
	parenSpans   = regexp.MustCompile(`\([^)]*\)`)
	spaceRuns    = regexp.MustCompile(`\s+`)
)

// basicPolicy lowercases, drops annotation spans, strips diacritics and maps
// punctuation and symbol runes to spaces.
type basicPolicy struct{}

func (basicPolicy) Name() string { return "basic" }

func (basicPolicy) Normalize(s string) string {
	s = strings.ToLower(s)
	s = bracketSpans.ReplaceAllString(s, "")
	s = parenSpans.ReplaceAllString(s, "")
	s = stripSymbols(s)
	return collapse(s)
}

func stripSymbols(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFKD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark from decomposition, drop
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRuns.ReplaceAllString(s, " "))
}

// englishPolicy extends the basic policy with rule tables that expand
// contractions, title abbreviations and common spoken forms to one canonical
// written form.
type englishPolicy struct{}

func (englishPolicy) Name() string { return "english" }

type rewriteRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Applied before apostrophes are stripped. Irregular forms come first so the
// generic n't rule cannot mangle them.
var contractionRules = []rewriteRule{
	{regexp.MustCompile(`\bwon't\b`), "will not"},
	{regexp.MustCompile(`\bcan't\b`), "can not"},
	{regexp.MustCompile(`\bshan't\b`), "shall not"},
	{regexp.MustCompile(`\bain't\b`), "are not"},
	{regexp.MustCompile(`\blet's\b`), "let us"},
	{regexp.MustCompile(`n't\b`), " not"},
	{regexp.MustCompile(`'re\b`), " are"},
	{regexp.MustCompile(`'ve\b`), " have"},
	{regexp.MustCompile(`'ll\b`), " will"},
	{regexp.MustCompile(`'m\b`), " am"},
	{regexp.MustCompile(`'d\b`), " would"},
}

var joinApostrophe = regexp.MustCompile(`(\p{L})'(\p{L})`)

var symbolWords = strings.NewReplacer(
	"%", " percent ",
	"&", " and ",
	"+", " plus ",
	"@", " at ",
)

var wordRewrites = map[string]string{
	"mr":    "mister",
	"mrs":   "missus",
	"dr":    "doctor",
	"prof":  "professor",
	"capt":  "captain",
	"gonna": "going to",
	"wanna": "want to",
	"gotta": "got to",
	"0":     "zero",
	"1":     "one",
	"2":     "two",
	"3":     "three",
	"4":     "four",
	"5":     "five",
	"6":     "six",
	"7":     "seven",
	"8":     "eight",
	"9":     "nine",
	"1st":   "first",
	"2nd":   "second",
	"3rd":   "third",
}

func (englishPolicy) Normalize(s string) string {
	s = strings.ToLower(s)
	s = bracketSpans.ReplaceAllString(s, "")
	s = parenSpans.ReplaceAllString(s, "")
	for _, rule := range contractionRules {
		s = rule.pattern.ReplaceAllString(s, rule.replacement)
	}
	s = joinApostrophe.ReplaceAllString(s, "$1$2")
	s = symbolWords.Replace(s)
	s = stripSymbols(s)

	words := strings.Fields(s)
	for i, w := range words {
		if repl, ok := wordRewrites[w]; ok {
			words[i] = repl
		}
	}
	return strings.Join(words, " ")
}
