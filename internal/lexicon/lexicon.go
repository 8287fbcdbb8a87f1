// Package lexicon turns free-form Russian queries into the category and
// intent signals the recommender ranks against. Detection is a
// substring pass over the whole query (multi-pattern Aho-Corasick)
// plus a mutual-prefix pass over individual tokens, which tolerates
// the trailing inflection of Russian word forms.
package lexicon

import (
	"strings"
	"unicode"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"github.com/socnav/socnav/internal/catalog"
)

// Intent is a high-priority query subtype inside a category.
type Intent string

const (
	IntentDental   Intent = "dental"
	IntentLibrary  Intent = "library"
	IntentHeadache Intent = "headache"
	IntentClinic   Intent = "clinic"
)

// stopWords are short connectives dropped during tokenization.
var stopWords = map[string]bool{
	"к": true, "до": true, "на": true, "в": true, "по": true, "из": true, "от": true,
}

var categoryTerms = map[catalog.Category][]string{
	catalog.CategoryHealthcare: {
		"больниц", "поликлиник", "клиник", "стоматолог", "стоматологич",
		"зуб", "врач", "доктор", "мед", "здоров", "терапевт", "педиатр", "хирург",
	},
	catalog.CategoryCulture: {
		"библиотек", "книга", "книг", "читать", "чтен", "культура",
		"музей", "театр", "концерт", "творч", "клуб", "досуг",
	},
	catalog.CategorySocial: {
		"соц", "социальн", "поддержк", "пособие", "центр развития",
		"соцзащ", "служба", "опека",
	},
	catalog.CategoryMarket: {
		"магазин", "рынок", "покупк", "товар", "услуг", "супермаркет", "торгов",
	},
}

var intentTerms = map[Intent][]string{
	IntentDental:   {"зуб", "зубы", "стоматолог", "стоматологич", "пломб", "кариес"},
	IntentLibrary:  {"библиотек", "книга", "книг", "читать", "чтени", "читаль"},
	IntentHeadache: {"головн", "голова", "мигрен", "температур", "тошн", "головокруж"},
	IntentClinic:   {"поликлиник", "больниц", "врач", "доктор", "медцентр", "больцу", "больца", "к врачу"},
}

// Analysis is the detection result for one query.
type Analysis struct {
	Query      string
	Tokens     []string
	Categories map[catalog.Category]bool
	Intents    map[Intent]bool
}

// Empty reports whether the query carried no usable text.
func (a Analysis) Empty() bool {
	return a.Query == "" && len(a.Tokens) == 0
}

// HasIntent reports whether the given intent was detected.
func (a Analysis) HasIntent(i Intent) bool { return a.Intents[i] }

// ForcesHealthcare reports whether the query is a symptom or a
// see-a-doctor request, which overrides any category selection.
func (a Analysis) ForcesHealthcare() bool {
	return a.Intents[IntentHeadache] || a.Intents[IntentClinic]
}

// Analyzer holds the compiled lexicon matchers. Build once, share.
type Analyzer struct {
	categoryMatcher ahocorasick.AhoCorasick
	categoryOf      []catalog.Category
	intentMatcher   ahocorasick.AhoCorasick
	intentOf        []Intent
}

// NewAnalyzer compiles the lexicons into multi-pattern matchers.
func NewAnalyzer() *Analyzer {
	a := &Analyzer{}

	var catPatterns []string
	for _, cat := range catalog.Categories {
		for _, term := range categoryTerms[cat] {
			catPatterns = append(catPatterns, term)
			a.categoryOf = append(a.categoryOf, cat)
		}
	}

	var intentPatterns []string
	for _, intent := range []Intent{IntentDental, IntentLibrary, IntentHeadache, IntentClinic} {
		for _, term := range intentTerms[intent] {
			intentPatterns = append(intentPatterns, term)
			a.intentOf = append(a.intentOf, intent)
		}
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchKind:            ahocorasick.StandardMatch,
	})
	a.categoryMatcher = builder.Build(catPatterns)
	a.intentMatcher = builder.Build(intentPatterns)
	return a
}

// Analyze lowercases and tokenizes the query and runs both detectors.
func (a *Analyzer) Analyze(query string) Analysis {
	normalized := strings.ToLower(strings.TrimSpace(query))
	tokens := Tokenize(normalized)

	res := Analysis{
		Query:      normalized,
		Tokens:     tokens,
		Categories: make(map[catalog.Category]bool),
		Intents:    make(map[Intent]bool),
	}

	for _, m := range a.categoryMatcher.FindAll(normalized) {
		res.Categories[a.categoryOf[m.Pattern()]] = true
	}
	for _, m := range a.intentMatcher.FindAll(normalized) {
		res.Intents[a.intentOf[m.Pattern()]] = true
	}

	// Token pass: catches forms the substring pass misses, where the
	// token and the lexicon term are prefixes of one another.
	for cat, terms := range categoryTerms {
		if res.Categories[cat] {
			continue
		}
		if anyTokenMatches(tokens, terms) {
			res.Categories[cat] = true
		}
	}
	for intent, terms := range intentTerms {
		if res.Intents[intent] {
			continue
		}
		if anyTokenMatches(tokens, terms) {
			res.Intents[intent] = true
		}
	}

	return res
}

func anyTokenMatches(tokens, terms []string) bool {
	for _, t := range tokens {
		for _, term := range terms {
			if strings.HasPrefix(t, term) || strings.HasPrefix(term, t) {
				return true
			}
		}
	}
	return false
}

// Tokenize splits on non-letter/digit runs and drops stop words and
// tokens shorter than three runes.
func Tokenize(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 3 || stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Variants returns the token plus its stem-like truncations: one rune
// off for tokens longer than five runes, two off for longer than six.
func Variants(token string) []string {
	runes := []rune(token)
	variants := []string{token}
	if len(runes) > 5 {
		variants = append(variants, string(runes[:len(runes)-1]))
	}
	if len(runes) > 6 {
		variants = append(variants, string(runes[:len(runes)-2]))
	}
	return variants
}
