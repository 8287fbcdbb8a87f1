// Package recommend picks the single best destination for a query: it
// narrows the catalog by category and intent, enforces the visitor's
// accessibility profile, scores text relevance and trades score
// against straight-line distance.
package recommend

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/socnav/socnav/internal/catalog"
	"github.com/socnav/socnav/internal/geo"
	"github.com/socnav/socnav/internal/lexicon"
)

var (
	// ErrNoMatch means no destination fits the query at all.
	ErrNoMatch = errors.New("no matching destination")
	// ErrNoAccessible means destinations matched but none satisfies the
	// visitor's accessibility profile. Callers surface this distinctly.
	ErrNoAccessible = errors.New("no accessible destination for profile")
)

// dentalMarkers identify dentistry objects by their card text. Used
// both for the symptom-query penalty and for intent narrowing.
var dentalMarkers = []string{"зуб", "стоматолог", "стоматологич", "кариес", "пломб", "ортодонт"}

var intentObjectMarkers = map[lexicon.Intent][]string{
	lexicon.IntentDental:  {"зуб", "стоматолог", "стоматологич", "кариес", "пломб"},
	lexicon.IntentLibrary: {"библиотек", "книга", "читаль", "чтен"},
}

const (
	intentMatchBonus  = 10.0
	dentalPenalty     = 8.0
	healthcareBonus   = 4.0
	nameWeight        = 3.0
	addressWeight     = 2.0
	descriptionWeight = 1.0
)

// Config carries the ranking knobs. The defaults reproduce the
// product's tuned behavior; override only with measurement in hand.
type Config struct {
	// ScoreMargin is the score band inside which a closer destination
	// may win over a slightly better-scoring one.
	ScoreMargin float64
	// DistanceMarginKm is how much closer a candidate must be to win
	// on distance inside the score band.
	DistanceMarginKm float64

	Logger zerolog.Logger
}

// Catalog is the destination pool the selector ranks over.
type Catalog interface {
	FilterCategories(set map[catalog.Category]bool) []catalog.Destination
}

// Selector ranks catalog destinations for analyzed queries.
type Selector struct {
	catalog          Catalog
	scoreMargin      float64
	distanceMarginKm float64
	logger           zerolog.Logger
}

// NewSelector builds a selector, filling config defaults.
func NewSelector(c Catalog, cfg Config) *Selector {
	if cfg.ScoreMargin <= 0 {
		cfg.ScoreMargin = 1.0
	}
	if cfg.DistanceMarginKm <= 0 {
		cfg.DistanceMarginKm = 0.2
	}
	return &Selector{
		catalog:          c,
		scoreMargin:      cfg.ScoreMargin,
		distanceMarginKm: cfg.DistanceMarginKm,
		logger:           cfg.Logger,
	}
}

// Request is one selection task.
type Request struct {
	Analysis lexicon.Analysis
	// Categories is the visitor's explicit category selection. Used
	// only when the query text detects no category itself.
	Categories map[catalog.Category]bool
	Profile    catalog.Profile
	Origin     geo.Point
}

// Selection is the chosen destination with its ranking facts.
type Selection struct {
	Destination catalog.Destination
	DistanceKm  float64
	Score       float64
}

// Select returns the best destination for the request, or ErrNoMatch /
// ErrNoAccessible.
func (s *Selector) Select(ctx context.Context, req Request) (Selection, error) {
	if err := ctx.Err(); err != nil {
		return Selection{}, err
	}

	allowed := s.allowedCategories(req)
	base := s.catalog.FilterCategories(allowed)
	if len(base) == 0 {
		return Selection{}, ErrNoMatch
	}

	pool := s.narrowByIntent(base, req.Analysis)

	// With a declared profile only accessible destinations may win.
	accessible := pool
	if !req.Profile.Empty() {
		accessible = accessible[:0:0]
		for _, d := range pool {
			if d.IsAccessible(req.Profile) {
				accessible = append(accessible, d)
			}
		}
		if len(accessible) == 0 {
			return Selection{}, ErrNoAccessible
		}
	}

	best, ok := s.pick(accessible, req)
	if !ok {
		return Selection{}, ErrNoMatch
	}

	s.logger.Debug().
		Str("destination_id", best.Destination.ID).
		Float64("score", best.Score).
		Float64("distance_km", best.DistanceKm).
		Int("pool_size", len(accessible)).
		Msg("destination selected")

	return best, nil
}

func (s *Selector) allowedCategories(req Request) map[catalog.Category]bool {
	if req.Analysis.ForcesHealthcare() {
		return map[catalog.Category]bool{catalog.CategoryHealthcare: true}
	}
	if len(req.Analysis.Categories) > 0 {
		return req.Analysis.Categories
	}
	if len(req.Categories) > 0 {
		return req.Categories
	}
	return nil // no constraint
}

// narrowByIntent keeps only intent-matching destinations when any
// exist, falling back to the whole pool otherwise. Symptom queries get
// the stricter ladder: non-dental healthcare, then any healthcare,
// then everything.
func (s *Selector) narrowByIntent(base []catalog.Destination, analysis lexicon.Analysis) []catalog.Destination {
	if len(analysis.Intents) == 0 {
		return base
	}

	if analysis.ForcesHealthcare() {
		var nonDental, healthcare []catalog.Destination
		for _, d := range base {
			if d.Category != catalog.CategoryHealthcare {
				continue
			}
			healthcare = append(healthcare, d)
			if !containsAny(cardText(d), dentalMarkers) {
				nonDental = append(nonDental, d)
			}
		}
		if len(nonDental) > 0 {
			return nonDental
		}
		if len(healthcare) > 0 {
			return healthcare
		}
		return base
	}

	var matched []catalog.Destination
	for _, d := range base {
		if matchesIntent(d, analysis) {
			matched = append(matched, d)
		}
	}
	if len(matched) > 0 {
		return matched
	}
	return base
}

// pick runs the tier relaxation and the score/distance trade-off.
// Symptom queries skip tiering and take the strictly nearest candidate.
func (s *Selector) pick(pool []catalog.Destination, req Request) (Selection, bool) {
	if len(pool) == 0 {
		return Selection{}, false
	}

	if req.Analysis.ForcesHealthcare() {
		best := Selection{}
		for _, d := range pool {
			dist := geo.DistanceKm(req.Origin, d.Position)
			if best.Destination.ID == "" || dist < best.DistanceKm {
				best = Selection{Destination: d, DistanceKm: dist}
			}
		}
		return best, true
	}

	scores := make([]float64, len(pool))
	for i, d := range pool {
		scores[i] = s.score(d, req.Analysis)
	}

	pickFrom := pool
	pickScores := scores
	for _, tier := range [][]int{
		filterIdx(pool, scores, func(d catalog.Destination, sc float64) bool {
			return d.IsAccessible(req.Profile) && sc > 0
		}),
		filterIdx(pool, scores, func(d catalog.Destination, sc float64) bool { return sc > 0 }),
		filterIdx(pool, scores, func(d catalog.Destination, sc float64) bool {
			return d.IsAccessible(req.Profile)
		}),
	} {
		if len(tier) > 0 {
			pickFrom = make([]catalog.Destination, len(tier))
			pickScores = make([]float64, len(tier))
			for i, idx := range tier {
				pickFrom[i] = pool[idx]
				pickScores[i] = scores[idx]
			}
			break
		}
	}

	var best Selection
	haveBest := false
	for i, d := range pickFrom {
		dist := geo.DistanceKm(req.Origin, d.Position)
		cand := Selection{Destination: d, DistanceKm: dist, Score: pickScores[i]}
		if !haveBest {
			best = cand
			haveBest = true
			continue
		}
		scoreDiff := cand.Score - best.Score
		closerWithinBand := abs(scoreDiff) <= s.scoreMargin &&
			cand.DistanceKm < best.DistanceKm-s.distanceMarginKm
		if cand.Score > best.Score || closerWithinBand {
			best = cand
		}
	}
	return best, haveBest
}

// score is the text relevance of one destination: weighted
// token-variant hits over name, address and description, plus the
// intent bonus and the symptom-query dental penalty.
func (s *Selector) score(d catalog.Destination, analysis lexicon.Analysis) float64 {
	if analysis.Empty() {
		return 0
	}

	score := float64(countTokenHits(d.Name, analysis.Tokens))*nameWeight +
		float64(countTokenHits(d.Address, analysis.Tokens))*addressWeight +
		float64(countTokenHits(d.Description, analysis.Tokens))*descriptionWeight

	if matchesIntent(d, analysis) {
		score += intentMatchBonus
	}
	if analysis.ForcesHealthcare() {
		isDental := containsAny(cardText(d), dentalMarkers)
		if isDental {
			score -= dentalPenalty
		}
		if d.Category == catalog.CategoryHealthcare && !isDental {
			score += healthcareBonus
		}
	}
	return score
}

func matchesIntent(d catalog.Destination, analysis lexicon.Analysis) bool {
	if len(analysis.Intents) == 0 {
		return false
	}
	text := cardText(d)
	for intent, markers := range intentObjectMarkers {
		if analysis.HasIntent(intent) && containsAny(text, markers) {
			return true
		}
	}
	if analysis.HasIntent(lexicon.IntentHeadache) &&
		d.Category == catalog.CategoryHealthcare && !containsAny(text, dentalMarkers) {
		return true
	}
	if analysis.HasIntent(lexicon.IntentClinic) && d.Category == catalog.CategoryHealthcare {
		return true
	}
	return false
}

func countTokenHits(text string, tokens []string) int {
	if len(tokens) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	hits := 0
	for _, token := range tokens {
		for _, v := range lexicon.Variants(token) {
			if v != "" && strings.Contains(lower, v) {
				hits++
			}
		}
	}
	return hits
}

func cardText(d catalog.Destination) string {
	return strings.ToLower(d.Name + " " + d.Address + " " + d.Description)
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

func filterIdx(pool []catalog.Destination, scores []float64, keep func(catalog.Destination, float64) bool) []int {
	var out []int
	for i, d := range pool {
		if keep(d, scores[i]) {
			out = append(out, i)
		}
	}
	return out
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
