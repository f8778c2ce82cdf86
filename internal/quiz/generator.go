// Package quiz derives spaced-practice cards from a submitted differential and its
// feedback result. Card order is randomized per call.
package quiz

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/ddx-coach-mcp-server/internal/domain"
)

const (
	trueFalseOwnCount = 2
	maxDistractors    = 3
	minDistractors    = 2
	maxMissedRecall   = 3
)

// Generator builds quiz cards. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source used for selection and shuffling.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		if r != nil {
			g.rng = r
		}
	}
}

// WithSeed makes card selection and order reproducible. A zero seed keeps the
// non-deterministic default.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		if seed != 0 {
			g.rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
		}
	}
}

// NewGenerator creates a new Generator
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the practice cards for one attempt. The first card always asks for
// the chief complaint; every later card is shuffled.
func (g *Generator) Generate(summary domain.CaseSummary, entries []domain.DiagnosisEntry, feedback domain.FeedbackResult) []domain.QuizCard {
	g.mu.Lock()
	defer g.mu.Unlock()

	cards := []domain.QuizCard{
		domain.NewRecallCard("What was the chief complaint in this case?", summary.ChiefComplaint),
	}

	cards = append(cards, g.trueFalseCards(entries, feedback)...)

	if card, ok := g.cantMissCard(feedback); ok {
		cards = append(cards, card)
	}
	if card, ok := g.categoryCard(entries); ok {
		cards = append(cards, card)
	}

	cards = append(cards, domain.NewRecallCard(
		"How many diagnoses did you include in your differential?",
		fmt.Sprintf("%d", len(entries)),
	))

	if card, ok := missedCard(feedback); ok {
		cards = append(cards, card)
	}
	if card, ok := g.mostLikelyCard(feedback); ok {
		cards = append(cards, card)
	}

	rest := cards[1:]
	g.rng.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
	return cards
}

func (g *Generator) trueFalseCards(entries []domain.DiagnosisEntry, feedback domain.FeedbackResult) []domain.QuizCard {
	var cards []domain.QuizCard

	own := make([]string, 0, len(entries))
	for _, e := range entries {
		if name := strings.TrimSpace(e.Diagnosis); name != "" {
			own = append(own, name)
		}
	}
	for _, name := range g.sample(own, trueFalseOwnCount) {
		cards = append(cards, domain.NewTrueFalseCard(
			fmt.Sprintf("You included %s in your differential.", name),
			true,
			fmt.Sprintf("%s was on your submitted list.", name),
		))
	}

	missed := union(feedback.CommonMissed, feedback.CantMissMissed)
	for _, name := range g.sample(missed, 1) {
		cards = append(cards, domain.NewTrueFalseCard(
			fmt.Sprintf("You included %s in your differential.", name),
			false,
			fmt.Sprintf("%s was missing from your differential and belongs on it.", name),
		))
	}
	return cards
}

func (g *Generator) cantMissCard(feedback domain.FeedbackResult) (domain.QuizCard, bool) {
	cantMiss := union(feedback.CantMissHit, feedback.CantMissMissed)
	if len(cantMiss) == 0 {
		return domain.QuizCard{}, false
	}
	correct := cantMiss[g.rng.IntN(len(cantMiss))]

	isCantMiss := make(map[string]bool, len(cantMiss))
	for _, name := range cantMiss {
		isCantMiss[name] = true
	}
	var eligible []string
	for _, name := range union(feedback.CommonHit, feedback.CommonMissed) {
		if !isCantMiss[name] {
			eligible = append(eligible, name)
		}
	}
	distractors := g.sample(eligible, maxDistractors)
	if len(distractors) < minDistractors {
		return domain.QuizCard{}, false
	}

	options, idx := g.options(correct, distractors)
	return domain.NewMultipleChoiceCard(
		"Which of these is a can't-miss diagnosis for this presentation?",
		options,
		idx,
		fmt.Sprintf("%s is dangerous to overlook even when it is not the most likely cause.", correct),
	), true
}

func (g *Generator) categoryCard(entries []domain.DiagnosisEntry) (domain.QuizCard, bool) {
	for _, e := range entries {
		cats := e.Categories()
		if len(cats) == 0 || !cats[0].IsValid() {
			continue
		}
		correct := cats[0]

		var others []string
		for _, c := range domain.AllCategories() {
			if c != correct {
				others = append(others, c.Label())
			}
		}
		options, idx := g.options(correct.Label(), g.sample(others, maxDistractors))
		return domain.NewMultipleChoiceCard(
			fmt.Sprintf("Which VINDICATE category did you assign to %s?", e.Diagnosis),
			options,
			idx,
			fmt.Sprintf("You tagged %s as %s.", e.Diagnosis, correct.Label()),
		), true
	}
	return domain.QuizCard{}, false
}

func missedCard(feedback domain.FeedbackResult) (domain.QuizCard, bool) {
	if len(feedback.CantMissMissed) > 0 {
		return domain.NewRecallCard(
			"Which can't-miss diagnoses were missing from your differential?",
			strings.Join(feedback.CantMissMissed, ", "),
		), true
	}
	if len(feedback.CommonMissed) > 0 {
		missed := feedback.CommonMissed
		if len(missed) > maxMissedRecall {
			missed = missed[:maxMissedRecall]
		}
		return domain.NewRecallCard(
			"Which common diagnoses were missing from your differential?",
			strings.Join(missed, ", "),
		), true
	}
	return domain.QuizCard{}, false
}

func (g *Generator) mostLikelyCard(feedback domain.FeedbackResult) (domain.QuizCard, bool) {
	tiers := feedback.TieredDifferential
	mostLikely := tiers.Get(domain.MOST_LIKELY)
	if len(mostLikely) == 0 {
		return domain.QuizCard{}, false
	}
	correct := mostLikely[0]
	pool := union(tiers.Get(domain.MODERATE), tiers.Get(domain.LESS_LIKELY))
	distractors := g.sample(pool, maxDistractors)
	if len(distractors) < minDistractors {
		return domain.QuizCard{}, false
	}

	options, idx := g.options(correct, distractors)
	return domain.NewMultipleChoiceCard(
		"Which of these is the most likely diagnosis for this case?",
		options,
		idx,
		fmt.Sprintf("%s was in the most likely tier.", correct),
	), true
}

// sample returns up to n distinct elements of items in random order.
func (g *Generator) sample(items []string, n int) []string {
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for _, i := range g.rng.Perm(len(items))[:n] {
		out = append(out, items[i])
	}
	return out
}

// options shuffles correct in among distractors and returns its index.
func (g *Generator) options(correct string, distractors []string) ([]string, int) {
	options := append([]string{correct}, distractors...)
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	for i, o := range options {
		if o == correct {
			return options, i
		}
	}
	return options, 0
}

// union concatenates lists, keeping the first occurrence of each name.
func union(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, name := range list {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}
