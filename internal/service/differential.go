package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"

	"github.com/ddx-coach-mcp-server/internal/catalog"
	"github.com/ddx-coach-mcp-server/internal/coverage"
	"github.com/ddx-coach-mcp-server/internal/domain"
	"github.com/ddx-coach-mcp-server/internal/matcher"
	"github.com/ddx-coach-mcp-server/internal/prompts"
	"github.com/ddx-coach-mcp-server/internal/quiz"
)

const (
	defaultMinQueryLength = 2
	defaultIndexCacheSize = 256
	defaultIndexCacheTTL  = 15 * time.Minute
)

// Evaluation is a case evaluated against a submitted differential.
type Evaluation struct {
	Case     domain.CaseSummary    `json:"case"`
	Feedback domain.FeedbackResult `json:"feedback"`
}

// PracticeQuiz is an evaluation together with freshly generated cards.
type PracticeQuiz struct {
	Evaluation
	Cards []domain.QuizCard `json:"cards"`
}

// FeedbackPrompt is an evaluation together with the rendered coaching prompt.
type FeedbackPrompt struct {
	Evaluation
	Prompt string `json:"prompt"`
}

// DifferentialService orchestrates search, matching, coverage analysis and quiz
// generation. Inputs are validated here; the core packages assume well-formed data.
type DifferentialService struct {
	logger  *logrus.Logger
	catalog *catalog.Catalog
	cases   domain.CaseRepository
	results domain.ResultCache
	indexes *expirable.LRU[string, *matcher.Index]
	quiz    *quiz.Generator
	search  domain.SearchConfig
}

// Option configures a DifferentialService.
type Option func(*DifferentialService)

// WithLogger sets the logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *DifferentialService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithResultCache enables caching of case evaluations. A nil cache disables it.
func WithResultCache(c domain.ResultCache) Option {
	return func(s *DifferentialService) {
		s.results = c
	}
}

// WithIndexCache sizes the per-case alias index cache.
func WithIndexCache(size int, ttl time.Duration) Option {
	return func(s *DifferentialService) {
		if size <= 0 {
			size = defaultIndexCacheSize
		}
		if ttl <= 0 {
			ttl = defaultIndexCacheTTL
		}
		s.indexes = expirable.NewLRU[string, *matcher.Index](size, nil, ttl)
	}
}

// WithQuizGenerator sets the card generator.
func WithQuizGenerator(g *quiz.Generator) Option {
	return func(s *DifferentialService) {
		if g != nil {
			s.quiz = g
		}
	}
}

// WithSearchConfig sets the autocomplete limits and minimum query length. A zero
// minimum keeps the default.
func WithSearchConfig(cfg domain.SearchConfig) Option {
	return func(s *DifferentialService) {
		if cfg.MinQueryLength > 0 {
			s.search.MinQueryLength = cfg.MinQueryLength
		}
		if cfg.DefaultLimit > 0 {
			s.search.DefaultLimit = cfg.DefaultLimit
		}
		if cfg.MaxLimit > 0 {
			s.search.MaxLimit = cfg.MaxLimit
		}
	}
}

// NewDifferentialService creates a new differential service
func NewDifferentialService(cat *catalog.Catalog, cases domain.CaseRepository, opts ...Option) *DifferentialService {
	s := &DifferentialService{
		logger:  logrus.StandardLogger(),
		catalog: cat,
		cases:   cases,
		indexes: expirable.NewLRU[string, *matcher.Index](defaultIndexCacheSize, nil, defaultIndexCacheTTL),
		quiz:    quiz.NewGenerator(),
		search: domain.SearchConfig{
			DefaultLimit:   catalog.DefaultLimit,
			MaxLimit:       50,
			MinQueryLength: defaultMinQueryLength,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SearchDiagnoses returns ranked catalog suggestions. The limit is clamped to the
// configured maximum; a non-positive limit uses the default. Queries below the
// minimum length return an empty list.
func (s *DifferentialService) SearchDiagnoses(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(strings.TrimSpace(query)) < s.search.MinQueryLength {
		return []domain.SearchResult{}, nil
	}
	if limit <= 0 {
		limit = s.search.DefaultLimit
	}
	if limit > s.search.MaxLimit {
		limit = s.search.MaxLimit
	}
	results := s.catalog.Search(query, limit)

	s.logger.WithFields(logrus.Fields{
		"query":   query,
		"limit":   limit,
		"results": len(results),
	}).Debug("Searched diagnosis catalog")
	return results, nil
}

// MatchDifferential validates both inputs and reconciles the differential against the
// answer key.
func (s *DifferentialService) MatchDifferential(ctx context.Context, entries []domain.DiagnosisEntry, answerKey []domain.AnswerKeyEntry) (domain.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.MatchResult{}, err
	}
	entries, err := prepareEntries(entries)
	if err != nil {
		return domain.MatchResult{}, err
	}
	if err := domain.ValidateAnswerKey(answerKey); err != nil {
		return domain.MatchResult{}, err
	}

	idx := matcher.BuildIndex(answerKey)
	s.logCollisions("", idx)
	return idx.Match(entries), nil
}

// AnalyzeCoverage validates inputs and builds the feedback result for a match.
func (s *DifferentialService) AnalyzeCoverage(ctx context.Context, match domain.MatchResult, answerKey []domain.AnswerKeyEntry, entries []domain.DiagnosisEntry, mode domain.FeedbackMode) (domain.FeedbackResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.FeedbackResult{}, err
	}
	entries, err := prepareEntries(entries)
	if err != nil {
		return domain.FeedbackResult{}, err
	}
	if err := domain.ValidateAnswerKey(answerKey); err != nil {
		return domain.FeedbackResult{}, err
	}
	mode, err = resolveMode(mode)
	if err != nil {
		return domain.FeedbackResult{}, err
	}
	return coverage.AnalyzeWithMode(match, answerKey, entries, mode), nil
}

// GenerateQuizCards builds practice cards for an already evaluated attempt.
func (s *DifferentialService) GenerateQuizCards(ctx context.Context, summary domain.CaseSummary, entries []domain.DiagnosisEntry, feedback domain.FeedbackResult) ([]domain.QuizCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := prepareEntries(entries)
	if err != nil {
		return nil, err
	}
	return s.quiz.Generate(summary, entries, feedback), nil
}

// EvaluateCase matches and analyzes a differential against a stored case. Results
// are cached by case, mode and canonical entries.
func (s *DifferentialService) EvaluateCase(ctx context.Context, caseID string, entries []domain.DiagnosisEntry, mode domain.FeedbackMode) (*Evaluation, error) {
	start := time.Now()

	entries, err := prepareEntries(entries)
	if err != nil {
		return nil, err
	}
	mode, err = resolveMode(mode)
	if err != nil {
		return nil, err
	}
	c, err := s.cases.Get(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load case: %w", err)
	}

	key, err := evaluationKey(c.ID, mode, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to build cache key: %w", err)
	}
	if feedback, ok := s.cachedFeedback(ctx, key); ok {
		s.logger.WithField("case_id", c.ID).Debug("Evaluation served from cache")
		return &Evaluation{Case: c.CaseSummary, Feedback: feedback}, nil
	}

	idx := s.caseIndex(c)
	feedback := coverage.AnalyzeWithMode(idx.Match(entries), c.AnswerKey, entries, mode)
	s.storeFeedback(ctx, key, feedback)

	s.logger.WithFields(logrus.Fields{
		"case_id":       c.ID,
		"entries":       len(entries),
		"matched":       feedback.TieredDifferential.Len(),
		"unmatched":     len(feedback.Unmatched),
		"fuzzy_matched": len(feedback.FuzzyMatched),
		"covered":       feedback.CoveredCount(),
		"feedback_mode": mode,
		"duration_ms":   time.Since(start).Milliseconds(),
	}).Info("Evaluated differential")

	return &Evaluation{Case: c.CaseSummary, Feedback: feedback}, nil
}

// PracticeQuiz evaluates a differential and generates cards for it.
func (s *DifferentialService) PracticeQuiz(ctx context.Context, caseID string, entries []domain.DiagnosisEntry) (*PracticeQuiz, error) {
	eval, err := s.EvaluateCase(ctx, caseID, entries, domain.COMBINED)
	if err != nil {
		return nil, err
	}
	cards, err := s.GenerateQuizCards(ctx, eval.Case, entries, eval.Feedback)
	if err != nil {
		return nil, err
	}
	return &PracticeQuiz{Evaluation: *eval, Cards: cards}, nil
}

// FeedbackPrompt evaluates a differential and renders the narrative prompt for it.
func (s *DifferentialService) FeedbackPrompt(ctx context.Context, caseID string, entries []domain.DiagnosisEntry, mode domain.FeedbackMode) (*FeedbackPrompt, error) {
	eval, err := s.EvaluateCase(ctx, caseID, entries, mode)
	if err != nil {
		return nil, err
	}
	prompt, err := prompts.BuildFeedbackPrompt(eval.Feedback, eval.Case.ChiefComplaint, eval.Feedback.FeedbackMode)
	if err != nil {
		return nil, err
	}
	return &FeedbackPrompt{Evaluation: *eval, Prompt: prompt}, nil
}

// CheckPracticeAnswer reports whether a single-answer practice attempt names the
// correct diagnosis.
func (s *DifferentialService) CheckPracticeAnswer(ctx context.Context, diagnoses []string, correct string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if strings.TrimSpace(correct) == "" {
		return false, domain.NewValidationError("correct_diagnosis", "must not be empty", correct)
	}
	return matcher.IncludesDiagnosis(diagnoses, correct), nil
}

// ListCases returns every case summary.
func (s *DifferentialService) ListCases(ctx context.Context) ([]domain.CaseSummary, error) {
	return s.cases.List(ctx)
}

// GetCase returns a case including its answer key.
func (s *DifferentialService) GetCase(ctx context.Context, id string) (*domain.Case, error) {
	return s.cases.Get(ctx, id)
}

// Categories returns the VINDICATE taxonomy.
func (s *DifferentialService) Categories() []domain.CategoryInfo {
	return domain.CategoryInfos()
}

// ResultCacheStats returns the result cache counters. ok is false when caching is
// disabled or the cache keeps no counters.
func (s *DifferentialService) ResultCacheStats() (stats domain.CacheStats, ok bool) {
	r, ok := s.results.(domain.CacheReporter)
	if !ok {
		return domain.CacheStats{}, false
	}
	return r.Stats(), true
}

// Catalog returns the term catalog.
func (s *DifferentialService) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *DifferentialService) caseIndex(c *domain.Case) *matcher.Index {
	if idx, ok := s.indexes.Get(c.ID); ok {
		return idx
	}
	idx := matcher.BuildIndex(c.AnswerKey)
	s.logCollisions(c.ID, idx)
	s.indexes.Add(c.ID, idx)
	s.logger.WithFields(logrus.Fields{
		"case_id": c.ID,
		"aliases": idx.Len(),
	}).Debug("Built answer key index")
	return idx
}

func (s *DifferentialService) logCollisions(caseID string, idx *matcher.Index) {
	for _, col := range idx.Collisions() {
		s.logger.WithFields(logrus.Fields{
			"case_id": caseID,
			"alias":   col.Alias,
			"kept":    col.Kept,
			"dropped": col.Dropped,
		}).Warn("Answer key alias shared by multiple diagnoses")
	}
}

func (s *DifferentialService) cachedFeedback(ctx context.Context, key string) (domain.FeedbackResult, bool) {
	var feedback domain.FeedbackResult
	if s.results == nil {
		return feedback, false
	}
	data, ok := s.results.Get(ctx, key)
	if !ok {
		return feedback, false
	}
	if err := json.Unmarshal(data, &feedback); err != nil {
		s.logger.WithError(err).Warn("Discarding unreadable cached evaluation")
		return domain.FeedbackResult{}, false
	}
	return feedback, true
}

func (s *DifferentialService) storeFeedback(ctx context.Context, key string, feedback domain.FeedbackResult) {
	if s.results == nil {
		return
	}
	data, err := json.Marshal(feedback)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to encode evaluation for cache")
		return
	}
	if err := s.results.Set(ctx, key, data); err != nil {
		s.logger.WithError(err).Warn("Failed to cache evaluation")
	}
}

// prepareEntries validates entries and returns them in canonical order.
func prepareEntries(entries []domain.DiagnosisEntry) ([]domain.DiagnosisEntry, error) {
	if err := domain.ValidateDifferential(entries); err != nil {
		return nil, err
	}
	return domain.CanonicalizeDifferential(entries), nil
}

func resolveMode(mode domain.FeedbackMode) (domain.FeedbackMode, error) {
	if mode == "" {
		return domain.COMBINED, nil
	}
	if !mode.IsValid() {
		return "", domain.NewValidationError("feedback_mode", "must be breadth, cant_miss or combined", string(mode))
	}
	return mode, nil
}

func evaluationKey(caseID string, mode domain.FeedbackMode, entries []domain.DiagnosisEntry) (string, error) {
	payload, err := json.Marshal(struct {
		CaseID  string                  `json:"case_id"`
		Mode    domain.FeedbackMode     `json:"mode"`
		Entries []domain.DiagnosisEntry `json:"entries"`
	}{caseID, mode, entries})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
