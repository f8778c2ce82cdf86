package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ddx-coach-mcp-server/internal/domain"
)

type differentialRequest struct {
	Diagnoses    []domain.DiagnosisEntry `json:"diagnoses"`
	AnswerKey    []domain.AnswerKeyEntry `json:"answer_key"`
	FeedbackMode domain.FeedbackMode     `json:"feedback_mode,omitempty"`
}

type quizRequest struct {
	Case      domain.CaseSummary      `json:"case"`
	Diagnoses []domain.DiagnosisEntry `json:"diagnoses"`
	Feedback  domain.FeedbackResult   `json:"feedback"`
}

type caseRequest struct {
	Diagnoses    []domain.DiagnosisEntry `json:"diagnoses"`
	FeedbackMode domain.FeedbackMode     `json:"feedback_mode,omitempty"`
}

type practiceCheckRequest struct {
	Diagnoses        []string `json:"diagnoses"`
	CorrectDiagnosis string   `json:"correct_diagnosis"`
}

func (s *Server) handleSearch(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(c, domain.NewValidationError("limit", "must be an integer", raw))
			return
		}
		limit = n
	}

	results, err := s.service.SearchDiagnoses(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) handleTaxonomy(c *gin.Context) {
	tiers := make([]gin.H, 0, len(domain.AllTiers()))
	for _, t := range domain.AllTiers() {
		tiers = append(tiers, gin.H{"code": t, "label": t.Label()})
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": s.service.Categories(),
		"tiers":      tiers,
	})
}

func (s *Server) handleMatch(c *gin.Context) {
	var req differentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, invalidInput(err))
		return
	}

	result, err := s.service.MatchDifferential(c.Request.Context(), req.Diagnoses, req.AnswerKey)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req differentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, invalidInput(err))
		return
	}

	ctx := c.Request.Context()
	match, err := s.service.MatchDifferential(ctx, req.Diagnoses, req.AnswerKey)
	if err != nil {
		s.writeError(c, err)
		return
	}
	feedback, err := s.service.AnalyzeCoverage(ctx, match, req.AnswerKey, req.Diagnoses, req.FeedbackMode)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"match": match, "feedback": feedback})
}

func (s *Server) handleQuiz(c *gin.Context) {
	var req quizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, invalidInput(err))
		return
	}

	cards, err := s.service.GenerateQuizCards(c.Request.Context(), req.Case, req.Diagnoses, req.Feedback)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards})
}

func (s *Server) handleListCases(c *gin.Context) {
	cases, err := s.service.ListCases(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cases": cases})
}

// handleGetCase withholds the answer key
func (s *Server) handleGetCase(c *gin.Context) {
	found, err := s.service.GetCase(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, found.CaseSummary)
}

func (s *Server) handleEvaluateCase(c *gin.Context) {
	var req caseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, invalidInput(err))
		return
	}

	eval, err := s.service.EvaluateCase(c.Request.Context(), c.Param("id"), req.Diagnoses, req.FeedbackMode)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, eval)
}

func (s *Server) handleCaseQuiz(c *gin.Context) {
	var req caseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, invalidInput(err))
		return
	}

	quiz, err := s.service.PracticeQuiz(c.Request.Context(), c.Param("id"), req.Diagnoses)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (s *Server) handleCasePrompt(c *gin.Context) {
	var req caseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, invalidInput(err))
		return
	}

	prompt, err := s.service.FeedbackPrompt(c.Request.Context(), c.Param("id"), req.Diagnoses, req.FeedbackMode)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, prompt)
}

func (s *Server) handlePracticeCheck(c *gin.Context) {
	var req practiceCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, invalidInput(err))
		return
	}

	ok, err := s.service.CheckPracticeAnswer(c.Request.Context(), req.Diagnoses, req.CorrectDiagnosis)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"correct": ok})
}
