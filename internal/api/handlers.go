package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/admitflow/admitflow/internal/attempts"
	"github.com/admitflow/admitflow/internal/llm"
	"github.com/admitflow/admitflow/internal/progression"
	"github.com/admitflow/admitflow/internal/review"
	"github.com/admitflow/admitflow/internal/session"
	"github.com/admitflow/admitflow/internal/store"
)

/*** DTOs ***/

type AttemptDTO struct {
	ID             string     `json:"id"`
	StudentID      string     `json:"student_id"`
	Subject        string     `json:"subject"`
	Level          string     `json:"level"`
	Result         string     `json:"result"`
	AttemptsEasy   int        `json:"attempts_easy"`
	AttemptsMedium int        `json:"attempts_medium"`
	AttemptsHard   int        `json:"attempts_hard"`
	CreatedAt      time.Time  `json:"created_at"`
	ScoredAt       *time.Time `json:"scored_at,omitempty"`
}

func toAttemptDTO(r *attempts.Record) AttemptDTO {
	return AttemptDTO{
		ID:             r.ID,
		StudentID:      r.StudentID,
		Subject:        string(r.Subject),
		Level:          string(r.Level),
		Result:         string(r.Result),
		AttemptsEasy:   r.AttemptsEasy,
		AttemptsMedium: r.AttemptsMedium,
		AttemptsHard:   r.AttemptsHard,
		CreatedAt:      r.CreatedAt,
		ScoredAt:       r.ScoredAt,
	}
}

type StartAttemptReq struct {
	Subject string `json:"subject" binding:"required"`
	Level   string `json:"level" binding:"required"`
}

type ScoreAttemptReq struct {
	Result string `json:"result" binding:"required,oneof=pass fail"`
}

type ReviewReq struct {
	Subject string `json:"subject" binding:"required"`
	Level   string `json:"level" binding:"required"`
}

/*** Handlers ***/

func (s *Server) getProgression(c *gin.Context) {
	studentID := c.Param("id")

	raw := c.Query("subject")
	if raw == "" {
		overview, err := s.sessions.Overview(c.Request.Context(), studentID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"student_id": studentID, "subjects": overview})
		return
	}

	subject, err := attempts.ParseSubject(raw)
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := s.sessions.Progress(c.Request.Context(), studentID, subject)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) listAttempts(c *gin.Context) {
	recs, err := s.sessions.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]AttemptDTO, 0, len(recs))
	for i := range recs {
		out = append(out, toAttemptDTO(&recs[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) startAttempt(c *gin.Context) {
	var req StartAttemptReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request: " + err.Error()})
		return
	}

	started, err := s.sessions.Start(c.Request.Context(), attempts.StartInput{
		StudentID: c.Param("id"),
		Subject:   req.Subject,
		Level:     req.Level,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusCreated
	if started.Resumed {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"attempt": toAttemptDTO(started.Attempt),
		"resumed": started.Resumed,
	})
}

func (s *Server) scoreAttempt(c *gin.Context) {
	var req ScoreAttemptReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request: result must be pass or fail"})
		return
	}

	rec, err := s.sessions.Score(c.Request.Context(), c.Param("id"), attempts.Result(req.Result))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAttemptDTO(rec))
}

func (s *Server) generateReview(c *gin.Context) {
	if s.reviews == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no LLM provider configured"})
		return
	}

	var req ReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request: " + err.Error()})
		return
	}
	subject, err := attempts.ParseSubject(req.Subject)
	if err != nil {
		writeError(c, err)
		return
	}
	level, err := attempts.ParseLevel(req.Level)
	if err != nil {
		writeError(c, err)
		return
	}

	ctx := c.Request.Context()
	studentID := c.Param("id")
	recs, err := s.sessions.History(ctx, studentID)
	if err != nil {
		writeError(c, err)
		return
	}
	p := progression.Derive(recs, subject)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ReviewTimeout)
	defer cancel()
	notes, err := s.reviews.Generate(ctx, review.BuildInput(p, recs, level))
	if err != nil {
		status := http.StatusBadGateway
		var llmErr *llm.Error
		if errors.As(err, &llmErr) && llmErr.Kind == llm.KindRateLimited {
			status = http.StatusTooManyRequests
			if llmErr.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(llmErr.RetryAfter.Seconds())))
			}
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, notes)
}

// writeError maps domain errors onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	var locked *session.SubjectLockedError
	switch {
	case errors.As(err, &locked):
		c.JSON(http.StatusConflict, gin.H{"error": "subject locked", "reason": locked.Reason})
	case errors.Is(err, session.ErrLevelLocked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrAlreadyScored):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, attempts.ErrInvalidInput),
		errors.Is(err, attempts.ErrInvalidSubject),
		errors.Is(err, attempts.ErrInvalidLevel),
		errors.Is(err, attempts.ErrInvalidResult):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
