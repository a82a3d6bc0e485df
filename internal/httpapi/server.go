// Package httpapi is the thin REST facade over the engine. It carries no
// domain logic: requests are decoded, handed to the engine with the current
// wall clock, and engine errors are mapped onto status codes.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dashtutor/internal/engine"
)

// Server exposes the engine operations over HTTP.
type Server struct {
	engine *engine.Engine
	log    *zap.Logger
	now    func() time.Time
}

// New builds the facade around an engine.
func New(eng *engine.Engine, log *zap.Logger) *Server {
	return &Server{
		engine: eng,
		log:    log,
		now:    time.Now,
	}
}

// Router assembles the gin handler tree.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.PUT("/users/:id", s.ensureUser)
	r.GET("/users/:id/next-question", s.nextQuestion)
	r.POST("/users/:id/attempts", s.recordAttempt)
	r.GET("/users/:id/stats", s.stats)
	return r
}

type ensureUserRequest struct {
	Age        int    `json:"age"`
	GradeLevel string `json:"grade_level" binding:"required"`
}

func (s *Server) ensureUser(c *gin.Context) {
	var req ensureUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	profile, err := s.engine.EnsureUser(c.Request.Context(), c.Param("id"), req.Age, req.GradeLevel, s.now())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) nextQuestion(c *gin.Context) {
	q, err := s.engine.NextQuestion(c.Request.Context(), c.Param("id"), s.now())
	if err != nil {
		s.writeError(c, err)
		return
	}
	if q == nil {
		c.JSON(http.StatusOK, gin.H{"question": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": q})
}

type recordAttemptRequest struct {
	QuestionID       string   `json:"question_id" binding:"required"`
	SkillIDs         []string `json:"skill_ids" binding:"required"`
	IsCorrect        bool     `json:"is_correct"`
	ResponseTimeSecs float64  `json:"response_time_seconds"`
}

func (s *Server) recordAttempt(c *gin.Context) {
	var req recordAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	affected, err := s.engine.RecordAttempt(c.Request.Context(), c.Param("id"),
		req.QuestionID, req.SkillIDs, req.IsCorrect, req.ResponseTimeSecs, s.now())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated_skill_ids": affected})
}

func (s *Server) stats(c *gin.Context) {
	report, err := s.engine.Stats(c.Request.Context(), c.Param("id"), s.now())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// writeError maps the engine's error kinds onto HTTP statuses.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case engine.IsNotFound(err):
		status = http.StatusNotFound
	case engine.IsInvalidInput(err):
		status = http.StatusBadRequest
	case engine.IsStoreUnavailable(err):
		status = http.StatusServiceUnavailable
	case engine.IsIntegrity(err):
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
