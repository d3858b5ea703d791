// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the evaluation panel over HTTP.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/review-panel/internal/panel"
	"github.com/pdiddy/review-panel/internal/report"
	"github.com/pdiddy/review-panel/pkg/types"
)

// EvaluateRequest is the POST /evaluate payload.
type EvaluateRequest struct {
	Topic                   string `json:"topic" binding:"required"`
	UseLiteratureBackground *bool  `json:"use_literature_background"`
}

// AgentScore is one persona's contribution in the HTTP response.
type AgentScore struct {
	Role            string         `json:"role"`
	Score           *int           `json:"score"`
	ScoreTier       string         `json:"score_tier,omitempty"`
	DimensionScores map[string]int `json:"dimension_scores,omitempty"`
	Analysis        string         `json:"analysis"`
	BackgroundUsed  bool           `json:"background_used"`
}

// EvaluateResponse is the POST /evaluate reply.
type EvaluateResponse struct {
	Topic                string                 `json:"topic"`
	AgentScores          []AgentScore           `json:"agent_scores"`
	WeightedTotalScore   float64                `json:"weighted_total_score"`
	Stats                types.SummaryStats     `json:"stats"`
	LiteratureBackground *types.TopicBackground `json:"literature_background,omitempty"`
}

// Server routes evaluation requests to a Panel.
type Server struct {
	panel   *panel.Panel
	weights map[string]float64
	log     *logrus.Logger
}

// New builds a Server around an assembled panel.
func New(p *panel.Panel, weights map[string]float64, log *logrus.Logger) *Server {
	return &Server{panel: p, weights: weights, log: log}
}

// Router assembles the gin engine. Release mode keeps gin's debug chatter
// out of the structured logs.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealthz)
	r.POST("/evaluate", s.handleEvaluate)

	return r
}

// Run starts the HTTP listener on addr and blocks.
func (s *Server) Run(addr string) error {
	s.log.WithField("addr", addr).Info("starting evaluation server")
	return s.Router().Run(addr)
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "roles": s.panel.Roles()})
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	s.log.WithField("topic", req.Topic).Info("evaluation request")

	eval := s.panel.EvaluateTopic(c.Request.Context(), req.Topic, panel.Options{
		Parallel:      true,
		UseBackground: req.UseLiteratureBackground,
	})

	resp := EvaluateResponse{
		Topic:              eval.Topic,
		AgentScores:        make([]AgentScore, 0, len(eval.Results)),
		WeightedTotalScore: report.WeightedComposite(eval.Results, s.weights),
		Stats:              eval.Stats,
	}
	for _, role := range s.panel.Roles() {
		r, ok := eval.Results[role]
		if !ok {
			continue
		}
		resp.AgentScores = append(resp.AgentScores, AgentScore{
			Role:            r.Role,
			Score:           r.Score,
			ScoreTier:       string(r.ScoreTier),
			DimensionScores: r.DimensionScores,
			Analysis:        r.Analysis,
			BackgroundUsed:  r.BackgroundUsed,
		})
	}
	if eval.Background != nil {
		resp.LiteratureBackground = eval.Background
	}

	c.JSON(http.StatusOK, resp)
}
