package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	programdomain "github.com/snusnumrick/dojoflow/internal/program/domain"
)

type createProgramRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`

	MonthlyFeeCents      int64 `json:"monthly_fee_cents"`
	SessionFeeCents      int64 `json:"session_fee_cents"`
	RegistrationFeeCents int64 `json:"registration_fee_cents"`

	MinAge *int `json:"min_age"`
	MaxAge *int `json:"max_age"`

	MinBeltRank     *string `json:"min_belt_rank"`
	MaxBeltRank     *string `json:"max_belt_rank"`
	EnforceBeltRank bool    `json:"enforce_belt_rank"`

	PrerequisiteProgramIDs []string `json:"prerequisite_program_ids"`

	GenderRestriction    string `json:"gender_restriction"`
	SupportsSpecialNeeds bool   `json:"supports_special_needs"`

	MaxCapacity *int `json:"max_capacity"`

	SessionsPerWeek    *int `json:"sessions_per_week"`
	MinSessionsPerWeek *int `json:"min_sessions_per_week"`
	MaxSessionsPerWeek *int `json:"max_sessions_per_week"`
}

func (s *Server) CreateProgram(c *gin.Context) {
	var req createProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	restriction := programdomain.GenderRestrictionNone
	if trimmed := strings.TrimSpace(req.GenderRestriction); trimmed != "" {
		restriction = programdomain.GenderRestriction(trimmed)
	}

	resp, err := s.programSvc.CreateProgram(c.Request.Context(), programdomain.CreateProgramRequest{
		Name:                   strings.TrimSpace(req.Name),
		Description:            req.Description,
		MonthlyFeeCents:        req.MonthlyFeeCents,
		SessionFeeCents:        req.SessionFeeCents,
		RegistrationFeeCents:   req.RegistrationFeeCents,
		MinAge:                 req.MinAge,
		MaxAge:                 req.MaxAge,
		MinBeltRank:            req.MinBeltRank,
		MaxBeltRank:            req.MaxBeltRank,
		EnforceBeltRank:        req.EnforceBeltRank,
		PrerequisiteProgramIDs: req.PrerequisiteProgramIDs,
		GenderRestriction:      restriction,
		SupportsSpecialNeeds:   req.SupportsSpecialNeeds,
		MaxCapacity:            req.MaxCapacity,
		SessionsPerWeek:        req.SessionsPerWeek,
		MinSessionsPerWeek:     req.MinSessionsPerWeek,
		MaxSessionsPerWeek:     req.MaxSessionsPerWeek,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPrograms(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	resp, err := s.programSvc.ListPrograms(c.Request.Context(), activeOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProgram(c *gin.Context) {
	resp, err := s.programSvc.GetProgram(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListClasses(c *gin.Context) {
	resp, err := s.programSvc.ListClasses(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type sessionSlotRequest struct {
	Weekday     int    `json:"weekday"` // 0 = Sunday
	StartTime   string `json:"start_time"`
	DurationMin int    `json:"duration_min"`
}

type createClassRequest struct {
	ProgramID string               `json:"program_id"`
	Name      string               `json:"name"`
	Capacity  int                  `json:"capacity"`
	Sessions  []sessionSlotRequest `json:"sessions"`
}

func (s *Server) CreateClass(c *gin.Context) {
	var req createClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sessions := make([]programdomain.SessionSlot, 0, len(req.Sessions))
	for _, slot := range req.Sessions {
		if slot.Weekday < 0 || slot.Weekday > 6 {
			AbortWithError(c, newValidationError("weekday", "invalid_weekday", "weekday must be 0 through 6"))
			return
		}
		sessions = append(sessions, programdomain.SessionSlot{
			Weekday:     time.Weekday(slot.Weekday),
			StartTime:   strings.TrimSpace(slot.StartTime),
			DurationMin: slot.DurationMin,
		})
	}

	resp, err := s.programSvc.CreateClass(c.Request.Context(), programdomain.CreateClassRequest{
		ProgramID: strings.TrimSpace(req.ProgramID),
		Name:      strings.TrimSpace(req.Name),
		Capacity:  req.Capacity,
		Sessions:  sessions,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetClass(c *gin.Context) {
	resp, err := s.programSvc.GetClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ClassSchedule(c *gin.Context) {
	resp, err := s.programSvc.ClassSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
