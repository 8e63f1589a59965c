package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	familydomain "github.com/snusnumrick/dojoflow/internal/family/domain"
)

type createFamilyRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

func (s *Server) CreateFamily(c *gin.Context) {
	var req createFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.familySvc.CreateFamily(c.Request.Context(), familydomain.CreateFamilyRequest{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
		Phone: req.Phone,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListFamilies(c *gin.Context) {
	resp, err := s.familySvc.ListFamilies(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetFamily(c *gin.Context) {
	resp, err := s.familySvc.GetFamily(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListStudents(c *gin.Context) {
	resp, err := s.familySvc.ListStudents(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type addStudentRequest struct {
	FamilyID     string `json:"family_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	BirthDate    string `json:"birth_date"` // "2006-01-02"
	Gender       string `json:"gender"`
	SpecialNeeds bool   `json:"special_needs"`
}

func (s *Server) AddStudent(c *gin.Context) {
	var req addStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	birthDate, err := time.Parse("2006-01-02", strings.TrimSpace(req.BirthDate))
	if err != nil {
		AbortWithError(c, newValidationError("birth_date", "invalid_birth_date", "expected YYYY-MM-DD"))
		return
	}

	resp, err := s.familySvc.AddStudent(c.Request.Context(), familydomain.AddStudentRequest{
		FamilyID:     strings.TrimSpace(req.FamilyID),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		BirthDate:    birthDate,
		Gender:       familydomain.Gender(strings.TrimSpace(req.Gender)),
		SpecialNeeds: req.SpecialNeeds,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetStudent(c *gin.Context) {
	resp, err := s.familySvc.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type awardBeltRequest struct {
	Rank      string     `json:"rank"`
	AwardedAt *time.Time `json:"awarded_at"`
	Notes     *string    `json:"notes"`
}

func (s *Server) AwardBelt(c *gin.Context) {
	var req awardBeltRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.familySvc.AwardBelt(c.Request.Context(), familydomain.AwardBeltRequest{
		StudentID: c.Param("id"),
		Rank:      strings.TrimSpace(req.Rank),
		AwardedAt: req.AwardedAt,
		Notes:     req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) BeltHistory(c *gin.Context) {
	resp, err := s.familySvc.BeltHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
