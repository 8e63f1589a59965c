package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	enrollmentdomain "github.com/snusnumrick/dojoflow/internal/enrollment/domain"
)

type enrollRequest struct {
	StudentID string `json:"student_id"`
	ClassID   string `json:"class_id"`
}

func (s *Server) Enroll(c *gin.Context) {
	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.enrollmentSvc.Enroll(c.Request.Context(), enrollmentdomain.EnrollRequest{
		StudentID: strings.TrimSpace(req.StudentID),
		ClassID:   strings.TrimSpace(req.ClassID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DropEnrollment(c *gin.Context) {
	if err := s.enrollmentSvc.Drop(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "dropped"}})
}

func (s *Server) CompleteEnrollment(c *gin.Context) {
	if err := s.enrollmentSvc.Complete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "completed"}})
}

func (s *Server) ListStudentEnrollments(c *gin.Context) {
	resp, err := s.enrollmentSvc.ListByStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ClassRoster(c *gin.Context) {
	resp, err := s.enrollmentSvc.ListByClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CheckEligibility(c *gin.Context) {
	resp, err := s.enrollmentSvc.CheckEligibility(c.Request.Context(), c.Param("id"), c.Param("program_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
