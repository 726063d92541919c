package devserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/nemukerja/nemukerja-tui/internal/model"
	"github.com/nemukerja/nemukerja-tui/internal/validate"
)

// isoLayout is what Python's datetime.isoformat() produces for naive UTC
// values.
const isoLayout = "2006-01-02T15:04:05"

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return id, true
}

func notificationJSON(n model.Notification) gin.H {
	var related interface{}
	if n.RelatedID.Valid {
		related = n.RelatedID.Value
	}
	var id interface{} = n.ID.String()
	if v, err := strconv.ParseInt(n.ID.String(), 10, 64); err == nil {
		id = v
	}
	return gin.H{
		"id":         id,
		"type":       string(n.Type),
		"related_id": related,
		"title":      n.Title,
		"message":    n.Message,
		"is_read":    n.IsRead,
		"created_at": n.CreatedAt.UTC().Format(isoLayout),
	}
}

// handleListNotifications returns the caller's notifications, newest first.
func (s *Server) handleListNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		list := s.NotificationsFor(currentUser(c))
		out := make([]gin.H, 0, len(list))
		for _, n := range list {
			out = append(out, notificationJSON(n))
		}
		c.JSON(http.StatusOK, out)
	}
}

// handleMarkRead marks one of the caller's notifications read.
func (s *Server) handleMarkRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := currentUser(c)
		id := model.ID(c.Param("id"))

		s.mu.Lock()
		defer s.mu.Unlock()
		for _, n := range s.notifications {
			if n.UserID == uid && n.ID == id {
				n.IsRead = true
				c.JSON(http.StatusOK, gin.H{"success": true})
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "notification not found"})
	}
}

// handleMarkAllRead marks every notification of the caller read.
func (s *Server) handleMarkAllRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := currentUser(c)

		s.mu.Lock()
		defer s.mu.Unlock()
		for _, n := range s.notifications {
			if n.UserID == uid {
				n.IsRead = true
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// handleClearAll deletes every notification of the caller.
func (s *Server) handleClearAll() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := currentUser(c)

		s.mu.Lock()
		defer s.mu.Unlock()
		kept := s.notifications[:0]
		for _, n := range s.notifications {
			if n.UserID != uid {
				kept = append(kept, n)
			}
		}
		s.notifications = kept
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// handleJobForApplication resolves the job of one of the caller's
// applications.
func (s *Server) handleJobForApplication() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		uid := currentUser(c)

		s.mu.Lock()
		defer s.mu.Unlock()

		a, ok := s.applications[id]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"job_id": nil})
			return
		}
		if a.UserID != uid {
			c.JSON(http.StatusForbidden, gin.H{"job_id": nil})
			return
		}
		if _, ok := s.jobs[a.JobID]; !ok {
			c.JSON(http.StatusOK, gin.H{"job_id": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"job_id": a.JobID})
	}
}

// handleJobDetail returns the job-detail record.
func (s *Server) handleJobDetail() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		s.mu.Lock()
		j, ok := s.jobs[id]
		var snapshot model.Job
		if ok {
			snapshot = j.Job
		}
		s.mu.Unlock()

		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		company := snapshot.Company
		if company == "" {
			company = "N/A"
		}
		c.JSON(http.StatusOK, gin.H{
			"id":             snapshot.ID,
			"title":          snapshot.Title,
			"company":        company,
			"location":       snapshot.Location,
			"description":    snapshot.Description,
			"qualifications": snapshot.Qualifications,
			"slots":          snapshot.Slots,
			"applied_count":  snapshot.AppliedCount,
			"is_open":        snapshot.IsOpen,
			"salary_min":     snapshot.SalaryMin,
			"salary_max":     snapshot.SalaryMax,
		})
	}
}

// handleApply accepts the multipart apply form. Like the web application
// it redirects to the dashboard whether or not the application was taken.
func (s *Server) handleApply() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		header, err := c.FormFile("cv_file")
		var cv *validate.CVFile
		if err == nil {
			f, openErr := header.Open()
			if openErr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": openErr.Error()})
				return
			}
			mt, detectErr := mimetype.DetectReader(f)
			f.Close()
			if detectErr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": detectErr.Error()})
				return
			}
			cv = &validate.CVFile{Path: header.Filename, Size: header.Size, MIME: mt.String()}
		}

		form := validate.Application{CoverLetter: c.PostForm("cover_letter"), CV: cv}
		if err := validate.Apply(form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		_, err = s.Apply(currentUser(c), id, form.CoverLetter, cv.Name())
		switch {
		case errors.Is(err, errNoJob):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		case err != nil:
			s.log.Info().Err(err).Int64("job_id", id).Msg("application refused")
		}
		c.Redirect(http.StatusFound, "/dashboard")
	}
}

type postJobRequest struct {
	Title          string `json:"title"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	Qualifications string `json:"qualifications"`
	Slots          int    `json:"slots" binding:"gte=0"`
	SalaryMin      *int64 `json:"salary_min"`
	SalaryMax      *int64 `json:"salary_max"`
}

// handlePostJob lets a company post a job.
func (s *Server) handlePostJob() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req postJobRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id, err := s.PostJob(currentUser(c), JobInput{
			JobPosting: validate.JobPosting{
				Title:       req.Title,
				Location:    req.Location,
				Description: req.Description,
			},
			Qualifications: req.Qualifications,
			Slots:          req.Slots,
			SalaryMin:      req.SalaryMin,
			SalaryMax:      req.SalaryMax,
		})
		switch {
		case errors.Is(err, errWrongRole):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case err != nil:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusCreated, gin.H{"id": id})
		}
	}
}

// handleDeleteJob removes one of the caller's jobs.
func (s *Server) handleDeleteJob() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		s.mu.Lock()
		j, exists := s.jobs[id]
		owner := exists && j.CompanyUserID == currentUser(c)
		s.mu.Unlock()

		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"success": false})
			return
		}
		if !owner {
			c.JSON(http.StatusForbidden, gin.H{"success": false})
			return
		}
		if err := s.DeleteJob(id); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

type statusRequest struct {
	Status string `json:"status" binding:"required,oneof=Pending Diterima Ditolak"`
}

// handleApplicationStatus lets the owning company accept or reject.
func (s *Server) handleApplicationStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		s.mu.Lock()
		a, exists := s.applications[id]
		allowed := false
		if exists {
			if j, ok := s.jobs[a.JobID]; ok {
				allowed = j.CompanyUserID == currentUser(c)
			}
		}
		s.mu.Unlock()

		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"success": false})
			return
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"success": false})
			return
		}
		if err := s.SetApplicationStatus(id, req.Status); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
