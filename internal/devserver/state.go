package devserver

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/nemukerja/nemukerja-tui/internal/i18n"
	"github.com/nemukerja/nemukerja-tui/internal/model"
	"github.com/nemukerja/nemukerja-tui/internal/validate"
)

// Application statuses as stored by the backend.
const (
	StatusPending  = "Pending"
	StatusAccepted = "Diterima"
	StatusRejected = "Ditolak"
)

var (
	errNoUser        = errors.New("unknown user")
	errNoJob         = errors.New("unknown job")
	errNoApplication = errors.New("unknown application")
	errWrongRole     = errors.New("wrong role")
	errDuplicate     = errors.New("already applied")
	errClosed        = errors.New("job closed")
	errFull          = errors.New("slots full")
)

type user struct {
	ID   int64
	Role model.Role
	Name string
}

type job struct {
	model.Job
	CompanyUserID int64
}

type application struct {
	ID          int64
	UserID      int64
	JobID       int64
	Status      string
	CoverLetter string
	CVName      string
}

type notification struct {
	model.Notification
	UserID int64
}

// Demo holds the sessions created by Seed.
type Demo struct {
	ApplicantID      int64
	ApplicantSession string
	CompanyID        int64
	CompanySession   string
	JobIDs           []int64
}

func (s *Server) newID() int64 {
	s.nextID++
	return s.nextID
}

// AddUser registers an account and returns its id and a session cookie.
func (s *Server) AddUser(role model.Role, name string) (int64, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	s.users[id] = &user{ID: id, Role: role, Name: name}
	session := uuid.NewString()
	s.sessions[session] = id
	return id, session
}

// JobInput is a new posting.
type JobInput struct {
	validate.JobPosting
	Qualifications string
	Slots          int
	SalaryMin      *int64
	SalaryMax      *int64
}

// PostJob creates a job for a company and notifies every applicant.
func (s *Server) PostJob(companyID int64, in JobInput) (int64, error) {
	if err := validate.Job(in.JobPosting, i18n.English); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	company, ok := s.users[companyID]
	if !ok {
		return 0, errNoUser
	}
	if company.Role != model.RoleCompany {
		return 0, errWrongRole
	}

	id := s.newID()
	s.jobs[id] = &job{
		Job: model.Job{
			ID:             id,
			Title:          in.Title,
			Company:        company.Name,
			Location:       in.Location,
			SalaryMin:      in.SalaryMin,
			SalaryMax:      in.SalaryMax,
			Slots:          in.Slots,
			Qualifications: in.Qualifications,
			Description:    in.Description,
			IsOpen:         true,
		},
		CompanyUserID: companyID,
	}

	for _, u := range s.sortedUsers() {
		if u.Role != model.RoleApplicant {
			continue
		}
		s.notifyLocked(u.ID, model.NotificationJobPosted, model.NewRelatedID(id),
			"New job posted",
			fmt.Sprintf("%s is hiring: %s", company.Name, in.Title))
	}
	return id, nil
}

// Apply records an application and notifies the company.
func (s *Server) Apply(applicantID, jobID int64, coverLetter, cvName string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[applicantID]
	if !ok {
		return 0, errNoUser
	}
	if u.Role != model.RoleApplicant {
		return 0, errWrongRole
	}
	j, ok := s.jobs[jobID]
	if !ok {
		return 0, errNoJob
	}
	for _, a := range s.applications {
		if a.UserID == applicantID && a.JobID == jobID {
			return 0, errDuplicate
		}
	}
	if !j.IsOpen {
		return 0, errClosed
	}
	if j.IsFull() {
		j.IsOpen = false
		return 0, errFull
	}

	id := s.newID()
	s.applications[id] = &application{
		ID:          id,
		UserID:      applicantID,
		JobID:       jobID,
		Status:      StatusPending,
		CoverLetter: coverLetter,
		CVName:      cvName,
	}
	j.AppliedCount++

	s.notifyLocked(j.CompanyUserID, model.NotificationApplicationReceived, model.NewRelatedID(id),
		"New application",
		fmt.Sprintf("%s applied for %s", u.Name, j.Title))
	return id, nil
}

// SetApplicationStatus accepts or rejects an application and notifies the
// applicant.
func (s *Server) SetApplicationStatus(applicationID int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.applications[applicationID]
	if !ok {
		return errNoApplication
	}
	a.Status = status

	title := "Application update"
	if j, ok := s.jobs[a.JobID]; ok {
		title = j.Title
	}
	s.notifyLocked(a.UserID, model.NotificationApplicationStatus, model.NewRelatedID(applicationID),
		title,
		fmt.Sprintf("Your application status is now %s", status))
	return nil
}

// DeleteJob removes a job. Notifications pointing at it lose their target
// and applications keep a dangling job reference.
func (s *Server) DeleteJob(jobID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[jobID]; !ok {
		return errNoJob
	}
	delete(s.jobs, jobID)

	for _, n := range s.notifications {
		if n.Type == model.NotificationJobPosted && n.RelatedID.Valid && n.RelatedID.Value == jobID {
			n.RelatedID = model.RelatedID{}
		}
	}
	return nil
}

// Notify adds a raw notification for a user.
func (s *Server) Notify(userID int64, typ model.NotificationType, related model.RelatedID, title, message string) model.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifyLocked(userID, typ, related, title, message)
}

func (s *Server) notifyLocked(userID int64, typ model.NotificationType, related model.RelatedID, title, message string) model.ID {
	id := model.ID(fmt.Sprint(s.newID()))
	s.notifications = append(s.notifications, &notification{
		Notification: model.Notification{
			ID:        id,
			Type:      typ,
			RelatedID: related,
			Title:     title,
			Message:   message,
			CreatedAt: model.Timestamp{Time: s.now().UTC()},
		},
		UserID: userID,
	})
	return id
}

// NotificationsFor returns a user's notifications, newest first.
func (s *Server) NotificationsFor(userID int64) []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notificationsLocked(userID)
}

func (s *Server) notificationsLocked(userID int64) []model.Notification {
	out := []model.Notification{}
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if n := s.notifications[i]; n.UserID == userID {
			out = append(out, n.Notification)
		}
	}
	return out
}

func (s *Server) sortedUsers() []*user {
	out := make([]*user, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Seed fills the server with a company, an applicant and a few jobs and
// notifications covering every notification type.
func (s *Server) Seed() (Demo, error) {
	var d Demo
	d.CompanyID, d.CompanySession = s.AddUser(model.RoleCompany, "PT Maju Jaya")
	d.ApplicantID, d.ApplicantSession = s.AddUser(model.RoleApplicant, "Siti Rahma")

	lo, hi := int64(5_000_000), int64(8_000_000)
	inputs := []JobInput{
		{
			JobPosting: validate.JobPosting{
				Title:       "Backend Engineer",
				Location:    "Jakarta",
				Description: "Build and operate the services behind the job board.",
			},
			Qualifications: "Go, SQL, HTTP APIs",
			Slots:          3,
			SalaryMin:      &lo,
			SalaryMax:      &hi,
		},
		{
			JobPosting: validate.JobPosting{
				Title:       "Customer Support",
				Location:    "Bandung",
				Description: "Answer applicant and company questions by email and chat.",
			},
			Qualifications: "Fluent Bahasa Indonesia and English",
			Slots:          1,
			SalaryMin:      &lo,
		},
		{
			JobPosting: validate.JobPosting{
				Title:       "Temporary Data Entry",
				Location:    "Surabaya",
				Description: "Digitise paper archives over a two month contract.",
			},
			Qualifications: "Attention to detail",
			Slots:          2,
		},
	}
	for _, in := range inputs {
		id, err := s.PostJob(d.CompanyID, in)
		if err != nil {
			return d, err
		}
		d.JobIDs = append(d.JobIDs, id)
	}

	appID, err := s.Apply(d.ApplicantID, d.JobIDs[0], "", "cv.pdf")
	if err != nil {
		return d, err
	}
	if err := s.SetApplicationStatus(appID, StatusAccepted); err != nil {
		return d, err
	}

	// An application whose job is later deleted.
	goneApp, err := s.Apply(d.ApplicantID, d.JobIDs[2], "", "cv.pdf")
	if err != nil {
		return d, err
	}
	if err := s.SetApplicationStatus(goneApp, StatusRejected); err != nil {
		return d, err
	}
	if err := s.DeleteJob(d.JobIDs[2]); err != nil {
		return d, err
	}
	d.JobIDs = d.JobIDs[:2]

	return d, nil
}
