package model

// Job is the record returned by the job-detail endpoint.
type Job struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	SalaryMin      *int64 `json:"salary_min"`
	SalaryMax      *int64 `json:"salary_max"`
	Slots          int    `json:"slots"`
	AppliedCount   int    `json:"applied_count"`
	Qualifications string `json:"qualifications"`
	Description    string `json:"description"`
	IsOpen         bool   `json:"is_open"`
}

// IsFull reports whether the number of applicants has reached the slots.
func (j Job) IsFull() bool {
	return j.AppliedCount >= j.Slots
}

// Salary returns the salary bounds with absent values as zero.
func (j Job) Salary() (lo, hi int64) {
	if j.SalaryMin != nil {
		lo = *j.SalaryMin
	}
	if j.SalaryMax != nil {
		hi = *j.SalaryMax
	}
	return lo, hi
}

// JobLookup is the response of the application-to-job lookup endpoint.
// JobID is nil when the job has been removed.
type JobLookup struct {
	JobID *int64 `json:"job_id"`
}

// MutationResult is the body returned by the mark-read and clear endpoints.
type MutationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
