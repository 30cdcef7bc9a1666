package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type JobType string

const (
	JobFullTime   JobType = "Full-time"
	JobPartTime   JobType = "Part-time"
	JobContract   JobType = "Contract"
	JobInternship JobType = "Internship"
)

const DefaultLocation = "Remote"

type SalaryRange struct {
	From *float64 `json:"from,omitempty" bson:"from,omitempty"`
	To   *float64 `json:"to,omitempty" bson:"to,omitempty"`
}

// Job is a posting. PostedBy and Applicants reference users by id.
type Job struct {
	Id          primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	Title       string               `json:"title" bson:"title"`
	Description string               `json:"description" bson:"description"`
	Company     string               `json:"company" bson:"company"`
	Location    string               `json:"location" bson:"location"`
	SalaryRange *SalaryRange         `json:"salaryRange,omitempty" bson:"salaryRange,omitempty"`
	JobType     JobType              `json:"jobType" bson:"jobType"`
	PostedBy    primitive.ObjectID   `json:"postedBy" bson:"postedBy"`
	PostedAt    time.Time            `json:"postedAt" bson:"postedAt"`
	IsActive    bool                 `json:"isActive" bson:"isActive"`
	Applicants  []primitive.ObjectID `json:"applicants" bson:"applicants"`
}

// HasApplicant reports whether the user is already in the applicant set.
func (j *Job) HasApplicant(id primitive.ObjectID) bool {
	for _, a := range j.Applicants {
		if a == id {
			return true
		}
	}
	return false
}

// ListedJob is a job with its owner's identity attached.
type ListedJob struct {
	Job
	Owner *OwnerSummary `json:"owner,omitempty"`
}

// JobFilter selects jobs for listings. A nil Owners slice means any owner.
type JobFilter struct {
	ActiveOnly bool
	Owners     []primitive.ObjectID
}

// JobScope addresses one job that must be owned by one of Owners.
type JobScope struct {
	Id     primitive.ObjectID
	Owners []primitive.ObjectID
}

type JobUpdate struct {
	Title       *string
	Description *string
	Company     *string
	Location    *string
	SalaryRange *SalaryRange
	JobType     *JobType
	IsActive    *bool
}

func (u JobUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Company == nil && u.Location == nil &&
		u.SalaryRange == nil && u.JobType == nil && u.IsActive == nil
}

func (u JobUpdate) Apply(job *Job) {
	if u.Title != nil {
		job.Title = *u.Title
	}
	if u.Description != nil {
		job.Description = *u.Description
	}
	if u.Company != nil {
		job.Company = *u.Company
	}
	if u.Location != nil {
		job.Location = *u.Location
	}
	if u.SalaryRange != nil {
		sr := *u.SalaryRange
		job.SalaryRange = &sr
	}
	if u.JobType != nil {
		job.JobType = *u.JobType
	}
	if u.IsActive != nil {
		job.IsActive = *u.IsActive
	}
}
