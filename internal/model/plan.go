package model

import (
	"errors"
	"time"
)

// Plan categories. "All" is a filter sentinel, not a category.
const (
	CategoryProgramming       = "Programming"
	CategoryWebDevelopment    = "Web Development"
	CategoryDataScience       = "Data Science"
	CategoryMachineLearning   = "Machine Learning"
	CategoryDevOps            = "DevOps"
	CategoryMobileDevelopment = "Mobile Development"
	CategoryDatabase          = "Database"
	CategoryCloudComputing    = "Cloud Computing"
	CategoryCyberSecurity     = "Cyber Security"
	CategoryOther             = "Other"
)

var PlanCategories = []string{
	CategoryProgramming,
	CategoryWebDevelopment,
	CategoryDataScience,
	CategoryMachineLearning,
	CategoryDevOps,
	CategoryMobileDevelopment,
	CategoryDatabase,
	CategoryCloudComputing,
	CategoryCyberSecurity,
	CategoryOther,
}

// Skill levels
const (
	SkillBeginner     = "Beginner"
	SkillIntermediate = "Intermediate"
	SkillAdvanced     = "Advanced"
	SkillExpert       = "Expert"
)

var SkillLevels = []string{SkillBeginner, SkillIntermediate, SkillAdvanced, SkillExpert}

// FilterAll disables a facet in list filters.
const FilterAll = "All"

// LearningPlan is a structured, shareable course of study.
type LearningPlan struct {
	ID                   string         `json:"id"`
	Title                string         `json:"title"`
	Description          string         `json:"description"`
	Category             string         `json:"category"`
	SkillLevel           string         `json:"skillLevel"`
	Tags                 []string       `json:"tags"`
	EstimatedHours       int            `json:"estimatedHours"`
	CompletionPercentage float64        `json:"completionPercentage"`
	IsPublic             bool           `json:"isPublic"`
	LikesCount           int            `json:"likesCount"`
	User                 UserSummary    `json:"user"`
	LearningUnits        []LearningUnit `json:"learningUnits"`
	CreatedAt            time.Time      `json:"createdAt"`
}

// LearningUnit is one ordered step of a plan.
type LearningUnit struct {
	UnitID         string `json:"unitId"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	EstimatedHours int    `json:"estimatedHours,omitempty"`
	Completed      bool   `json:"completed"`
}

// Unit finds a unit by id.
func (p LearningPlan) Unit(unitID string) (LearningUnit, bool) {
	for _, u := range p.LearningUnits {
		if u.UnitID == unitID {
			return u, true
		}
	}
	return LearningUnit{}, false
}

// PlanRequest is the body for creating or updating a plan.
type PlanRequest struct {
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	SkillLevel     string         `json:"skillLevel"`
	Tags           []string       `json:"tags"`
	EstimatedHours int            `json:"estimatedHours"`
	IsPublic       bool           `json:"isPublic"`
	LearningUnits  []LearningUnit `json:"learningUnits"`
}

// Page is the paged envelope used by plan listings.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
	Size          int `json:"size"`
}

var (
	ErrPlanNotFound = errors.New("learning plan not found")
	ErrNotPlanOwner = errors.New("only the owner can modify this learning plan")
)
