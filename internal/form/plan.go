package form

import (
	"fmt"
	"strconv"

	"skillshare/internal/model"
)

// UnitForm is one learning unit row of the plan form.
// UnitID and Completed are carried through edits so progress stays linked.
type UnitForm struct {
	UnitID         string `json:"unitId"`
	Title          string `json:"title" validate:"unit_title"`
	Description    string `json:"description"`
	EstimatedHours string `json:"estimatedHours" validate:"omitempty,positive_int"`
	Completed      bool   `json:"completed"`
}

type PlanForm struct {
	Title          string     `json:"title" validate:"title"`
	Description    string     `json:"description" validate:"body"`
	Category       string     `json:"category" validate:"plan_category"`
	SkillLevel     string     `json:"skillLevel" validate:"skill_level"`
	EstimatedHours string     `json:"estimatedHours" validate:"positive_int"`
	IsPublic       bool       `json:"isPublic"`
	Tags           ListField  `json:"tags" validate:"dive,omitempty,plan_tag"`
	LearningUnits  []UnitForm `json:"learningUnits" validate:"min=1,dive"`
}

var planMessages = map[string]string{
	"title":                        "Title must be between 5 and 100 characters",
	"description":                  "Description must be between 10 and 1000 characters",
	"category":                     "Please select a category",
	"skillLevel":                   "Please select a skill level",
	"estimatedHours":               "Estimated hours must be a positive number",
	"tags":                         "Tag must be between 2 and 30 characters",
	"learningUnits":                "Add at least one learning unit",
	"learningUnits.title":          "Unit title must be between 3 and 100 characters",
	"learningUnits.estimatedHours": "Unit hours must be a positive number",
}

func NewPlanForm() PlanForm {
	return PlanForm{
		IsPublic:      true,
		Tags:          NewListField(),
		LearningUnits: []UnitForm{{}},
	}
}

// PlanFormFrom pre-fills the edit form from an existing plan.
func PlanFormFrom(p model.LearningPlan) PlanForm {
	f := PlanForm{
		Title:          p.Title,
		Description:    p.Description,
		Category:       p.Category,
		SkillLevel:     p.SkillLevel,
		EstimatedHours: strconv.Itoa(p.EstimatedHours),
		IsPublic:       p.IsPublic,
		Tags:           NewListField(p.Tags...),
	}
	for _, u := range p.LearningUnits {
		uf := UnitForm{UnitID: u.UnitID, Title: u.Title, Description: u.Description, Completed: u.Completed}
		if u.EstimatedHours > 0 {
			uf.EstimatedHours = strconv.Itoa(u.EstimatedHours)
		}
		f.LearningUnits = append(f.LearningUnits, uf)
	}
	if len(f.LearningUnits) == 0 {
		f.LearningUnits = []UnitForm{{}}
	}
	return f
}

// AddUnit appends a blank unit row.
func (f *PlanForm) AddUnit() {
	f.LearningUnits = append(f.LearningUnits, UnitForm{})
}

// RemoveUnit deletes unit i, keeping at least one row.
func (f *PlanForm) RemoveUnit(i int) error {
	if len(f.LearningUnits) <= 1 {
		return model.ErrListFloor
	}
	if i < 0 || i >= len(f.LearningUnits) {
		return fmt.Errorf("unit index %d out of range", i)
	}
	f.LearningUnits = append(f.LearningUnits[:i:i], f.LearningUnits[i+1:]...)
	return nil
}

func (f PlanForm) Validate() Errors {
	return check(f, planMessages)
}

func (f PlanForm) Request() (model.PlanRequest, error) {
	if err := f.Validate().Err(); err != nil {
		return model.PlanRequest{}, err
	}

	hours, _ := strconv.Atoi(f.EstimatedHours)
	req := model.PlanRequest{
		Title:          f.Title,
		Description:    f.Description,
		Category:       f.Category,
		SkillLevel:     f.SkillLevel,
		Tags:           f.Tags.Pruned(),
		EstimatedHours: hours,
		IsPublic:       f.IsPublic,
	}
	for _, u := range f.LearningUnits {
		h, _ := strconv.Atoi(u.EstimatedHours)
		req.LearningUnits = append(req.LearningUnits, model.LearningUnit{
			UnitID:         u.UnitID,
			Title:          u.Title,
			Description:    u.Description,
			EstimatedHours: h,
			Completed:      u.Completed,
		})
	}
	return req, nil
}
