package models

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "Beginner"
	LevelIntermediate CourseLevel = "Intermediate"
	LevelAdvanced     CourseLevel = "Advanced"
)

// Course is the root of the authoring hierarchy. Modules are kept in display order.
type Course struct {
	ID               uint        `json:"id,omitempty"`
	Title            string      `json:"title" validate:"max=200"`
	Description      string      `json:"description"`
	Instructor       string      `json:"instructor"`
	Price            float64     `json:"price" validate:"min=0"`
	Duration         string      `json:"duration"`
	Level            CourseLevel `json:"level" validate:"omitempty,course_level"`
	Category         string      `json:"category"`
	WhatYouWillLearn []string    `json:"whatYouWillLearn"`
	Requirements     []string    `json:"requirements"`
	TargetAudience   []string    `json:"targetAudience"`
	Modules          []*Module   `json:"modules,omitempty"`
}

// ModuleByID returns the module with the given server id, or nil.
func (c *Course) ModuleByID(id uint) *Module {
	for _, m := range c.Modules {
		if m.ID == id {
			return m
		}
	}
	return nil
}
