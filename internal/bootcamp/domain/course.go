package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Skill string

const (
	SkillBeginner     Skill = "beginner"
	SkillIntermediate Skill = "intermediate"
	SkillAdvanced     Skill = "advanced"
)

type Course struct {
	ID                   uuid.UUID `json:"id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Weeks                string    `json:"weeks"`
	Tuition              float64   `json:"tuition"`
	MinimumSkill         Skill     `json:"minimumSkill"`
	ScholarshipAvailable bool      `json:"scholarshipAvailable"`
	BootcampID           uuid.UUID `json:"bootcamp"`
	UserID               uuid.UUID `json:"user"`
	CreatedAt            time.Time `json:"createdAt"`
}

type CourseInput struct {
	Title                string
	Description          string
	Weeks                string
	Tuition              float64
	MinimumSkill         Skill
	ScholarshipAvailable bool
}

func NewCourse(in CourseInput, bootcampID, owner uuid.UUID) (*Course, error) {
	c := &Course{
		ID:         uuid.New(),
		BootcampID: bootcampID,
		UserID:     owner,
		CreatedAt:  time.Now().UTC(),
	}
	if err := c.Apply(in); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Course) Apply(in CourseInput) error {
	c.Title = strings.TrimSpace(in.Title)
	c.Description = in.Description
	c.Weeks = in.Weeks
	c.Tuition = in.Tuition
	c.MinimumSkill = in.MinimumSkill
	c.ScholarshipAvailable = in.ScholarshipAvailable
	return c.Validate()
}

func (c *Course) Validate() error {
	switch {
	case c.Title == "":
		return fmt.Errorf("%w: please add a course title", ErrInvalidCourse)
	case c.Description == "":
		return fmt.Errorf("%w: please add a description", ErrInvalidCourse)
	case c.Weeks == "":
		return fmt.Errorf("%w: please add number of weeks", ErrInvalidCourse)
	case c.Tuition <= 0:
		return fmt.Errorf("%w: please add a tuition cost", ErrInvalidCourse)
	}
	switch c.MinimumSkill {
	case SkillBeginner, SkillIntermediate, SkillAdvanced:
		return nil
	default:
		return fmt.Errorf("%w: minimumSkill must be beginner, intermediate or advanced", ErrInvalidCourse)
	}
}
