package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 10
)

type Review struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Text       string    `json:"text"`
	Rating     int       `json:"rating"`
	BootcampID uuid.UUID `json:"bootcamp"`
	UserID     uuid.UUID `json:"user"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ReviewInput struct {
	Title  string
	Text   string
	Rating int
}

func NewReview(in ReviewInput, bootcampID, author uuid.UUID) (*Review, error) {
	r := &Review{
		ID:         uuid.New(),
		BootcampID: bootcampID,
		UserID:     author,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.Apply(in); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Review) Apply(in ReviewInput) error {
	r.Title = strings.TrimSpace(in.Title)
	r.Text = in.Text
	r.Rating = in.Rating
	return r.Validate()
}

func (r *Review) Validate() error {
	switch {
	case r.Title == "" || len(r.Title) > 100:
		return fmt.Errorf("%w: title is required and can not be more than 100 characters", ErrInvalidReview)
	case r.Text == "":
		return fmt.Errorf("%w: please add some text", ErrInvalidReview)
	case r.Rating < MinRating || r.Rating > MaxRating:
		return fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidReview, MinRating, MaxRating)
	}
	return nil
}
