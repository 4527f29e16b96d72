package domain

import (
	"fmt"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
)

var (
	ErrBootcampNotFound = fmt.Errorf("bootcamp %w", sharedDomain.ErrNotFound)
	ErrCourseNotFound   = fmt.Errorf("course %w", sharedDomain.ErrNotFound)
	ErrReviewNotFound   = fmt.Errorf("review %w", sharedDomain.ErrNotFound)

	ErrInvalidBootcamp = fmt.Errorf("%w: bootcamp", sharedDomain.ErrInvalidInput)
	ErrInvalidCareer   = fmt.Errorf("%w: unknown career", sharedDomain.ErrInvalidInput)
	ErrInvalidCourse   = fmt.Errorf("%w: course", sharedDomain.ErrInvalidInput)
	ErrInvalidReview   = fmt.Errorf("%w: review", sharedDomain.ErrInvalidInput)

	ErrAlreadyPublished = fmt.Errorf("%w: the user has already published a bootcamp", sharedDomain.ErrInvalidInput)
	ErrAlreadyReviewed  = fmt.Errorf("%w: the user has already reviewed this bootcamp", sharedDomain.ErrInvalidInput)
	ErrAddressNotFound  = fmt.Errorf("%w: address could not be geocoded", sharedDomain.ErrInvalidInput)

	ErrPhotoRequired = fmt.Errorf("%w: please upload a file", sharedDomain.ErrInvalidInput)
	ErrPhotoNotImage = fmt.Errorf("%w: please upload an image file", sharedDomain.ErrInvalidInput)
	ErrPhotoTooLarge = fmt.Errorf("%w: please upload an image smaller than the allowed size", sharedDomain.ErrInvalidInput)
)
