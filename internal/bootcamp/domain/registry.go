package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/devcamper/internal/shared/domain/events"
)

const (
	CourseCreated = "course.created"
	CourseUpdated = "course.updated"
	CourseDeleted = "course.deleted"

	ReviewCreated = "review.created"
	ReviewUpdated = "review.updated"
	ReviewDeleted = "review.deleted"
)

// BootcampTopic agrupa todos los eventos que afectan a los agregados de un bootcamp.
const BootcampTopic = "bootcamp-events"

func NewEventRegistry() map[string]sharedEvents.EventMetadata {
	course := sharedEvents.EventMetadata{Type: reflect.TypeOf(sharedEvents.CourseChanged{}), Topic: BootcampTopic}
	review := sharedEvents.EventMetadata{Type: reflect.TypeOf(sharedEvents.ReviewChanged{}), Topic: BootcampTopic}

	return map[string]sharedEvents.EventMetadata{
		CourseCreated: course,
		CourseUpdated: course,
		CourseDeleted: course,
		ReviewCreated: review,
		ReviewUpdated: review,
		ReviewDeleted: review,
	}
}
