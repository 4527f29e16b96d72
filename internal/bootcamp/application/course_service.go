package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedEvents "github.com/davicafu/devcamper/internal/shared/domain/events"
)

type CourseService struct {
	courses   bootcampDomain.CourseRepository
	bootcamps bootcampDomain.BootcampRepository
	log       *zap.Logger
}

func NewCourseService(courses bootcampDomain.CourseRepository, bootcamps bootcampDomain.BootcampRepository, log *zap.Logger) *CourseService {
	return &CourseService{courses: courses, bootcamps: bootcamps, log: log}
}

// AddCourse crea un curso en un bootcamp del que el principal es dueño (o admin).
func (s *CourseService) AddCourse(ctx context.Context, p *sharedDomain.Principal, bootcampID uuid.UUID, in bootcampDomain.CourseInput) (*bootcampDomain.Course, error) {
	b, err := s.bootcamps.GetByID(ctx, bootcampID)
	if err != nil {
		return nil, err
	}
	if !p.CanModify(b.UserID) {
		return nil, fmt.Errorf("%w: user %s is not authorized to add a course to bootcamp %s", sharedDomain.ErrForbidden, principalID(p), b.ID)
	}

	c, err := bootcampDomain.NewCourse(in, b.ID, p.ID)
	if err != nil {
		return nil, err
	}
	if err := s.courses.Create(ctx, c, courseEvent(bootcampDomain.CourseCreated, c)); err != nil {
		s.log.Error("Failed to create course", zap.String("bootcamp_id", b.ID.String()), zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (s *CourseService) GetCourse(ctx context.Context, id uuid.UUID) (*bootcampDomain.Course, error) {
	return s.courses.GetByID(ctx, id)
}

func (s *CourseService) UpdateCourse(ctx context.Context, p *sharedDomain.Principal, id uuid.UUID, in bootcampDomain.CourseInput) (*bootcampDomain.Course, error) {
	c, err := s.owned(ctx, p, id, "update")
	if err != nil {
		return nil, err
	}
	if err := c.Apply(in); err != nil {
		return nil, err
	}
	if err := s.courses.Update(ctx, c, courseEvent(bootcampDomain.CourseUpdated, c)); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CourseService) DeleteCourse(ctx context.Context, p *sharedDomain.Principal, id uuid.UUID) error {
	c, err := s.owned(ctx, p, id, "delete")
	if err != nil {
		return err
	}
	return s.courses.Delete(ctx, id, courseEvent(bootcampDomain.CourseDeleted, c))
}

func (s *CourseService) owned(ctx context.Context, p *sharedDomain.Principal, id uuid.UUID, action string) (*bootcampDomain.Course, error) {
	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanModify(c.UserID) {
		return nil, fmt.Errorf("%w: user %s is not authorized to %s course %s", sharedDomain.ErrForbidden, principalID(p), action, c.ID)
	}
	return c, nil
}

// Import guarda un curso ya validado sin comprobar permisos. Lo usa el seeder; la media
// del bootcamp se recalcula igual que en un alta normal.
func (s *CourseService) Import(ctx context.Context, c *bootcampDomain.Course) error {
	return s.courses.Create(ctx, c, courseEvent(bootcampDomain.CourseCreated, c))
}

// courseEvent usa el bootcamp como agregado: los eventos de un mismo bootcamp se publican en orden.
func courseEvent(eventType string, c *bootcampDomain.Course) sharedDomain.OutboxEvent {
	return sharedDomain.NewOutboxEvent("course", c.BootcampID.String(), eventType, sharedEvents.CourseChanged{
		ID:         c.ID,
		BootcampID: c.BootcampID,
		Tuition:    c.Tuition,
	})
}
