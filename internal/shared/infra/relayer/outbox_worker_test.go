package relayer

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedDomainEvents "github.com/davicafu/devcamper/internal/shared/domain/events"
	sharedBus "github.com/davicafu/devcamper/internal/shared/infra/platform/bus"
	"github.com/davicafu/devcamper/tests/mocks"
)

const courseCreated = "course.created"

func testRegistry() map[string]sharedDomainEvents.EventMetadata {
	return map[string]sharedDomainEvents.EventMetadata{
		courseCreated: {Type: reflect.TypeOf(sharedDomainEvents.CourseChanged{}), Topic: "bootcamps"},
	}
}

func TestOutboxWorker_ProcessBatch_Success(t *testing.T) {
	repo := new(mocks.MockOutboxRepository)
	publisher := new(mocks.MockPublisher)

	bootcampID := uuid.New()
	evt := sharedDomain.NewOutboxEvent("course", bootcampID.String(), courseCreated, map[string]interface{}{
		"id":         uuid.New().String(),
		"bootcampId": bootcampID.String(),
		"tuition":    8000,
	})

	repo.On("FetchPendingOutbox", mock.Anything, 10).Return([]sharedDomain.OutboxEvent{evt}, nil).Once()
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e sharedDomainEvents.IntegrationEvent) bool {
		var payload sharedDomainEvents.CourseChanged
		if err := json.Unmarshal(e.Data, &payload); err != nil {
			return false
		}
		return e.Type == courseCreated && e.Key == bootcampID.String() && payload.Tuition == 8000
	})).Return(nil).Once()
	repo.On("MarkOutboxProcessed", mock.Anything, evt.ID).Return(nil).Once()

	worker := NewOutboxWorker(repo, publisher, testRegistry(), time.Second, 10, zap.NewNop())

	assert.Equal(t, 1, worker.ProcessBatch(context.Background()))
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOutboxWorker_ProcessBatch_PublisherFails(t *testing.T) {
	repo := new(mocks.MockOutboxRepository)
	publisher := new(mocks.MockPublisher)

	evt := sharedDomain.NewOutboxEvent("course", uuid.NewString(), courseCreated, map[string]interface{}{})

	repo.On("FetchPendingOutbox", mock.Anything, 10).Return([]sharedDomain.OutboxEvent{evt}, nil).Once()
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("kafka is down")).Once()

	worker := NewOutboxWorker(repo, publisher, testRegistry(), time.Second, 10, zap.NewNop())

	assert.Equal(t, 0, worker.ProcessBatch(context.Background()))
	publisher.AssertCalled(t, "Publish", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "MarkOutboxProcessed", mock.Anything, mock.Anything)
}

func TestOutboxWorker_ProcessBatch_UnknownEventType(t *testing.T) {
	repo := new(mocks.MockOutboxRepository)
	publisher := new(mocks.MockPublisher)

	evt := sharedDomain.NewOutboxEvent("course", uuid.NewString(), "unregistered.event", map[string]interface{}{})
	repo.On("FetchPendingOutbox", mock.Anything, 10).Return([]sharedDomain.OutboxEvent{evt}, nil).Once()

	worker := NewOutboxWorker(repo, publisher, testRegistry(), time.Second, 10, zap.NewNop())

	assert.Equal(t, 0, worker.ProcessBatch(context.Background()))
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "MarkOutboxProcessed", mock.Anything, mock.Anything)
}

func TestOutboxWorker_ProcessBatch_FetchFails(t *testing.T) {
	repo := new(mocks.MockOutboxRepository)
	publisher := new(mocks.MockPublisher)

	repo.On("FetchPendingOutbox", mock.Anything, 10).Return([]sharedDomain.OutboxEvent(nil), errors.New("db down")).Once()

	worker := NewOutboxWorker(repo, publisher, testRegistry(), time.Second, 10, zap.NewNop())

	assert.Equal(t, 0, worker.ProcessBatch(context.Background()))
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

var _ sharedDomain.OutboxRepository = (*mocks.MockOutboxRepository)(nil)
var _ sharedBus.EventBus = (*mocks.MockPublisher)(nil)
