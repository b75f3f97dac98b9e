package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/didnumber-service/internal/events"
	"github.com/spec-kit/didnumber-service/internal/service"
)

func TestStartAuditWorkerSubscribes(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	StartAuditWorker(service.NewAuditService(dispatcher, zap.New(core)))

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		ID:        "evt-1",
		Type:      events.EventDidNumberDeleted,
		SubjectID: 4,
		ActorID:   1,
		Payload:   events.DidNumberPayload{Value: "+55 84 91234-4321"},
	}))
	assert.Equal(t, 1, logs.FilterMessage(string(events.EventDidNumberDeleted)).Len())

	StartAuditWorker(nil)
}
