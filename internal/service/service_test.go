package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/didnumber-service/internal/config"
	"github.com/spec-kit/didnumber-service/internal/events"
	apperrors "github.com/spec-kit/didnumber-service/pkg/util"
)

// recorder captures every published event of the given types.
type recorder struct {
	events []events.Event
}

func newRecorder(types ...events.EventType) (*recorder, events.Dispatcher) {
	r := &recorder{}
	d := events.NewInMemoryDispatcher()
	for _, et := range types {
		d.Subscribe(et, func(_ context.Context, e events.Event) error {
			r.events = append(r.events, e)
			return nil
		})
	}
	return r, d
}

func testConfig() config.Config {
	return config.Config{
		Auth:      config.AuthConfig{BcryptCost: bcrypt.MinCost},
		Inventory: config.InventoryConfig{DefaultPageSize: 20, MaxPageSize: 100},
	}
}

func requireDomainError(t *testing.T, err error, status int, code string) *apperrors.DomainError {
	t.Helper()
	require.Error(t, err)
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %T: %v", err, err)
	assert.Equal(t, status, de.HTTPStatus)
	assert.Equal(t, code, de.Code)
	return de
}

func nopLogger() *zap.Logger { return zap.NewNop() }
