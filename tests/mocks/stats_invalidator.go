package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type StatsInvalidator struct {
	mock.Mock
}

func (m *StatsInvalidator) InvalidateCache(ctx context.Context) {
	m.Called(ctx)
}
