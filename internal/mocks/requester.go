package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"tableside/internal/httpclient"
)

// Requester mocks the network client seam the stores depend on.
type Requester struct {
	mock.Mock
}

func (m *Requester) Request(ctx context.Context, d httpclient.Descriptor) (json.RawMessage, error) {
	ret := m.Called(ctx, d)

	var r0 json.RawMessage
	if rf, ok := ret.Get(0).(func(context.Context, httpclient.Descriptor) json.RawMessage); ok {
		r0 = rf(ctx, d)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(json.RawMessage)
	}
	return r0, ret.Error(1)
}

func NewRequester(t interface {
	mock.TestingT
	Cleanup(func())
}) *Requester {
	m := &Requester{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
