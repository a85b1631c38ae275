package mocks

import (
	"net/http"

	"github.com/stretchr/testify/mock"
)

// HTTPDoer mocks the transport under the network client.
type HTTPDoer struct {
	mock.Mock
}

func (m *HTTPDoer) Do(req *http.Request) (*http.Response, error) {
	ret := m.Called(req)

	var r0 *http.Response
	if rf, ok := ret.Get(0).(func(*http.Request) *http.Response); ok {
		r0 = rf(req)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*http.Response)
	}
	return r0, ret.Error(1)
}

func NewHTTPDoer(t interface {
	mock.TestingT
	Cleanup(func())
}) *HTTPDoer {
	m := &HTTPDoer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
