package mocks

import "github.com/stretchr/testify/mock"

// Reporter mocks the feedback collaborator.
type Reporter struct {
	mock.Mock
}

func (m *Reporter) Report(message string, retryable bool) {
	m.Called(message, retryable)
}

func NewReporter(t interface {
	mock.TestingT
	Cleanup(func())
}) *Reporter {
	m := &Reporter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
