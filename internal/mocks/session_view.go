package mocks

import "github.com/stretchr/testify/mock"

// SessionView mocks the session accessors the cart and order stores read.
type SessionView struct {
	mock.Mock
}

func (m *SessionView) IsInitialized() bool {
	return m.Called().Bool(0)
}

func (m *SessionView) StoreID() int64 {
	return m.Called().Get(0).(int64)
}

func (m *SessionView) TableID() int64 {
	return m.Called().Get(0).(int64)
}

func (m *SessionView) TableNo() string {
	return m.Called().String(0)
}

func NewSessionView(t interface {
	mock.TestingT
	Cleanup(func())
}) *SessionView {
	m := &SessionView{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
