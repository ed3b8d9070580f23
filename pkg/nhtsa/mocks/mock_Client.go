// Package mocks provides test doubles for the nhtsa client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	nhtsa "github.com/estimaro/estimator/pkg/nhtsa"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// DecodeVIN provides a mock function with given fields: ctx, vin
func (_m *MockClient) DecodeVIN(ctx context.Context, vin string) (*nhtsa.Vehicle, error) {
	ret := _m.Called(ctx, vin)

	if len(ret) == 0 {
		panic("no return value specified for DecodeVIN")
	}

	var r0 *nhtsa.Vehicle
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*nhtsa.Vehicle, error)); ok {
		return rf(ctx, vin)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *nhtsa.Vehicle); ok {
		r0 = rf(ctx, vin)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*nhtsa.Vehicle)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, vin)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// RecallsByVIN provides a mock function with given fields: ctx, vin
func (_m *MockClient) RecallsByVIN(ctx context.Context, vin string) ([]nhtsa.Recall, error) {
	ret := _m.Called(ctx, vin)

	if len(ret) == 0 {
		panic("no return value specified for RecallsByVIN")
	}

	var r0 []nhtsa.Recall
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]nhtsa.Recall, error)); ok {
		return rf(ctx, vin)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) []nhtsa.Recall); ok {
		r0 = rf(ctx, vin)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]nhtsa.Recall)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, vin)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
