// Package mocks provides test doubles for the scraper client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	scraper "github.com/estimaro/estimator/pkg/scraper"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Labor provides a mock function with given fields: ctx, vin, jobDescription
func (_m *MockClient) Labor(ctx context.Context, vin string, jobDescription string) (*scraper.LaborResponse, error) {
	ret := _m.Called(ctx, vin, jobDescription)

	if len(ret) == 0 {
		panic("no return value specified for Labor")
	}

	var r0 *scraper.LaborResponse
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) (*scraper.LaborResponse, error)); ok {
		return rf(ctx, vin, jobDescription)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, string) *scraper.LaborResponse); ok {
		r0 = rf(ctx, vin, jobDescription)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*scraper.LaborResponse)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, vin, jobDescription)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Parts provides a mock function with given fields: ctx, vin, jobDescription
func (_m *MockClient) Parts(ctx context.Context, vin string, jobDescription string) (*scraper.PartsResponse, error) {
	ret := _m.Called(ctx, vin, jobDescription)

	if len(ret) == 0 {
		panic("no return value specified for Parts")
	}

	var r0 *scraper.PartsResponse
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) (*scraper.PartsResponse, error)); ok {
		return rf(ctx, vin, jobDescription)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, string) *scraper.PartsResponse); ok {
		r0 = rf(ctx, vin, jobDescription)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*scraper.PartsResponse)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, vin, jobDescription)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Pricing provides a mock function with given fields: ctx, partNumbers
func (_m *MockClient) Pricing(ctx context.Context, partNumbers []string) (*scraper.PricingResponse, error) {
	ret := _m.Called(ctx, partNumbers)

	if len(ret) == 0 {
		panic("no return value specified for Pricing")
	}

	var r0 *scraper.PricingResponse
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, []string) (*scraper.PricingResponse, error)); ok {
		return rf(ctx, partNumbers)
	}
	if rf, ok := ret.Get(0).(func(context.Context, []string) *scraper.PricingResponse); ok {
		r0 = rf(ctx, partNumbers)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*scraper.PricingResponse)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, []string) error); ok {
		r1 = rf(ctx, partNumbers)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Health provides a mock function with given fields: ctx
func (_m *MockClient) Health(ctx context.Context) (*scraper.HealthResponse, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Health")
	}

	var r0 *scraper.HealthResponse
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) (*scraper.HealthResponse, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) *scraper.HealthResponse); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*scraper.HealthResponse)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
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
