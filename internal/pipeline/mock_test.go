package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/estimaro/estimator/internal/model"
)

// --- VIN decoder mock ---

type mockDecoder struct {
	mock.Mock
}

func (m *mockDecoder) DecodeVIN(ctx context.Context, vin string) (*model.VehicleInfo, error) {
	args := m.Called(ctx, vin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VehicleInfo), args.Error(1)
}

// --- Recall source mock ---

type mockRecalls struct {
	mock.Mock
}

func (m *mockRecalls) FetchRecallsByVIN(ctx context.Context, vin string) ([]model.Recall, error) {
	args := m.Called(ctx, vin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recall), args.Error(1)
}

// --- Labor guide mock ---

type mockLabor struct {
	mock.Mock
}

func (m *mockLabor) GetLaborTime(ctx context.Context, vin, serviceRequest string) (*model.LaborTime, error) {
	args := m.Called(ctx, vin, serviceRequest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LaborTime), args.Error(1)
}

// --- Parts catalog mock ---

type mockParts struct {
	mock.Mock
}

func (m *mockParts) SearchParts(ctx context.Context, vin, serviceRequest string) ([]model.PartCandidate, error) {
	args := m.Called(ctx, vin, serviceRequest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PartCandidate), args.Error(1)
}

// --- Vendor offer source mock ---

type mockOffers struct {
	mock.Mock
}

func (m *mockOffers) GetVendorOffers(ctx context.Context, partNumbers []string) ([]model.VendorOffer, error) {
	args := m.Called(ctx, partNumbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VendorOffer), args.Error(1)
}

type mocks struct {
	decoder *mockDecoder
	recalls *mockRecalls
	labor   *mockLabor
	parts   *mockParts
	offers  *mockOffers
}

func newMocks() *mocks {
	return &mocks{
		decoder: &mockDecoder{},
		recalls: &mockRecalls{},
		labor:   &mockLabor{},
		parts:   &mockParts{},
		offers:  &mockOffers{},
	}
}

func (m *mocks) deps() Deps {
	return Deps{
		Decoder: m.decoder,
		Recalls: m.recalls,
		Labor:   m.labor,
		Parts:   m.parts,
		Offers:  m.offers,
	}
}
