package collab

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"

	"github.com/estimaro/estimator/internal/model"
	"github.com/estimaro/estimator/pkg/nhtsa"
)

// VINDecoder decodes VINs through the NHTSA vPIC API.
type VINDecoder struct {
	client nhtsa.Client
}

// NewVINDecoder wraps an NHTSA client.
func NewVINDecoder(client nhtsa.Client) *VINDecoder {
	return &VINDecoder{client: client}
}

// DecodeVIN returns model.ErrInvalidVIN for malformed VINs and
// model.ErrDecodeFailed for every other failure, including a decode that
// yields neither make nor model.
func (d *VINDecoder) DecodeVIN(ctx context.Context, vin string) (*model.VehicleInfo, error) {
	v, err := d.client.DecodeVIN(ctx, vin)
	if err != nil {
		if errors.Is(err, nhtsa.ErrInvalidVIN) {
			return nil, eris.Wrap(model.ErrInvalidVIN, "collab: decode vin")
		}
		return nil, eris.Wrapf(model.ErrDecodeFailed, "collab: decode vin: %s", err.Error())
	}
	if v == nil || (v.Make == "" && v.Model == "") {
		return nil, eris.Wrap(model.ErrDecodeFailed, "collab: decode vin: no vehicle data")
	}
	return &model.VehicleInfo{
		VIN:          v.VIN,
		Year:         v.Year,
		Make:         v.Make,
		Model:        v.Model,
		Trim:         v.Trim,
		Engine:       v.Engine,
		Manufacturer: v.Manufacturer,
		VehicleType:  v.VehicleType,
		BodyClass:    v.BodyClass,
	}, nil
}

// RecallSource lists open recalls through the NHTSA recalls API.
type RecallSource struct {
	client nhtsa.Client
}

// NewRecallSource wraps an NHTSA client.
func NewRecallSource(client nhtsa.Client) *RecallSource {
	return &RecallSource{client: client}
}

// FetchRecallsByVIN implements recall.Source.
func (s *RecallSource) FetchRecallsByVIN(ctx context.Context, vin string) ([]model.Recall, error) {
	recalls, err := s.client.RecallsByVIN(ctx, vin)
	if err != nil {
		return nil, eris.Wrap(err, "collab: fetch recalls")
	}
	out := make([]model.Recall, len(recalls))
	for i, r := range recalls {
		out[i] = model.Recall{
			CampaignNumber: r.NHTSACampaignNumber,
			Manufacturer:   r.Manufacturer,
			Component:      r.Component,
			Summary:        r.Summary,
			Consequence:    r.Consequence,
			Remedy:         r.Remedy,
		}
	}
	return out, nil
}
