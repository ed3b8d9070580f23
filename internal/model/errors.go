package model

import "github.com/rotisserie/eris"

// Collaborator failure kinds shared by adapters and the pipeline.
var (
	// ErrInvalidVIN is returned when a VIN is not a decodable 17-character code.
	ErrInvalidVIN = eris.New("invalid VIN")
	// ErrDecodeFailed is returned when a VIN could not be decoded.
	ErrDecodeFailed = eris.New("VIN decode failed")
	// ErrNoLaborTime is returned when the labor guide has no entry for a job.
	ErrNoLaborTime = eris.New("no labor time found")
)
