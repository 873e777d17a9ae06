package service

// Stable identifiers shared by the service tests. Repository keys are UUIDs in
// production, so fixtures use the same shape.
const (
	collegeAID    = "0b6f3c4e-1d2a-4f5b-8c7d-9e0f1a2b3c01"
	collegeBID    = "0b6f3c4e-1d2a-4f5b-8c7d-9e0f1a2b3c02"
	managerAID    = "4c1d2e3f-5a6b-4c7d-8e9f-0a1b2c3d4e01"
	studentAID    = "7e2a9b1c-3d4e-4f50-9a1b-2c3d4e5f6a01"
	studentBID    = "7e2a9b1c-3d4e-4f50-9a1b-2c3d4e5f6a02"
	studentCID    = "7e2a9b1c-3d4e-4f50-9a1b-2c3d4e5f6a09"
	eventAID      = "9d8c7b6a-5f4e-4d3c-8b2a-1f0e9d8c7b01"
	eventBID      = "9d8c7b6a-5f4e-4d3c-8b2a-1f0e9d8c7b02"
	registrationA = "c3b2a190-8f7e-4d6c-9b5a-4e3d2c1b0a01"
	registrationB = "c3b2a190-8f7e-4d6c-9b5a-4e3d2c1b0a02"
	registrationZ = "c3b2a190-8f7e-4d6c-9b5a-4e3d2c1b0a00"
	registrationX = "c3b2a190-8f7e-4d6c-9b5a-4e3d2c1b0a0f"
	attendanceAID = "e5f6a7b8-c9d0-4e1f-a2b3-c4d5e6f7a801"

	// unknownID is well formed but never stored.
	unknownID      = "00000000-0000-4000-8000-000000000001"
	otherUnknownID = "00000000-0000-4000-8000-000000000002"
)
