package dto

// RegisterRequest enrols a student in an event.
type RegisterRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	EventID   string `json:"event_id" validate:"required,uuid"`
}

// CheckinRequest records attendance for a registration.
type CheckinRequest struct {
	RegistrationID string `json:"registration_id" validate:"required,uuid"`
}

// FeedbackRequest rates an attended event.
type FeedbackRequest struct {
	StudentID string  `json:"student_id" validate:"required,uuid"`
	EventID   string  `json:"event_id" validate:"required,uuid"`
	Rating    int     `json:"rating" validate:"required,min=1,max=5"`
	Comment   *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// RegistrationQRResponse carries a base64 PNG encoding Data.
type RegistrationQRResponse struct {
	QRCode string `json:"qr_code"`
	Data   string `json:"data"`
}
