package dto

import "github.com/Diego-SJ/PaleteriaChuchin/internal/notify"

// SubmissionResponse reports how a form submission ended
// @Description state is one of rejected, succeeded, failed.
// @Description fieldErrors lists the fields that failed validation.
type SubmissionResponse struct {
	State         string                `json:"state" example:"succeeded"`
	FieldErrors   map[string]bool       `json:"fieldErrors,omitempty"`
	Notifications []notify.Notification `json:"notifications"`
	CloseModal    bool                  `json:"closeModal"`
	Data          interface{}           `json:"data,omitempty"`
}

// OptionsResponse lists the selectable values of the forms
type OptionsResponse struct {
	Units interface{} `json:"units"`
	Roles interface{} `json:"roles"`
}
