// internal/models/dispatch.go
package models

import "time"

type DispatchMode string

const (
	DispatchEmail   DispatchMode = "email"
	DispatchWebForm DispatchMode = "web_form"
	DispatchAPI     DispatchMode = "api"
)

type EmailMessage struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type WebFormInstructions struct {
	WebFormURL          string `json:"webFormUrl"`
	WebFormInstructions string `json:"webFormInstructions"`
}

type APIPayload struct {
	PayloadJSON string `json:"payloadJson"`
}

// OutboundDispatch is built fresh per send attempt. Exactly one of the
// channel fields is set, selected by Mode.
type OutboundDispatch struct {
	Mode    DispatchMode         `json:"mode"`
	Email   *EmailMessage        `json:"email,omitempty"`
	WebForm *WebFormInstructions `json:"webForm,omitempty"`
	API     *APIPayload          `json:"api,omitempty"`
}

// RFQ is the part of a search request an outbound message describes.
type RFQ struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Process    string     `json:"process"`
	Material   string     `json:"material"`
	Quantity   string     `json:"quantity"`
	Tolerance  string     `json:"tolerance"`
	Finish     string     `json:"finish"`
	LeadTime   *int       `json:"leadTimeDays,omitempty"`
	TargetDate *time.Time `json:"targetDate,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

type Customer struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

type FileLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
