package models

// ReminderPayload is the asynq task body for the exit-time reminder pushed 10
// minutes before a booking's expected exit.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	FireDate  string `json:"fireDate"`
}
