package model

// NotificationSettings controls when the backend sends renewal reminders.
type NotificationSettings struct {
	Email           string `json:"email,omitempty"`
	DaysBefore      int    `json:"days_before"`
	EmailEnabled    bool   `json:"email_enabled"`
	RenewalReminder bool   `json:"renewal_reminder"`
}
