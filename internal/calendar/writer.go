package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/subtally/subtally/internal/cli"
	"github.com/subtally/subtally/internal/common"
	"github.com/subtally/subtally/internal/model"
)

// Events created by us carry this private extended property so that sync can
// replace them without touching the user's own events.
const managedByKey = "subtally"

// Writer pushes subscription renewal events into a Google Calendar.
type Writer struct {
	service *calendar.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Calendar writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	service, err := createCalendarService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &Writer{
		config:  config,
		service: service,
		logger:  logger,
	}, nil
}

// SyncRenewals replaces all previously synced renewal events with events for
// the given subscriptions. Inactive subscriptions and subscriptions without a
// known next payment date are skipped.
func (w *Writer) SyncRenewals(ctx context.Context, subs []model.Subscription) error {
	w.logger.Info("starting renewal sync", "subscriptions", len(subs))

	calendarID, err := w.getOrCreateCalendar(ctx)
	if err != nil {
		return fmt.Errorf("failed to get calendar: %w", err)
	}

	if clearErr := w.clearManagedEvents(ctx, calendarID); clearErr != nil {
		return fmt.Errorf("failed to clear existing events: %w", clearErr)
	}

	renewable := make([]model.Subscription, 0, len(subs))
	for _, s := range subs {
		if s.IsActive && !s.NextPaymentDate.IsZero() {
			renewable = append(renewable, s)
		}
	}

	bar := progressbar.NewOptions(len(renewable),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Syncing renewals...[reset]"),
	)

	retryOpts := common.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	inserted := 0
	for _, sub := range renewable {
		event := w.renewalEvent(sub)

		err = common.WithRetry(ctx, func() error {
			_, insertErr := w.service.Events.Insert(calendarID, event).Context(ctx).Do()
			return insertErr
		}, retryOpts)

		if err != nil {
			return fmt.Errorf("failed to insert event for %s: %w", sub.Name, err)
		}

		inserted++
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	w.logger.Info("renewal sync completed",
		"calendar_id", calendarID,
		"events_created", inserted,
		"skipped", len(subs)-inserted)

	return nil
}

// renewalEvent builds a recurring all-day event for one subscription.
func (w *Writer) renewalEvent(sub model.Subscription) *calendar.Event {
	date := sub.NextPaymentDate.Format("2006-01-02")

	return &calendar.Event{
		Summary:      fmt.Sprintf("%s renewal (%s)", sub.Name, cli.FormatAmount(sub.Amount, sub.Currency)),
		Description:  fmt.Sprintf("Recurring %s payment tracked by subtally.", sub.Frequency),
		Start:        &calendar.EventDateTime{Date: date, TimeZone: w.config.TimeZone},
		End:          &calendar.EventDateTime{Date: date, TimeZone: w.config.TimeZone},
		Recurrence:   []string{RecurrenceRule(sub.Frequency)},
		Transparency: "transparent",
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{"managed_by": managedByKey},
		},
	}
}

// RecurrenceRule returns the RFC 5545 RRULE for a payment frequency.
func RecurrenceRule(freq model.PaymentFrequency) string {
	switch freq {
	case model.FrequencyWeekly:
		return "RRULE:FREQ=WEEKLY"
	case model.FrequencyYearly:
		return "RRULE:FREQ=YEARLY"
	default:
		return "RRULE:FREQ=MONTHLY"
	}
}

// createCalendarService creates a Google Calendar API service.
func createCalendarService(ctx context.Context, config Config) (*calendar.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, calendar.CalendarScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{calendar.CalendarScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create calendar service: %w", err)
	}

	return srv, nil
}

// getOrCreateCalendar gets the configured calendar or creates a dedicated one.
func (w *Writer) getOrCreateCalendar(ctx context.Context) (string, error) {
	if w.config.CalendarID != "" {
		_, err := w.service.Calendars.Get(w.config.CalendarID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access calendar %s: %w", w.config.CalendarID, err)
		}
		return w.config.CalendarID, nil
	}

	list, err := w.service.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to list calendars: %w", err)
	}
	for _, entry := range list.Items {
		if entry.Summary == w.config.CalendarName {
			return entry.Id, nil
		}
	}

	created, err := w.service.Calendars.Insert(&calendar.Calendar{
		Summary:  w.config.CalendarName,
		TimeZone: w.config.TimeZone,
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create calendar: %w", err)
	}

	w.logger.Info("created new calendar", "id", created.Id, "name", created.Summary)
	return created.Id, nil
}

// clearManagedEvents deletes events previously created by us.
func (w *Writer) clearManagedEvents(ctx context.Context, calendarID string) error {
	call := w.service.Events.List(calendarID).
		PrivateExtendedProperty("managed_by=" + managedByKey).
		ShowDeleted(false).
		Context(ctx)

	pageToken := ""
	for {
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		events, err := call.Do()
		if err != nil {
			return fmt.Errorf("unable to list managed events: %w", err)
		}

		for _, event := range events.Items {
			if err := w.service.Events.Delete(calendarID, event.Id).Context(ctx).Do(); err != nil {
				w.logger.Warn("failed to delete stale event", "event_id", event.Id, "error", err)
			}
		}

		if events.NextPageToken == "" {
			return nil
		}
		pageToken = events.NextPageToken
	}
}
