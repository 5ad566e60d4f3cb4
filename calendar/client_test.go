package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/darrancebeh/ischedulr/schedule"
)

func testLogger() *log.Entry {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return log.NewEntry(logger)
}

func testDay(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", value, schedule.Location())
	if err != nil {
		t.Fatal("bad test date: ", err)
	}
	return d
}

func TestCreateTimedEventPayload(t *testing.T) {
	var captured wireEvent
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Error("bad payload: ", err)
		}
		fmt.Fprint(w, `{"id": "evt-1"}`)
	}))
	defer server.Close()

	client := NewClientForBase(testLogger(), server.Client(), server.URL, server.URL+"/userinfo")
	start, end, err := schedule.ParseTimeRange("08:00 - 10:00", testDay(t, "2025-06-23"))
	if err != nil {
		t.Fatal(err)
	}
	id, err := client.CreateEvent(context.Background(), "tok", schedule.TimedEvent{
		Summary:     "Capstone Project (BIT3)",
		Venue:       "UW2-9",
		Description: "Lecturer: Dr. Lim",
		Start:       start,
		End:         end,
	})
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}
	if id != "evt-1" {
		t.Errorf("id = %q", id)
	}
	if captured.Summary != "Capstone Project (BIT3)" || captured.Location != "UW2-9" {
		t.Errorf("summary/location = %q/%q", captured.Summary, captured.Location)
	}
	if captured.Start.TimeZone != schedule.TimeZone {
		t.Errorf("start timezone = %q", captured.Start.TimeZone)
	}
	if captured.Start.DateTime == "" || captured.Start.Date != "" {
		t.Errorf("timed event must use dateTime, got %+v", captured.Start)
	}
	if captured.Transparency != "" {
		t.Errorf("timed events must block availability, got %q", captured.Transparency)
	}
}

func TestCreateAllDayEventPayload(t *testing.T) {
	var captured wireEvent
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Error("bad payload: ", err)
		}
		fmt.Fprint(w, `{"id": "evt-2"}`)
	}))
	defer server.Close()

	client := NewClientForBase(testLogger(), server.Client(), server.URL, server.URL+"/userinfo")
	_, err := client.CreateEvent(context.Background(), "tok", schedule.FormatReminderEvent(
		"Academic Week 1",
		testDay(t, "2025-06-23"),
	))
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}
	if captured.Start.Date != "2025-06-23" {
		t.Errorf("start date = %q", captured.Start.Date)
	}
	if captured.End.Date != "2025-06-24" {
		t.Errorf("end date = %q, want the following day", captured.End.Date)
	}
	if captured.Transparency != "transparent" {
		t.Errorf("transparency = %q", captured.Transparency)
	}
	if captured.Start.DateTime != "" {
		t.Error("all day events must not carry a dateTime")
	}
}

func TestCreateEventRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": 403}}`, http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClientForBase(testLogger(), server.Client(), server.URL, server.URL+"/userinfo")
	_, err := client.CreateEvent(context.Background(), "tok", schedule.FormatReminderEvent("x", testDay(t, "2025-06-23")))
	var remoteErr *RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("error = %v, want RemoteError", err)
	}
	if remoteErr.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d", remoteErr.StatusCode)
	}
}

func TestCreateEventSoftFailureWithoutID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := NewClientForBase(testLogger(), server.Client(), server.URL, server.URL+"/userinfo")
	id, err := client.CreateEvent(context.Background(), "tok", schedule.FormatReminderEvent("x", testDay(t, "2025-06-23")))
	if err != nil {
		t.Fatal("a missing id is a soft failure, got error: ", err)
	}
	if id != "" {
		t.Errorf("id = %q, want empty", id)
	}
}

func TestDeleteEventToleratesAlreadyGone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer server.Close()

	client := NewClientForBase(testLogger(), server.Client(), server.URL, server.URL+"/userinfo")
	if err := client.DeleteEvent(context.Background(), "tok", "evt-1"); err != nil {
		t.Error("already deleted events should not fail the undo: ", err)
	}
}

func TestCallsRequireToken(t *testing.T) {
	client := NewClientForBase(testLogger(), http.DefaultClient, "http://localhost:0", "http://localhost:0")
	ctx := context.Background()
	if _, err := client.CreateEvent(ctx, "", schedule.FormatReminderEvent("x", time.Now())); !errors.Is(err, ErrNoToken) {
		t.Errorf("create error = %v, want ErrNoToken", err)
	}
	if err := client.DeleteEvent(ctx, "", "evt"); !errors.Is(err, ErrNoToken) {
		t.Errorf("delete error = %v, want ErrNoToken", err)
	}
	if _, err := client.UserInfo(ctx, ""); !errors.Is(err, ErrNoToken) {
		t.Errorf("userinfo error = %v, want ErrNoToken", err)
	}
}

func TestUserInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "acct-9", "email": "student@imail.sunway.edu.my"}`)
	}))
	defer server.Close()

	client := NewClientForBase(testLogger(), server.Client(), server.URL, server.URL)
	account, err := client.UserInfo(context.Background(), "tok")
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}
	if account.ID != "acct-9" || account.Email != "student@imail.sunway.edu.my" {
		t.Errorf("account = %+v", account)
	}
}
