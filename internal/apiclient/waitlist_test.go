package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"bridgex_waitlist/internal/waitlist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords(n int) []waitlist.Record {
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	records := make([]waitlist.Record, n)
	for i := range records {
		st := waitlist.ServiceUser
		if i%2 == 1 {
			st = waitlist.ServiceProvider
		}
		records[i] = waitlist.Record{
			ID:          fmt.Sprintf("id-%02d", i+1),
			Email:       fmt.Sprintf("person%02d@example.com", i+1),
			Phone:       waitlist.BlankPhone,
			Location:    "Lagos",
			ServiceType: st,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
	}
	return records
}

func TestWaitlistService_Join(t *testing.T) {
	var got waitlist.CreateRequest
	client, _, _ := setupClientTest(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, PathContacts, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusCreated, map[string]any{
			"status":  "success",
			"message": "Contact added to waitlist",
			"data": waitlist.Record{
				ID: "c-1", Email: got.Email, Phone: got.Phone, Location: got.Location, ServiceType: got.ServiceType,
			},
		})
	})
	svc := NewWaitlistService(client, nil)

	res, err := svc.Join(context.Background(), waitlist.Submission{Phone: "0803 123 4567", UserType: waitlist.UserTypeProvider})
	require.NoError(t, err)
	assert.Equal(t, waitlist.CreateRequest{
		Email:       waitlist.BlankEmail,
		Phone:       "08031234567",
		Location:    waitlist.DefaultLocation,
		ServiceType: waitlist.ServiceProvider,
	}, got)
	assert.Equal(t, "Successfully joined waitlist", res.Message)
	assert.Equal(t, "08031234567", res.Entry.Contact)
	assert.Equal(t, waitlist.NotAvailable, res.Entry.DisplayEmail())
}

func TestWaitlistService_Join_InvalidSkipsRequest(t *testing.T) {
	var calls int32
	client, _, _ := setupClientTest(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	svc := NewWaitlistService(client, nil)

	_, err := svc.Join(context.Background(), waitlist.Submission{Phone: "123", UserType: waitlist.UserTypeUser})
	var ve *waitlist.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, waitlist.FieldContact, ve.Field)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestWaitlistService_Join_Duplicate(t *testing.T) {
	client, _, _ := setupClientTest(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"code": "CONFLICT", "message": "This email is already on the waitlist"})
	})
	svc := NewWaitlistService(client, nil)

	_, err := svc.Join(context.Background(), waitlist.Submission{Email: "a@b.com", UserType: waitlist.UserTypeUser})
	assert.True(t, IsStatus(err, http.StatusConflict))
}

func TestWaitlistService_List(t *testing.T) {
	records := sampleRecords(25)
	client, _, _ := setupClientTest(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, PathAllContact, r.URL.Path)
		writeJSON(w, http.StatusOK, records)
	})
	svc := NewWaitlistService(client, nil)

	page, err := svc.List(context.Background(), waitlist.ListQuery{Page: 2, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 10)
	assert.Equal(t, "id-11", page.Items[0].ID)
	assert.Equal(t, "id-20", page.Items[9].ID)
	assert.Equal(t, waitlist.Pagination{Page: 2, Limit: 10, Total: 25, TotalPages: 3}, page.Pagination)

	page, err = svc.List(context.Background(), waitlist.ListQuery{Search: "PERSON0", UserType: waitlist.UserTypeProvider})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Pagination.Total)
	for _, e := range page.Items {
		assert.Equal(t, waitlist.ServiceProvider, e.ServiceType)
	}
}

func TestWaitlistService_Search(t *testing.T) {
	client, store, _ := setupClientTest(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, PathContacts, r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "5", q.Get("page_size"))
		assert.Equal(t, "lagos", q.Get("search"))
		assert.Equal(t, string(waitlist.ServiceUser), q.Get("service_type"))
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))

		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"message": "Contacts retrieved successfully",
			"data":    sampleRecords(5),
			"pagination": map[string]any{
				"total_items": 12, "total_pages": 3, "current_page": 2, "page_size": 5,
				"has_next": true, "has_prev": true,
			},
		})
	})
	require.NoError(t, store.Set("access-1", "refresh-1"))
	svc := NewWaitlistService(client, nil)

	page, err := svc.Search(context.Background(), waitlist.ListQuery{Page: 2, Limit: 5, Search: " lagos ", UserType: waitlist.UserTypeUser})
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, waitlist.Pagination{Page: 2, Limit: 5, Total: 12, TotalPages: 3}, page.Pagination)
}

func TestWaitlistService_Stats(t *testing.T) {
	records := sampleRecords(4)
	client, _, _ := setupClientTest(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, records)
	})
	svc := NewWaitlistService(client, nil)
	svc.now = func() time.Time { return time.Date(2026, 10, 3, 12, 0, 0, 0, time.UTC) }

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Users)
	assert.Equal(t, 2, stats.Providers)
	assert.Equal(t, 4, stats.ByLocation["lagos"])
	require.Len(t, stats.DailyStats, waitlist.StatsWindowDays)
	assert.Equal(t, "2026-10-01", stats.DailyStats[4].Date)
	assert.Equal(t, 4, stats.DailyStats[4].Count)
}

func TestWaitlistService_GetUpdateDelete(t *testing.T) {
	record := sampleRecords(1)[0]
	var deleted bool
	client, store, _ := setupClientTest(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, ContactPath(record.ID), r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": record})
		case http.MethodPut:
			var req waitlist.UpdateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.NotNil(t, req.Location)
			assert.Nil(t, req.Email)
			updated := record
			updated.Location = *req.Location
			writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": updated})
		case http.MethodDelete:
			deleted = true
			w.WriteHeader(http.StatusNoContent)
		}
	})
	require.NoError(t, store.Set("access-1", "refresh-1"))
	svc := NewWaitlistService(client, nil)
	ctx := context.Background()

	got, err := svc.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Email, got.Contact)

	abuja := "Abuja"
	updated, err := svc.Update(ctx, record.ID, waitlist.UpdateRequest{Location: &abuja})
	require.NoError(t, err)
	assert.Equal(t, "Abuja", updated.Location)

	require.NoError(t, svc.Delete(ctx, record.ID))
	assert.True(t, deleted)
}

func TestWaitlistService_GetNotFoundNotifies(t *testing.T) {
	client, _, notifier := setupClientTest(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"code": "NOT_FOUND", "message": "Contact not found"})
	})
	svc := NewWaitlistService(client, nil)

	_, err := svc.Get(context.Background(), "missing")
	assert.True(t, IsStatus(err, http.StatusNotFound))
	require.Len(t, notifier.all(), 1)
	assert.Equal(t, "Resource not found.", notifier.all()[0].Message)
}

func TestWaitlistService_RemoteStats(t *testing.T) {
	client, _, _ := setupClientTest(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, PathStats, r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "success",
			"data":   waitlist.Stats{Total: 3, Users: 1, Providers: 2},
		})
	})
	svc := NewWaitlistService(client, nil)

	stats, err := svc.RemoteStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Providers)
}
