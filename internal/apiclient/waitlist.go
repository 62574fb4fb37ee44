// File: internal/apiclient/waitlist.go
package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bridgex_waitlist/internal/waitlist"

	"go.uber.org/zap"
)

// JoinResult is returned by a successful Join.
type JoinResult struct {
	Message string
	Entry   waitlist.Entry
}

// WaitlistService wraps the waitlist endpoints.
type WaitlistService struct {
	client *Client
	logger *zap.Logger
	now    func() time.Time
}

// NewWaitlistService creates a WaitlistService on top of client.
func NewWaitlistService(client *Client, logger *zap.Logger) *WaitlistService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WaitlistService{client: client, logger: logger, now: time.Now}
}

// Join validates the submission and adds it to the waitlist. Validation
// failures are returned as *waitlist.ValidationError without calling the API.
func (w *WaitlistService) Join(ctx context.Context, sub waitlist.Submission) (*JoinResult, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	var record waitlist.Record
	if err := w.client.Do(ctx, http.MethodPost, PathContacts, sub.ToCreateRequest(), &record); err != nil {
		w.logger.Error("Error joining waitlist", zap.Error(err))
		return nil, err
	}
	return &JoinResult{Message: "Successfully joined waitlist", Entry: waitlist.NewEntry(record)}, nil
}

// All fetches the whole waitlist.
func (w *WaitlistService) All(ctx context.Context) ([]waitlist.Entry, error) {
	var records []waitlist.Record
	if err := w.client.Do(ctx, http.MethodGet, PathAllContact, nil, &records); err != nil {
		w.logger.Error("Error fetching waitlist", zap.Error(err))
		return nil, err
	}
	return waitlist.NewEntries(records), nil
}

// List fetches the whole waitlist and filters and paginates it locally.
func (w *WaitlistService) List(ctx context.Context, q waitlist.ListQuery) (*waitlist.Page, error) {
	entries, err := w.All(ctx)
	if err != nil {
		return nil, err
	}
	page := waitlist.FilterAndPaginate(entries, q)
	return &page, nil
}

type searchResponse struct {
	Data       []waitlist.Record `json:"data"`
	Pagination struct {
		TotalItems  int `json:"total_items"`
		TotalPages  int `json:"total_pages"`
		CurrentPage int `json:"current_page"`
		PageSize    int `json:"page_size"`
	} `json:"pagination"`
}

// Search runs the same query as List but lets the server filter and paginate.
func (w *WaitlistService) Search(ctx context.Context, q waitlist.ListQuery) (*waitlist.Page, error) {
	q = q.Normalize()
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("page_size", strconv.Itoa(q.Limit))
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if st, ok := q.ServiceTypeFilter(); ok {
		params.Set("service_type", string(st))
	}

	var resp searchResponse
	if err := w.client.Do(ctx, http.MethodGet, PathContacts+"?"+params.Encode(), nil, &resp); err != nil {
		w.logger.Error("Error searching waitlist", zap.Error(err))
		return nil, err
	}
	return &waitlist.Page{
		Items: waitlist.NewEntries(resp.Data),
		Pagination: waitlist.Pagination{
			Page:       resp.Pagination.CurrentPage,
			Limit:      resp.Pagination.PageSize,
			Total:      resp.Pagination.TotalItems,
			TotalPages: resp.Pagination.TotalPages,
		},
	}, nil
}

// Stats computes waitlist statistics from the full list.
func (w *WaitlistService) Stats(ctx context.Context) (*waitlist.Stats, error) {
	var records []waitlist.Record
	if err := w.client.Do(ctx, http.MethodGet, PathAllContact, nil, &records); err != nil {
		w.logger.Error("Error fetching waitlist stats", zap.Error(err))
		return nil, err
	}
	stats := waitlist.ComputeStats(records, w.now())
	return &stats, nil
}

// RemoteStats asks the server for the same statistics Stats computes locally.
func (w *WaitlistService) RemoteStats(ctx context.Context) (*waitlist.Stats, error) {
	var stats waitlist.Stats
	if err := w.client.Do(ctx, http.MethodGet, PathStats, nil, &stats); err != nil {
		w.logger.Error("Error fetching server stats", zap.Error(err))
		return nil, err
	}
	return &stats, nil
}

// Get fetches one contact.
func (w *WaitlistService) Get(ctx context.Context, id string) (*waitlist.Entry, error) {
	var record waitlist.Record
	if err := w.client.Do(ctx, http.MethodGet, ContactPath(id), nil, &record); err != nil {
		w.logger.Error("Error fetching contact", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	entry := waitlist.NewEntry(record)
	return &entry, nil
}

// Update changes a contact.
func (w *WaitlistService) Update(ctx context.Context, id string, req waitlist.UpdateRequest) (*waitlist.Entry, error) {
	var record waitlist.Record
	if err := w.client.Do(ctx, http.MethodPut, ContactPath(id), req, &record); err != nil {
		w.logger.Error("Error updating contact", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	entry := waitlist.NewEntry(record)
	return &entry, nil
}

// Delete removes a contact.
func (w *WaitlistService) Delete(ctx context.Context, id string) error {
	if err := w.client.Do(ctx, http.MethodDelete, ContactPath(id), nil, nil); err != nil {
		w.logger.Error("Error deleting contact", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}
