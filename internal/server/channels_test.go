package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/mohsen-qasemi/herald/internal/feed"
	"github.com/mohsen-qasemi/herald/internal/store"
)

type srvResolver struct {
	titles map[string]string
}

func (r *srvResolver) Fetch(ctx context.Context, channel string, since time.Time) ([]feed.Item, error) {
	return nil, nil
}

func (r *srvResolver) Resolve(ctx context.Context, channel string) (feed.Info, error) {
	title, ok := r.titles[channel]
	if !ok {
		return feed.Info{}, feed.ErrNotFound
	}
	return feed.Info{Title: title, CanonicalID: channel}, nil
}

func newChannelsHandler(t *testing.T) (*ChannelsHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	h := &ChannelsHandler{
		Store:    &store.Store{DB: db},
		Resolver: &srvResolver{titles: map[string]string{"technews": "Tech News"}},
	}
	return h, mock, func() { db.Close() }
}

func TestListChannels(t *testing.T) {
	h, mock, done := newChannelsHandler(t)
	defer done()

	added := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, channel_username, COALESCE\(channel_title,''\), is_active, added_at, last_checked`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "channel_username", "channel_title", "is_active", "added_at", "last_checked"}).
			AddRow(int64(1), "technews", "Tech News", true, added, nil))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/channels", nil)
	rec := httptest.NewRecorder()
	if err := h.list(e.NewContext(req, rec)); err != nil {
		t.Fatalf("list: %v", err)
	}

	var resp []ChannelResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp) != 1 || resp[0].Username != "technews" || resp[0].Title != "Tech News" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAddChannelStripsAtSign(t *testing.T) {
	h, mock, done := newChannelsHandler(t)
	defer done()

	added := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO monitored_channels`).
		WithArgs("technews", "Tech News").
		WillReturnRows(sqlmock.NewRows([]string{"id", "channel_username", "channel_title", "is_active", "added_at"}).
			AddRow(int64(7), "technews", "Tech News", true, added))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/channels", strings.NewReader(`{"username":"@technews"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.add(e.NewContext(req, rec)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	var resp ChannelResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.ID != 7 || resp.Username != "technews" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAddChannelUnknown(t *testing.T) {
	h, _, done := newChannelsHandler(t)
	defer done()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/channels", strings.NewReader(`{"username":"nosuch"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	err := h.add(e.NewContext(req, rec))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestRemoveChannel(t *testing.T) {
	h, mock, done := newChannelsHandler(t)
	defer done()

	mock.ExpectExec(`UPDATE monitored_channels SET is_active = FALSE`).
		WithArgs("technews").
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/channels/technews", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("username")
	ctx.SetParamValues("technews")
	if err := h.remove(ctx); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRemoveChannelNotMonitored(t *testing.T) {
	h, mock, done := newChannelsHandler(t)
	defer done()

	mock.ExpectExec(`UPDATE monitored_channels SET is_active = FALSE`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/channels/ghost", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("username")
	ctx.SetParamValues("ghost")
	err := h.remove(ctx)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}
