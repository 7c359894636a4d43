package out

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"rehab/internal/modules/history/domain"
	"rehab/internal/platform/httpapi"
)

const (
	historyPath = "/assessments/history"
	recordPath  = "/assessments/%d"
)

type HTTPRemote struct {
	client *httpapi.Client
}

func NewHTTPRemote(client *httpapi.Client) *HTTPRemote {
	return &HTTPRemote{client: client}
}

type recordBody struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
	Error     string         `json:"error"`
}

func (b recordBody) toDomain() domain.Record {
	created, _ := httpapi.ParseTime(b.CreatedAt)
	updated, _ := httpapi.ParseTime(b.UpdatedAt)
	return domain.Record{
		ID:        b.ID,
		UserID:    b.UserID,
		Type:      b.Type,
		Data:      b.Data,
		CreatedAt: created,
		UpdatedAt: updated,
		Error:     b.Error,
	}
}

func (r *HTTPRemote) List(ctx context.Context, limit int) ([]domain.Record, error) {
	path := historyPath
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	var body []recordBody
	if err := r.client.Do(ctx, httpapi.Request{Method: http.MethodGet, Path: path}, &body); err != nil {
		return nil, err
	}
	out := make([]domain.Record, len(body))
	for i, b := range body {
		out[i] = b.toDomain()
	}
	return out, nil
}

func (r *HTTPRemote) Get(ctx context.Context, id int64) (domain.Record, error) {
	var body recordBody
	if err := r.client.Do(ctx, httpapi.Request{Method: http.MethodGet, Path: fmt.Sprintf(recordPath, id)}, &body); err != nil {
		return domain.Record{}, err
	}
	return body.toDomain(), nil
}

func (r *HTTPRemote) Delete(ctx context.Context, id int64) error {
	return r.client.Do(ctx, httpapi.Request{Method: http.MethodDelete, Path: fmt.Sprintf(recordPath, id)}, nil)
}
