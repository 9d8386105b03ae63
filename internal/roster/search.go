// internal/roster/search.go
package roster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	apperrors "carecase-workers/internal/common/errors"
)

// Page is one page of roster entries.
type Page struct {
	Entries []Entry `json:"entries"`
	Total   int64   `json:"total"`
	From    int     `json:"from"`
	Size    int     `json:"size"`
	Took    int64   `json:"took"` // milliseconds
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source Entry `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Searcher runs roster queries against the progress index.
type Searcher struct {
	client *elasticsearch.Client
	index  string
}

func NewSearcher(client *elasticsearch.Client, index string) *Searcher {
	if index == "" {
		index = DefaultIndex
	}
	return &Searcher{client: client, index: index}
}

// Index returns the index the searcher reads.
func (s *Searcher) Index() string { return s.index }

// Search returns the page of entries matching q, newest snapshot first.
func (s *Searcher) Search(ctx context.Context, q Query) (*Page, error) {
	q = q.normalize()
	req, err := BuildRequest(s.index, q)
	if err != nil {
		return nil, apperrors.NewInputValidationFailedError(err.Error())
	}

	start := time.Now()
	res, err := req.Do(ctx, s.client)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError("elasticsearch", err)
		}
		return nil, apperrors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return nil, apperrors.NewSearchQueryFailedError(
			fmt.Errorf("search %s: %s: %s", s.index, res.Status(), string(raw)))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(fmt.Errorf("decode search response: %w", err))
	}

	page := &Page{
		Entries: make([]Entry, 0, len(parsed.Hits.Hits)),
		Total:   parsed.Hits.Total.Value,
		From:    q.From,
		Size:    q.Size,
		Took:    time.Since(start).Milliseconds(),
	}
	for _, hit := range parsed.Hits.Hits {
		page.Entries = append(page.Entries, hit.Source)
	}
	return page, nil
}
