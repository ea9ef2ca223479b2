package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Ihebbac/ma3sra-backend-go/internal/domain/records"
)

// Source reads the five collections from the mill console's HTTP API. The
// five endpoints are fetched concurrently; a failed or malformed endpoint
// degrades that one collection to empty instead of failing the batch.
type Source struct {
	baseURL string
	client  *http.Client
}

func NewSource(baseURL string, timeout time.Duration) *Source {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Source{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *Source) Fetch(ctx context.Context) (records.Batch, error) {
	var batch records.Batch
	errs := make([]error, 5)

	// Goroutines always return nil: one bad endpoint must not cancel the
	// others, the group is only used to wait.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		batch.Clients, errs[0] = fetchList[records.Client](gCtx, s.client, s.baseURL+"/clients")
		return nil
	})
	g.Go(func() error {
		batch.Tickets, errs[1] = fetchList[records.WeighTicket](gCtx, s.client, s.baseURL+"/fitouras")
		return nil
	})
	g.Go(func() error {
		batch.Transfers, errs[2] = fetchList[records.StockTransfer](gCtx, s.client, s.baseURL+"/transactions")
		return nil
	})
	g.Go(func() error {
		batch.Ledger, errs[3] = fetchList[records.LedgerEntry](gCtx, s.client, s.baseURL+"/caisse")
		return nil
	})
	g.Go(func() error {
		// Employees carry their attendance sheet in the same document.
		batch.Employees, errs[4] = fetchList[records.Employee](gCtx, s.client, s.baseURL+"/employes")
		return nil
	})
	_ = g.Wait()

	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	switch {
	case len(failed) == len(errs):
		return records.Batch{}, fmt.Errorf("%w: %w", records.ErrNoData, errors.Join(failed...))
	case len(failed) > 0:
		return batch, fmt.Errorf("%w: %w", records.ErrPartialFetch, errors.Join(failed...))
	default:
		return batch, nil
	}
}

// fetchList GETs one list endpoint and decodes it. The console API usually
// responds with a bare array, some deployments wrap it in {"data": [...]}.
func fetchList[T any](ctx context.Context, client *http.Client, url string) ([]T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}

	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
			body = envelope.Data
		}
	}

	var out []T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%s: decoding response: %w", url, err)
	}
	return out, nil
}
