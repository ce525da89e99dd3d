package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvloznov/ledger-sync/internal/domain"
)

// dateLayout is the date-only query encoding for period boundaries.
const dateLayout = "2006-01-02"

// Client is the HTTP-backed implementation of LedgerService.
type Client struct {
	baseURL *url.URL
	token   string
	httpc   *http.Client
	log     zerolog.Logger
}

// NewClient creates a Client talking to the ledger API at baseURL, presenting
// token as a bearer credential.
func NewClient(baseURL, token string, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	return &Client{
		baseURL: u,
		token:   token,
		httpc:   &http.Client{Timeout: timeout},
		log:     log,
	}, nil
}

// TransactionsByPeriod implements LedgerService.
func (c *Client) TransactionsByPeriod(ctx context.Context, accountID int, start, end time.Time) ([]domain.Transaction, error) {
	query := url.Values{
		"startDate": {start.Format(dateLayout)},
		"endDate":   {end.Format(dateLayout)},
	}

	var transactions []domain.Transaction
	path := fmt.Sprintf("transactions/account/%d/period", accountID)
	if err := c.do(ctx, http.MethodGet, path, query, nil, &transactions); err != nil {
		return nil, fmt.Errorf("TransactionsByPeriod: %w", err)
	}
	return transactions, nil
}

// CreateTransaction implements LedgerService.
func (c *Client) CreateTransaction(ctx context.Context, req TransactionRequest) (TransactionRecord, error) {
	var record TransactionRecord
	if err := c.do(ctx, http.MethodPost, "transactions", nil, req, &record); err != nil {
		return TransactionRecord{}, fmt.Errorf("CreateTransaction: %w", err)
	}
	return record, nil
}

// UpdateTransaction implements LedgerService.
func (c *Client) UpdateTransaction(ctx context.Context, id int, req TransactionRequest) (domain.Transaction, error) {
	var tx domain.Transaction
	path := fmt.Sprintf("transactions/%d", id)
	if err := c.do(ctx, http.MethodPut, path, nil, req, &tx); err != nil {
		return domain.Transaction{}, fmt.Errorf("UpdateTransaction: %w", err)
	}
	return tx, nil
}

// DeleteTransaction implements LedgerService.
func (c *Client) DeleteTransaction(ctx context.Context, id int) error {
	path := fmt.Sprintf("transactions/%d", id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("DeleteTransaction: %w", err)
	}
	return nil
}

// Accounts implements LedgerService.
func (c *Client) Accounts(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	if err := c.do(ctx, http.MethodGet, "accounts", nil, nil, &accounts); err != nil {
		return nil, fmt.Errorf("Accounts: %w", err)
	}
	return accounts, nil
}

// AccountByID implements LedgerService.
func (c *Client) AccountByID(ctx context.Context, id int) (domain.Account, error) {
	var account domain.Account
	path := fmt.Sprintf("accounts/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &account); err != nil {
		return domain.Account{}, fmt.Errorf("AccountByID: %w", err)
	}
	return account, nil
}

// Categories implements LedgerService.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.do(ctx, http.MethodGet, "categories", nil, nil, &categories); err != nil {
		return nil, fmt.Errorf("Categories: %w", err)
	}
	return categories, nil
}

// CategoryByID implements LedgerService.
func (c *Client) CategoryByID(ctx context.Context, id int) (domain.Category, error) {
	var category domain.Category
	path := fmt.Sprintf("categories/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &category); err != nil {
		return domain.Category{}, fmt.Errorf("CategoryByID: %w", err)
	}
	return category, nil
}

// do performs one typed request/response exchange. body and out may be nil.
// Errors map onto the module taxonomy: ErrUnavailable for transport failures,
// StatusError for non-2xx responses, DecodeError for unreadable payloads.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %s", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %s", ErrUnavailable, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Ledger request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, Message: errorMessage(payload)}
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// errorMessage extracts the server's structured message from an error body,
// falling back to the raw text when it isn't the documented JSON shape.
func errorMessage(payload []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return strings.TrimSpace(string(payload))
}
