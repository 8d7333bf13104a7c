package checkoutrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"carrental/util/httpx"
)

const baseURL = "https://api.stripe.com/v1/checkout/sessions"

type httpRepo struct {
	apiKey string
	client *http.Client
}

func NewHTTP(apiKey string) Repo { return &httpRepo{apiKey: apiKey, client: httpx.Client()} }

type sessionResp struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}

func (r *httpRepo) OpenSession(ctx context.Context, req OpenSessionReq) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", req.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(req.AmountMinor, 10))
	form.Set("line_items[0][price_data][product_data][name]", req.Description)
	for k, v := range req.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(r.apiKey, "")
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("checkout session create failed: %s", resp.Status)
	}

	var out sessionResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("checkout: empty session id")
	}
	return &Session{ID: out.ID, RedirectURL: out.URL, PaymentStatus: out.PaymentStatus, Metadata: out.Metadata}, nil
}

func (r *httpRepo) GetSession(ctx context.Context, id string) (*Session, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(r.apiKey, "")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("checkout session %s not found", id)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("checkout session lookup failed: %s", resp.Status)
	}

	var out sessionResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &Session{ID: out.ID, RedirectURL: out.URL, PaymentStatus: out.PaymentStatus, Metadata: out.Metadata}, nil
}
