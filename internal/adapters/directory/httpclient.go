package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"revive/internal/domain/member"
)

// memberPayload is the wire shape of a member on the directory API.
type memberPayload struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Weight         float64 `json:"weight,omitempty"`
	MembershipType string  `json:"membershipType"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
	PaymentStatus  string  `json:"paymentStatus"`
	PhotoURL       string  `json:"photo,omitempty"`
}

func (p memberPayload) toDomain() (member.Member, error) {
	m := member.Member{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		Phone:          p.Phone,
		Weight:         p.Weight,
		MembershipType: p.MembershipType,
		PaymentStatus:  p.PaymentStatus,
		PhotoURL:       p.PhotoURL,
	}
	var err error
	if p.StartDate != "" {
		if m.StartDate, err = member.ParseDate(p.StartDate); err != nil {
			return member.Member{}, fmt.Errorf("member %s: bad startDate: %w", p.ID, err)
		}
	}
	if p.EndDate != "" {
		if m.EndDate, err = member.ParseDate(p.EndDate); err != nil {
			return member.Member{}, fmt.Errorf("member %s: bad endDate: %w", p.ID, err)
		}
	}
	return m, nil
}

// HTTPClient implements Directory against the Revive REST API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client for the directory API at baseURL
// (e.g. "http://localhost:8080").
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// List fetches one page of members.
// PRE: q.Page >= 1 and q.Limit > 0 when paging is wanted
// POST: Page.HasMore reflects the server's verdict, never a client guess
func (c *HTTPClient) List(ctx context.Context, q Query) (Page, error) {
	params := url.Values{}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	endpoint := c.baseURL + "/api/members"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var body struct {
		Data    []memberPayload `json:"data"`
		HasMore bool            `json:"hasMore"`
	}
	if err := c.getJSON(ctx, endpoint, &body); err != nil {
		return Page{}, err
	}

	page := Page{HasMore: body.HasMore}
	for _, p := range body.Data {
		m, err := p.toDomain()
		if err != nil {
			return Page{}, err
		}
		page.Items = append(page.Items, m)
	}
	return page, nil
}

// Create registers a new member. A non-nil Photo is uploaded alongside
// the form fields.
func (c *HTTPClient) Create(ctx context.Context, m member.Member) (member.Member, error) {
	return c.submitForm(ctx, http.MethodPost, c.baseURL+"/api/members", m)
}

// Update replaces an existing member's details. A nil Photo leaves the
// stored photo untouched.
func (c *HTTPClient) Update(ctx context.Context, m member.Member) (member.Member, error) {
	if m.ID == "" {
		return member.Member{}, member.ErrNotFound
	}
	return c.submitForm(ctx, http.MethodPut, c.baseURL+"/api/members/"+url.PathEscape(m.ID), m)
}

// Delete removes a member.
// POST: Returns member.ErrNotFound when the id is unknown
func (c *HTTPClient) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/members/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("directory delete: %w", err)
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

// Stats fetches the dashboard counters.
func (c *HTTPClient) Stats(ctx context.Context) (Stats, error) {
	var body struct {
		TotalMembers    int `json:"totalMembers"`
		ActiveMembers   int `json:"activeMembers"`
		UnpaidMembers   int `json:"unpaidMembers"`
		ExpiringMembers int `json:"expiringMembers"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/api/dashboard/stats", &body); err != nil {
		return Stats{}, err
	}
	return Stats{
		TotalMembers:    body.TotalMembers,
		ActiveMembers:   body.ActiveMembers,
		UnpaidMembers:   body.UnpaidMembers,
		ExpiringMembers: body.ExpiringMembers,
	}, nil
}

// ExpiringSoon fetches paid members whose membership ends within the
// next few days, soonest first.
func (c *HTTPClient) ExpiringSoon(ctx context.Context) ([]member.Member, error) {
	var body struct {
		Data []memberPayload `json:"data"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/api/dashboard/expiring", &body); err != nil {
		return nil, err
	}
	var members []member.Member
	for _, p := range body.Data {
		m, err := p.toDomain()
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("directory get: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) submitForm(ctx context.Context, method, endpoint string, m member.Member) (member.Member, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":           m.Name,
		"email":          m.Email,
		"phone":          m.Phone,
		"membershipType": m.MembershipType,
		"paymentStatus":  m.PaymentStatus,
	}
	if m.Weight > 0 {
		fields["weight"] = strconv.FormatFloat(m.Weight, 'f', -1, 64)
	}
	if !m.StartDate.IsZero() {
		fields["startDate"] = m.StartDate.String()
	}
	if !m.EndDate.IsZero() {
		fields["endDate"] = m.EndDate.String()
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return member.Member{}, err
		}
	}
	if m.Photo != nil {
		fw, err := w.CreateFormFile("photo", "photo")
		if err != nil {
			return member.Member{}, err
		}
		if _, err := fw.Write(m.Photo); err != nil {
			return member.Member{}, err
		}
	}
	if err := w.Close(); err != nil {
		return member.Member{}, err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, &buf)
	if err != nil {
		return member.Member{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return member.Member{}, fmt.Errorf("directory submit: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return member.Member{}, err
	}

	var payload memberPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return member.Member{}, err
	}
	return payload.toDomain()
}

// checkStatus maps a non-2xx response to a caller-friendly error.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusNotFound {
		return member.ErrNotFound
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &TransportError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
}
