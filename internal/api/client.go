// Package api is the client for the game server. Every call is a
// form-encoded POST that returns a JSON envelope with a status code and a
// fresh session token.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	applog "github.com/samdwyer/sortie/internal/log"
	"github.com/samdwyer/sortie/internal/telemetry"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) sortie"
	maxBodyBytes     = 8 << 20
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	UserID    string
	Cookie    string
	Token     string
	Timeout   time.Duration
	RateLimit rate.Limit // requests per second, zero for unlimited
	RateBurst int
	UserAgent string

	// HTTPClient overrides the transport. Its Timeout is left untouched.
	HTTPClient *http.Client
}

// Client talks to the game server. It is safe for concurrent use, though a
// session only ever issues one request at a time.
type Client struct {
	base    string
	userID  string
	cookie  string
	agent   string
	http    *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger

	mu    sync.Mutex
	token string
}

func normalizeOptions(opts Options) Options {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 1
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = rate.Inf
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/") + "/"
	return opts
}

// New creates a client. BaseURL must be an absolute URL.
func New(opts Options) (*Client, error) {
	opts = normalizeOptions(opts)
	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api: invalid base url %q", opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &Client{
		base:    opts.BaseURL,
		userID:  opts.UserID,
		cookie:  opts.Cookie,
		agent:   opts.UserAgent,
		http:    hc,
		limiter: rate.NewLimiter(opts.RateLimit, opts.RateBurst),
		log:     applog.WithComponent("api"),
		token:   opts.Token,
	}, nil
}

// Token returns the current session token.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

type envelope struct {
	Status Int    `json:"status"`
	Token  string `json:"t"`
}

// post sends one request and decodes the body into out when out is non-nil.
// Connection failures are never retried.
func (c *Client) post(ctx context.Context, endpoint string, form url.Values, out any) (err error) {
	ctx, span := telemetry.Tracer("api").Start(ctx, "api."+endpoint)
	span.SetAttributes(attribute.String("api.endpoint", endpoint))
	start := time.Now()
	defer func() {
		observeRequest(endpoint, err, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Sentinel: ErrConnection, Endpoint: endpoint, Err: err}
	}

	if form == nil {
		form = url.Values{}
	}
	form.Set("sword", c.cookie)
	form.Set("t", c.Token())

	reqURL := c.base + endpoint + "?uid=" + url.QueryEscape(c.userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return &Error{Sentinel: ErrConnection, Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("User-Agent", c.agent)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	res, err := c.http.Do(req)
	if err != nil {
		return &Error{Sentinel: ErrConnection, Endpoint: endpoint, Err: err}
	}
	defer res.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode))

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return &Error{Sentinel: ErrConnection, Endpoint: endpoint, HTTP: res.StatusCode, Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &Error{Sentinel: ErrBadResponse, Endpoint: endpoint, HTTP: res.StatusCode}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &Error{Sentinel: ErrBadResponse, Endpoint: endpoint, HTTP: res.StatusCode, Err: err}
	}
	if env.Status != 0 {
		return &Error{Sentinel: ErrRejected, Endpoint: endpoint, HTTP: res.StatusCode, Code: int(env.Status)}
	}
	if env.Token != "" {
		c.mu.Lock()
		c.token = env.Token
		c.mu.Unlock()
	}

	c.log.Debug().
		Str(applog.FieldEndpoint, endpoint).
		Dur(applog.FieldDuration, time.Since(start)).
		Msg("api call")

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bytes.TrimSpace(body), out); err != nil {
		return &Error{Sentinel: ErrBadResponse, Endpoint: endpoint, HTTP: res.StatusCode, Err: err}
	}
	return nil
}

// Sally fetches the sortie overview with the running event.
func (c *Client) Sally(ctx context.Context) (*SallyInfo, error) {
	var out SallyInfo
	if err := c.post(ctx, "sally", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecoverEventCost buys num entry tickets for an event. num must be 1 to 3.
func (c *Client) RecoverEventCost(ctx context.Context, eventID, num int) error {
	if num < 1 || num > 3 {
		return fmt.Errorf("api: recover cost: num %d outside 1..3", num)
	}
	form := url.Values{}
	form.Set("event_id", strconv.Itoa(eventID))
	form.Set("num", strconv.Itoa(num))
	return c.post(ctx, "sally/recovercost", form, nil)
}

// Sortie starts a regular map session.
func (c *Client) Sortie(ctx context.Context, party, episode, field int) error {
	form := url.Values{}
	form.Set("party_no", strconv.Itoa(party))
	form.Set("episode_id", strconv.Itoa(episode))
	form.Set("field_id", strconv.Itoa(field))
	return c.post(ctx, "sally/sally", form, nil)
}

// Forward advances one cell on a regular map.
func (c *Client) Forward(ctx context.Context) (*ForwardResult, error) {
	form := url.Values{}
	form.Set("direction", "0")
	var out ForwardResult
	if err := c.post(ctx, "sally/forward", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EventSally starts an event session.
func (c *Client) EventSally(ctx context.Context, req EventSally) (*EventSallyResult, error) {
	var out EventSallyResult
	if err := c.post(ctx, "sally/eventsally", req.sallyForm(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EventForward advances one cell on an event map.
func (c *Client) EventForward(ctx context.Context, req EventForward) (*ForwardResult, error) {
	var out ForwardResult
	if err := c.post(ctx, "sally/eventforward", req.forwardForm(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Battle fights the current cell with the given formation.
func (c *Client) Battle(ctx context.Context, formation int) (*EncryptedReport, error) {
	form := url.Values{}
	form.Set("formation_id", strconv.Itoa(formation))
	return c.report(ctx, "battle/battle", form)
}

// AllOutBattle fights a consecutive team battle.
func (c *Client) AllOutBattle(ctx context.Context, party int) (*EncryptedReport, error) {
	form := url.Values{}
	form.Set("party_no", strconv.Itoa(party))
	return c.report(ctx, "battle/alloutbattle", form)
}

func (c *Client) report(ctx context.Context, endpoint string, form url.Values) (*EncryptedReport, error) {
	var out EncryptedReport
	if err := c.post(ctx, endpoint, form, &out); err != nil {
		return nil, err
	}
	if out.Data == "" || out.IV == "" {
		return nil, &Error{Sentinel: ErrBadResponse, Endpoint: endpoint, Err: errors.New("empty report")}
	}
	return &out, nil
}

// SallyPartyInfo refreshes the party state between consecutive battles.
func (c *Client) SallyPartyInfo(ctx context.Context) error {
	return c.post(ctx, "party/get_sally_party_info", nil, nil)
}

// HomeReturn ends a regular map session.
func (c *Client) HomeReturn(ctx context.Context) error {
	return c.post(ctx, "sally/homereturn", nil, nil)
}

// EventReturn abandons an event session.
func (c *Client) EventReturn(ctx context.Context) (*EventReturnResult, error) {
	var out EventReturnResult
	if err := c.post(ctx, "sally/eventreturn", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Home returns to the home screen, closing any finished session.
func (c *Client) Home(ctx context.Context) error {
	return c.post(ctx, "home", nil, nil)
}

// PartyList fetches every party with its members.
func (c *Client) PartyList(ctx context.Context) (*PartyList, error) {
	var out PartyList
	if err := c.post(ctx, "party/list", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
