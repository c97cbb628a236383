package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/nadermx/heroesandmore-client/internal/credentials"
	"github.com/nadermx/heroesandmore-client/internal/metrics"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

type renewalRequest struct {
	Refresh string `json:"refresh"`
}

type renewalResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// StartSession stores a freshly issued credential pair.
func (g *Gateway) StartSession(ctx context.Context, tokens domain.AuthTokens) error {
	g.sessionMu.Lock()
	defer g.sessionMu.Unlock()

	if tokens.Access == "" || tokens.Refresh == "" {
		return &Error{Kind: KindDecodingFailed, Message: "credential pair incomplete"}
	}
	return credentials.SaveSession(ctx, g.store, credentials.Session{
		Access:  tokens.Access,
		Renewal: tokens.Refresh,
	})
}

// EndSession clears both credentials.
func (g *Gateway) EndSession(ctx context.Context) error {
	g.sessionMu.Lock()
	defer g.sessionMu.Unlock()

	return credentials.ClearSession(ctx, g.store)
}

// HasSession reports whether an access credential is stored.
func (g *Gateway) HasSession(ctx context.Context) (bool, error) {
	sess, err := credentials.LoadSession(ctx, g.store)
	if err != nil {
		return false, err
	}
	return !sess.Empty(), nil
}

// renew obtains a new access credential after stale was rejected with a
// 401. Concurrent callers rejected for the same credential share one
// renewal. If another caller already replaced stale, the stored credential
// is returned without a network call.
func (g *Gateway) renew(ctx context.Context, stale string) (string, error) {
	ch := g.renewals.DoChan(stale, func() (any, error) {
		// Detached so one caller abandoning its request does not fail the
		// renewal for every other waiter.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.renewalTimeout)
		defer cancel()
		return g.renewLocked(rctx, stale)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		access, _ := res.Val.(string)
		return access, nil
	case <-ctx.Done():
		return "", networkFailure(ctx.Err())
	}
}

func (g *Gateway) renewLocked(ctx context.Context, stale string) (string, error) {
	g.sessionMu.Lock()
	defer g.sessionMu.Unlock()

	sess, err := credentials.LoadSession(ctx, g.store)
	if err != nil {
		metrics.GatewayRenewalsTotal.WithLabelValues("error").Inc()
		return "", invalidRequest("credential store unavailable", err)
	}

	if sess.Access != "" && sess.Access != stale {
		metrics.GatewayRenewalsTotal.WithLabelValues("reused").Inc()
		return sess.Access, nil
	}

	if sess.Renewal == "" {
		g.log.Info("session ended: no renewal credential")
		return "", g.endLocked(ctx, unauthorized(0, "no renewal credential"))
	}

	target, err := g.resolve(Request{Method: http.MethodPost, Path: g.renewalPath})
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(renewalRequest{Refresh: sess.Renewal})
	if err != nil {
		return "", invalidRequest("encoding renewal request", err)
	}
	enc := func() (io.Reader, string, error) {
		return bytes.NewReader(payload), contentTypeJSON, nil
	}

	status, body, err := g.attempt(ctx, http.MethodPost, target, nil, "", g.renewalTimeout, enc)
	if err != nil {
		// Connectivity loss proves nothing about the session; keep it.
		metrics.GatewayRenewalsTotal.WithLabelValues("error").Inc()
		g.log.Warn("credential renewal unreachable", "error", err)
		return "", err
	}

	if status != http.StatusOK {
		g.log.Info("session ended: renewal rejected", "status", status)
		return "", g.endLocked(ctx, unauthorized(status, extractMessage(body)))
	}

	var resp renewalResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Access == "" {
		g.log.Warn("session ended: malformed renewal response")
		return "", g.endLocked(ctx, unauthorized(status, "malformed renewal response"))
	}

	if err := credentials.SaveSession(ctx, g.store, credentials.Session{
		Access:  resp.Access,
		Renewal: resp.Refresh,
	}); err != nil {
		metrics.GatewayRenewalsTotal.WithLabelValues("error").Inc()
		return "", &Error{Kind: KindUnauthorized, Message: "storing renewed credentials", Err: err}
	}

	metrics.GatewayRenewalsTotal.WithLabelValues("renewed").Inc()
	g.log.Info("credentials renewed", "rotated", resp.Refresh != "")
	return resp.Access, nil
}

// endLocked clears the session after an irrecoverable renewal failure and
// returns cause, annotated with any store failure.
func (g *Gateway) endLocked(ctx context.Context, cause *Error) error {
	metrics.GatewayRenewalsTotal.WithLabelValues("rejected").Inc()
	if err := credentials.ClearSession(ctx, g.store); err != nil {
		cause.Err = errors.Join(cause.Err, fmt.Errorf("clearing session: %w", err))
	}
	return cause
}
