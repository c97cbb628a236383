package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nadermx/heroesandmore-client/internal/gateway"
	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// ScanImage uploads a JPEG photo for identification.
func (c *Client) ScanImage(ctx context.Context, image []byte) (*domain.ScanResult, error) {
	return c.scan(ctx, "/scanner/scan/", image)
}

// AddScanToSession uploads a JPEG photo into an open scan session.
func (c *Client) AddScanToSession(ctx context.Context, sessionID int64, image []byte) (*domain.ScanResult, error) {
	if err := requireID("session id", sessionID); err != nil {
		return nil, err
	}
	return c.scan(ctx, fmt.Sprintf("/scanner/sessions/%d/scan/", sessionID), image)
}

func (c *Client) scan(ctx context.Context, path string, image []byte) (*domain.ScanResult, error) {
	if len(image) == 0 {
		return nil, invalid("scan image is empty")
	}
	var res domain.ScanResult
	err := c.gw.Upload(ctx,
		gateway.Request{Method: http.MethodPost, Path: path},
		gateway.FilePart{
			Field:       "image",
			Filename:    fmt.Sprintf("scan_%d.jpg", time.Now().Unix()),
			ContentType: "image/jpeg",
			Data:        image,
		},
		nil, &res,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Scans returns one page of the signed-in user's scan history.
func (c *Client) Scans(ctx context.Context, page int) (*domain.Page[domain.ScanResult], error) {
	return getPage[domain.ScanResult](ctx, c, "/scanner/scans/", pageQuery(page))
}

func (c *Client) Scan(ctx context.Context, id int64) (*domain.ScanResult, error) {
	if err := requireID("scan id", id); err != nil {
		return nil, err
	}
	var res domain.ScanResult
	if err := c.gw.Get(ctx, fmt.Sprintf("/scanner/scans/%d/", id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DeleteScan(ctx context.Context, id int64) error {
	if err := requireID("scan id", id); err != nil {
		return err
	}
	return c.gw.Delete(ctx, fmt.Sprintf("/scanner/scans/%d/", id), nil)
}

func (c *Client) ScanSessions(ctx context.Context, page int) (*domain.Page[domain.ScanSession], error) {
	return getPage[domain.ScanSession](ctx, c, "/scanner/sessions/", pageQuery(page))
}

// CreateScanSession opens a session. The name is optional.
func (c *Client) CreateScanSession(ctx context.Context, req domain.ScanSessionInput) (*domain.ScanSession, error) {
	if err := c.check(req); err != nil {
		return nil, err
	}
	var s domain.ScanSession
	if err := c.gw.Post(ctx, "/scanner/sessions/", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ScanSession returns a session with its scans.
func (c *Client) ScanSession(ctx context.Context, id int64) (*domain.ScanSession, error) {
	if err := requireID("session id", id); err != nil {
		return nil, err
	}
	var s domain.ScanSession
	if err := c.gw.Get(ctx, fmt.Sprintf("/scanner/sessions/%d/", id), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
