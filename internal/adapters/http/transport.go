package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/bft-labs/shotship/internal/domain"
	"github.com/bft-labs/shotship/internal/ports"
	"github.com/bft-labs/shotship/pkg/log"
)

const (
	shotsEndpoint = "/v1/ingest/shots"

	imageField    = "image"
	imageFilename = "image.jpg"
	imageType     = "image/jpeg"

	payloadField = "payload_json"
	payloadType  = "application/json"

	// maxErrorBody caps how much of a failed response is kept in the error.
	maxErrorBody = 4 << 10
)

// ShotTransport implements ports.Transport using a multipart HTTP upload.
type ShotTransport struct {
	client   ports.HTTPClient
	url      string
	hostname string
	logger   log.Logger
}

// NewShotTransport creates a transport that posts shots to serviceURL.
func NewShotTransport(client ports.HTTPClient, serviceURL string, logger log.Logger) *ShotTransport {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &ShotTransport{
		client:   client,
		url:      strings.TrimRight(serviceURL, "/") + shotsEndpoint,
		hostname: hostname(),
		logger:   logger,
	}
}

// URL returns the full endpoint the transport posts to.
func (s *ShotTransport) URL() string {
	return s.url
}

// Send uploads one shot. Non-2xx responses are returned as *domain.StatusError.
func (s *ShotTransport) Send(ctx context.Context, task domain.Task) error {
	body, contentType, err := EncodeShot(task)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Shot-Id", task.ID)
	req.Header.Set("X-Agent-Hostname", s.hostname)
	req.Header.Set("X-Agent-OSArch", runtime.GOOS+"/"+runtime.GOARCH)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	s.logger.Debug("shot uploaded",
		log.ShotID(task.ID),
		log.Int("status", resp.StatusCode),
		log.Int("bytes", task.Size()),
	)
	return nil
}

// EncodeShot builds the multipart body for a task and returns it with its
// Content-Type header value.
func EncodeShot(task domain.Task) (*bytes.Buffer, string, error) {
	payload, err := task.Record.MarshalPayload()
	if err != nil {
		return nil, "", fmt.Errorf("marshal payload: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	imageHeader := make(textproto.MIMEHeader)
	imageHeader.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, imageField, imageFilename))
	imageHeader.Set("Content-Type", imageType)

	imagePart, err := writer.CreatePart(imageHeader)
	if err != nil {
		return nil, "", fmt.Errorf("create image part: %w", err)
	}
	if _, err := imagePart.Write(task.Blob); err != nil {
		return nil, "", fmt.Errorf("write image: %w", err)
	}

	payloadHeader := make(textproto.MIMEHeader)
	payloadHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q`, payloadField))
	payloadHeader.Set("Content-Type", payloadType)

	payloadPart, err := writer.CreatePart(payloadHeader)
	if err != nil {
		return nil, "", fmt.Errorf("create payload part: %w", err)
	}
	if _, err := payloadPart.Write(payload); err != nil {
		return nil, "", fmt.Errorf("write payload: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart: %w", err)
	}

	return &body, writer.FormDataContentType(), nil
}

// NewHTTPClient returns a client with bounded connect and read timeouts.
// total caps the whole exchange, including the request body upload.
func NewHTTPClient(connectTimeout, readTimeout, total time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ResponseHeaderTimeout: readTimeout,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConnsPerHost:   1,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   total,
	}
}

// hostname returns the current hostname.
func hostname() string {
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "unknown"
}
