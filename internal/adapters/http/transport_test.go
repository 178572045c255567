package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/shotship/internal/domain"
)

type capturedPart struct {
	name        string
	filename    string
	contentType string
	data        []byte
}

type captured struct {
	method  string
	path    string
	headers http.Header
	parts   []capturedPart
}

// recordingServer captures every multipart request it receives.
type recordingServer struct {
	mu       sync.Mutex
	requests []captured
	status   int
	body     string
	delay    time.Duration
}

func (rs *recordingServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := captured{method: r.Method, path: r.URL.Path, headers: r.Header.Clone()}
	mr, err := r.MultipartReader()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(p)
		c.parts = append(c.parts, capturedPart{
			name:        p.FormName(),
			filename:    p.FileName(),
			contentType: p.Header.Get("Content-Type"),
			data:        data,
		})
	}

	if rs.delay > 0 {
		select {
		case <-time.After(rs.delay):
		case <-r.Context().Done():
			return
		}
	}

	rs.mu.Lock()
	rs.requests = append(rs.requests, c)
	rs.mu.Unlock()

	status := rs.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, rs.body)
}

func (rs *recordingServer) received() []captured {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]captured(nil), rs.requests...)
}

func testTask() domain.Task {
	return domain.NewTask(domain.Record{
		ShotLat: 55.751244,
		ShotLon: 37.618423,
		Objects: []domain.Detection{
			{XCenter: 0.5, YCenter: 0.4, Width: 0.05, Height: 0.1, Label: "person"},
		},
	}, []byte{0xFF, 0xD8, 0xFF, 0x00, 0x01})
}

func TestShotTransport_Send(t *testing.T) {
	rs := &recordingServer{}
	srv := httptest.NewServer(rs)
	defer srv.Close()

	tr := NewShotTransport(srv.Client(), srv.URL+"/", nil)
	assert.Equal(t, srv.URL+shotsEndpoint, tr.URL())

	task := testTask()
	require.NoError(t, tr.Send(context.Background(), task))

	reqs := rs.received()
	require.Len(t, reqs, 1)
	req := reqs[0]

	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, shotsEndpoint, req.path)
	assert.Equal(t, task.ID, req.headers.Get("X-Shot-Id"))
	assert.NotEmpty(t, req.headers.Get("X-Agent-Hostname"))
	assert.NotEmpty(t, req.headers.Get("X-Agent-OSArch"))

	require.Len(t, req.parts, 2)

	image := req.parts[0]
	assert.Equal(t, "image", image.name)
	assert.Equal(t, "image.jpg", image.filename)
	assert.Equal(t, "image/jpeg", image.contentType)
	assert.Equal(t, task.Blob, image.data)

	payload := req.parts[1]
	assert.Equal(t, "payload_json", payload.name)
	assert.Empty(t, payload.filename)
	assert.Equal(t, "application/json", payload.contentType)

	var got domain.RecordJSON
	require.NoError(t, json.Unmarshal(payload.data, &got))
	assert.Equal(t, task.Record, got.ToRecord())
}

func TestShotTransport_Send_NonSuccessStatus(t *testing.T) {
	rs := &recordingServer{status: http.StatusServiceUnavailable, body: "overloaded"}
	srv := httptest.NewServer(rs)
	defer srv.Close()

	tr := NewShotTransport(srv.Client(), srv.URL, nil)
	err := tr.Send(context.Background(), testTask())
	require.Error(t, err)

	var statusErr *domain.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "overloaded", statusErr.Body)
}

func TestShotTransport_Send_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	tr := NewShotTransport(NewHTTPClient(time.Second, time.Second, 2*time.Second), url, nil)
	err := tr.Send(context.Background(), testTask())
	assert.Error(t, err)
}

func TestShotTransport_Send_ReadTimeout(t *testing.T) {
	rs := &recordingServer{delay: 2 * time.Second}
	srv := httptest.NewServer(rs)
	defer srv.Close()

	client := NewHTTPClient(time.Second, 50*time.Millisecond, 5*time.Second)
	defer client.CloseIdleConnections()

	tr := NewShotTransport(client, srv.URL, nil)

	start := time.Now()
	err := tr.Send(context.Background(), testTask())
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestShotTransport_Send_ContextCanceled(t *testing.T) {
	rs := &recordingServer{delay: 2 * time.Second}
	srv := httptest.NewServer(rs)
	defer srv.Close()

	tr := NewShotTransport(srv.Client(), srv.URL, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := tr.Send(ctx, testTask())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestEncodeShot_EmptyBlob(t *testing.T) {
	body, contentType, err := EncodeShot(domain.NewTask(domain.Record{}, nil))
	require.NoError(t, err)
	assert.Contains(t, contentType, "multipart/form-data; boundary=")
	assert.Contains(t, body.String(), `name="payload_json"`)
	assert.Contains(t, body.String(), `"objects":[]`)
}
