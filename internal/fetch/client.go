// Package fetch implements the remote archive fetcher collaborator:
// MongoDB Cloud's Log Collection Jobs API (create job, poll status,
// download). It never touches FTDC semantics; it only produces a
// directory that pkg/ftdc.Open can consume.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/nelusnegur/mprobe-go/pkg/log"
)

// Credentials authenticates against MongoDB Cloud's digest-auth
// protected API.
type Credentials struct {
	PublicKey  string
	PrivateKey string
}

// Resource identifies what kind of deployment the logs are collected
// from, mirroring the original's Resource enum.
type Resource string

const (
	ResourceCluster    Resource = "CLUSTER"
	ResourceReplicaSet Resource = "REPLICASET"
)

// LogType mirrors the original's LogType enum; mprobe-go only ever
// requests Ftdc, but the others are kept so CreateJobBody round-trips
// faithfully if a caller wants every log type a cluster can produce.
type LogType string

const (
	LogTypeFTDC            LogType = "FTDC"
	LogTypeMongoDB         LogType = "MONGODB"
	LogTypeMonitoringAgent LogType = "MONITORING_AGENT"
	LogTypeAutomationAgent LogType = "AUTOMATION_AGENT"
	LogTypeBackupAgent     LogType = "BACKUP_AGENT"
)

// JobStatus mirrors the original's JobStatus enum.
type JobStatus string

const (
	JobSuccess         JobStatus = "SUCCESS"
	JobFailure         JobStatus = "FAILURE"
	JobInProgress      JobStatus = "IN_PROGRESS"
	JobMarkedForExpiry JobStatus = "MARKED_FOR_EXPIRY"
	JobExpired         JobStatus = "EXPIRED"
)

// CreateJobBody is the request body for CreateJob.
type CreateJobBody struct {
	ResourceType              Resource   `json:"resourceType"`
	ResourceName              string     `json:"resourceName"`
	SizeRequestedPerFileBytes uint64     `json:"sizeRequestedPerFileBytes"`
	LogTypes                  []LogType  `json:"logTypes"`
	Redacted                  bool       `json:"redacted"`
	LogCollectionFromDate     *time.Time `json:"logCollectionFromDate,omitempty"`
	LogCollectionToDate       *time.Time `json:"logCollectionToDate,omitempty"`
}

// Job is the decoded response of GET .../logCollectionJobs/{id}.
type Job struct {
	ID                         string    `json:"id"`
	Status                     JobStatus `json:"status"`
	ResourceType               Resource  `json:"resourceType"`
	ResourceName               string    `json:"resourceName"`
	CreationDate               time.Time `json:"creationDate"`
	ExpirationDate             time.Time  `json:"expirationDate"`
	LogTypes                   []LogType `json:"logTypes"`
	Redacted                   bool      `json:"redacted"`
	SizeRequestedPerFileBytes  uint64    `json:"sizeRequestedPerFileBytes"`
	UncompressedSizeTotalBytes uint64    `json:"uncompressedSizeTotalBytes"`
}

// ResponseError is returned when the API replies with a non-success
// status code.
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("fetch: response status %d: %s", e.StatusCode, e.Message)
}

// LogClient talks to MongoDB Cloud's Log Collection Jobs API, digest
// authenticating every request and rate limiting itself so a bulk fetch
// of many clusters' archives never trips the API's own throttling.
type LogClient struct {
	http        *http.Client
	baseURL     string
	groupID     string
	credentials Credentials
	limiter     *rate.Limiter
}

// NewLogClient builds a LogClient. requestsPerSecond <= 0 disables
// client-side throttling entirely.
func NewLogClient(baseURL, groupID string, credentials Credentials, requestsPerSecond float64) *LogClient {
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &LogClient{
		http:        &http.Client{Timeout: 30 * time.Second},
		baseURL:     baseURL,
		groupID:     groupID,
		credentials: credentials,
		limiter:     limiter,
	}
}

// CreateJob requests log collection for a resource and returns the new
// job's id.
func (c *LogClient) CreateJob(ctx context.Context, body CreateJobBody) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/groups/%s/logCollectionJobs", c.baseURL, c.groupID)
	resp, err := c.doDigest(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", responseError(resp)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("fetch: decode create job response: %w", err)
	}
	return created.ID, nil
}

// JobStatus polls the status of a previously created job.
func (c *LogClient) JobStatus(ctx context.Context, jobID string) (Job, error) {
	url := fmt.Sprintf("%s/groups/%s/logCollectionJobs/%s", c.baseURL, c.groupID, jobID)
	resp, err := c.doDigest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Job{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Job{}, responseError(resp)
	}

	var job Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return Job{}, fmt.Errorf("fetch: decode job response: %w", err)
	}
	return job, nil
}

// Download streams a completed job's compressed archive into dst, and
// reports how many bytes were written.
func (c *LogClient) Download(ctx context.Context, jobID string, dst io.Writer) (int64, error) {
	url := fmt.Sprintf("%s/groups/%s/logCollectionJobs/%s/download", c.baseURL, c.groupID, jobID)
	resp, err := c.doDigest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, responseError(resp)
	}

	return io.Copy(dst, resp.Body)
}

// WaitUntilDone polls JobStatus at interval until the job leaves
// IN_PROGRESS, or ctx is cancelled.
func (c *LogClient) WaitUntilDone(ctx context.Context, jobID string, interval time.Duration) (Job, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		job, err := c.JobStatus(ctx, jobID)
		if err != nil {
			return Job{}, err
		}
		if job.Status != JobInProgress {
			return job, nil
		}

		log.Debugf("fetch: job %s still in progress", jobID)
		select {
		case <-ctx.Done():
			return Job{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return &ResponseError{StatusCode: resp.StatusCode, Message: string(body)}
}

// doDigest sends req, and on a 401 challenge, replays it once with a
// computed Digest Authorization header, per RFC 7616. The request body
// (if any) is buffered up front so it can be sent twice.
func (c *LogClient) doDigest(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = io.ReadAll(body)
		if err != nil {
			return nil, err
		}
	}

	send := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	}

	req, err := send()
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	wwwAuth := resp.Header.Get("Www-Authenticate")
	resp.Body.Close()
	if wwwAuth == "" {
		return nil, fmt.Errorf("fetch: digest auth failed: server sent 401 without Www-Authenticate")
	}

	challenge, err := parseDigestChallenge(wwwAuth)
	if err != nil {
		return nil, err
	}

	req, err = send()
	if err != nil {
		return nil, err
	}
	header, err := authorizationHeader(challenge, method, req.URL.Path, c.credentials.PublicKey, c.credentials.PrivateKey)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", header)

	return c.http.Do(req)
}
