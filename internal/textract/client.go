// Package textract is a thin HTTP client for the asynchronous text-detection
// service. Jobs are started against an object already sitting in S3 and then
// polled by id; large results come back across multiple pages linked by a
// continuation token.
package textract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// JobStatus is the lifecycle state reported by the service.
type JobStatus string

const (
	StatusInProgress JobStatus = "IN_PROGRESS"
	StatusSucceeded  JobStatus = "SUCCEEDED"
	StatusFailed     JobStatus = "FAILED"
)

// Terminal reports whether the status ends the job.
func (s JobStatus) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

const (
	BlockTypeLine = "LINE"
	BlockTypeWord = "WORD"
	BlockTypePage = "PAGE"
)

// Block is one detected element of a result page. Only LINE blocks carry
// text the pipeline keeps.
type Block struct {
	BlockType string `json:"blockType"`
	Text      string `json:"text,omitempty"`
}

// Detection is one page of a job's status/result response.
type Detection struct {
	JobStatus JobStatus `json:"jobStatus"`
	Blocks    []Block   `json:"blocks,omitempty"`
	NextToken string    `json:"nextToken,omitempty"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

type startDetectionReq struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

type startDetectionResp struct {
	JobID string `json:"jobId"`
}

// StartTextDetection submits one document for asynchronous analysis and
// returns the job id.
func (c *Client) StartTextDetection(ctx context.Context, bucket, key string) (string, error) {
	body, _ := json.Marshal(startDetectionReq{Bucket: bucket, Key: key})
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/text-detection", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("start detection request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("start detection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", c.apiError("start detection", resp)
	}

	var out startDetectionResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode start response: %w", err)
	}
	if out.JobID == "" {
		return "", fmt.Errorf("start detection: empty job id")
	}
	return out.JobID, nil
}

// GetTextDetection fetches the job status and, once succeeded, one page of
// result blocks. Pass the response's NextToken to fetch the following page;
// an empty nextToken fetches the first.
func (c *Client) GetTextDetection(ctx context.Context, jobID, nextToken string) (*Detection, error) {
	endpoint := c.baseURL + "/v1/text-detection/" + url.PathEscape(jobID)
	if nextToken != "" {
		endpoint += "?nextToken=" + url.QueryEscape(nextToken)
	}
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("get detection request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get detection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, c.apiError("get detection", resp)
	}

	var out Detection
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode detection response: %w", err)
	}
	return &out, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *Client) apiError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return fmt.Errorf("%s failed (%d): %s", op, resp.StatusCode, string(body))
}
