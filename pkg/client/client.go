package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gitclassrooms/classroom-provisioner/internal/domain"
)

// Client is the API client for classroom-provisioner
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateAssignmentRepo provisions a submission repository for a user
func (c *Client) CreateAssignmentRepo(assignmentID, userID string) (*domain.AssignmentRepo, error) {
	path := fmt.Sprintf("/api/v1/assignments/%s/repos", assignmentID)
	body := map[string]string{"user_id": userID}

	var response struct {
		Data *domain.AssignmentRepo `json:"data"`
	}
	if err := c.post(path, body, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// CreateGroupAssignmentRepo provisions a submission repository for a group
func (c *Client) CreateGroupAssignmentRepo(groupAssignmentID, groupID string) (*domain.GroupAssignmentRepo, error) {
	path := fmt.Sprintf("/api/v1/group-assignments/%s/repos", groupAssignmentID)
	body := map[string]string{"group_id": groupID}

	var response struct {
		Data *domain.GroupAssignmentRepo `json:"data"`
	}
	if err := c.post(path, body, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// DeleteAssignmentRepo tears down an individual submission repository
func (c *Client) DeleteAssignmentRepo(recordID string) error {
	return c.delete(fmt.Sprintf("/api/v1/assignment-repos/%s", recordID))
}

// DeleteGroupAssignmentRepo tears down a group submission repository
func (c *Client) DeleteGroupAssignmentRepo(recordID string) error {
	return c.delete(fmt.Sprintf("/api/v1/group-assignment-repos/%s", recordID))
}

// ListAssignments retrieves submission summaries for all assignments
func (c *Client) ListAssignments() ([]*domain.AssignmentSummary, error) {
	var response struct {
		Data []*domain.AssignmentSummary `json:"data"`
	}
	if err := c.get("/api/v1/assignments", &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// GetAssignmentReport retrieves the submission summary for one assignment
func (c *Client) GetAssignmentReport(assignmentID string) (*domain.AssignmentSummary, error) {
	path := fmt.Sprintf("/api/v1/assignments/%s/report", assignmentID)

	var response struct {
		Data *domain.AssignmentSummary `json:"data"`
	}
	if err := c.get(path, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// GetAssignmentRoster retrieves the submission roster for one assignment
func (c *Client) GetAssignmentRoster(assignmentID string) ([]*domain.RosterEntry, error) {
	path := fmt.Sprintf("/api/v1/assignments/%s/repos", assignmentID)

	var response struct {
		Data []*domain.RosterEntry `json:"data"`
	}
	if err := c.get(path, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// HealthCheck checks if the API is healthy
func (c *Client) HealthCheck() error {
	var response struct {
		Status string `json:"status"`
	}
	if err := c.get("/health", &response); err != nil {
		return err
	}
	if response.Status != "ok" {
		return fmt.Errorf("unhealthy status: %s", response.Status)
	}
	return nil
}

func (c *Client) get(path string, result interface{}) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) post(path string, body, result interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return apiError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) delete(path string) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	return nil
}

// apiError extracts the structured error payload when present
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return fmt.Errorf("API error: %s - %s", payload.Error.Code, payload.Error.Message)
	}

	return fmt.Errorf("API error: %s - %s", resp.Status, string(body))
}
