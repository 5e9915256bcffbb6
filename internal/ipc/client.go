package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Start requests the daemon to start its dispatcher.
func (c *Client) Start() (*StartResponse, error) {
	var resp StartResponse
	if err := c.client.Call("Hunt.Start", StartRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the daemon to stop.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Hunt.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Hunt.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateApplication tracks a new application.
func (c *Client) CreateApplication(req CreateApplicationRequest) (*CreateApplicationResponse, error) {
	var resp CreateApplicationResponse
	if err := c.client.Call("Hunt.CreateApplication", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetApplication fetches one application by id or by owner and company.
func (c *Client) GetApplication(req GetApplicationRequest) (*GetApplicationResponse, error) {
	var resp GetApplicationResponse
	if err := c.client.Call("Hunt.GetApplication", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListApplications returns applications matching the request filters.
func (c *Client) ListApplications(req ListApplicationsRequest) (*ListApplicationsResponse, error) {
	var resp ListApplicationsResponse
	if err := c.client.Call("Hunt.ListApplications", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveApplication deletes an application and its history.
func (c *Client) RemoveApplication(id int64) (*RemoveApplicationResponse, error) {
	var resp RemoveApplicationResponse
	if err := c.client.Call("Hunt.RemoveApplication", RemoveApplicationRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecordStage appends a stage entry to an application's ledger.
func (c *Client) RecordStage(req RecordStageRequest) (*RecordStageResponse, error) {
	var resp RecordStageResponse
	if err := c.client.Call("Hunt.RecordStage", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StageHistory returns an application's ledger in chronological order.
func (c *Client) StageHistory(id int64) (*StageHistoryResponse, error) {
	var resp StageHistoryResponse
	if err := c.client.Call("Hunt.StageHistory", StageHistoryRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ScheduleReminder creates a follow-up reminder.
func (c *Client) ScheduleReminder(req ScheduleReminderRequest) (*ScheduleReminderResponse, error) {
	var resp ScheduleReminderResponse
	if err := c.client.Call("Hunt.ScheduleReminder", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListReminders lists reminders for an owner.
func (c *Client) ListReminders(req ListRemindersRequest) (*ListRemindersResponse, error) {
	var resp ListRemindersResponse
	if err := c.client.Call("Hunt.ListReminders", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MarkReminderSent marks a reminder delivered.
func (c *Client) MarkReminderSent(id int64) (*MarkReminderSentResponse, error) {
	var resp MarkReminderSentResponse
	if err := c.client.Call("Hunt.MarkReminderSent", MarkReminderSentRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteReminder removes a reminder.
func (c *Client) DeleteReminder(id int64) (*DeleteReminderResponse, error) {
	var resp DeleteReminderResponse
	if err := c.client.Call("Hunt.DeleteReminder", DeleteReminderRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StaleApplications lists applications without recent activity.
func (c *Client) StaleApplications(req StaleApplicationsRequest) (*StaleApplicationsResponse, error) {
	var resp StaleApplicationsResponse
	if err := c.client.Call("Hunt.StaleApplications", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stats returns per-stage application counts.
func (c *Client) Stats(owner string) (*StatsResponse, error) {
	var resp StatsResponse
	if err := c.client.Call("Hunt.Stats", StatsRequest{Owner: owner}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ActiveCompanies lists companies with at least one non-rejected application.
func (c *Client) ActiveCompanies(owner string) (*ActiveCompaniesResponse, error) {
	var resp ActiveCompaniesResponse
	if err := c.client.Call("Hunt.ActiveCompanies", ActiveCompaniesRequest{Owner: owner}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DatabaseHealth retrieves detailed database diagnostics.
func (c *Client) DatabaseHealth() (*DatabaseHealthResponse, error) {
	var resp DatabaseHealthResponse
	if err := c.client.Call("Hunt.DatabaseHealth", DatabaseHealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification triggers a notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.client.Call("Hunt.TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LogTail returns log lines from the daemon.
func (c *Client) LogTail(req LogTailRequest) (*LogTailResponse, error) {
	var resp LogTailResponse
	if err := c.client.Call("Hunt.LogTail", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
