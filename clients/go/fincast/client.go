// Package fincast provides a client for the FinCast API.
package fincast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is a FinCast API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new FinCast client.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// envelope mirrors the server's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// doRequest performs an HTTP request and unwraps the response envelope into out.
func (c *Client) doRequest(method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("fincast error %d: unexpected response", resp.StatusCode)
	}
	if !env.Success {
		return fmt.Errorf("fincast error %d: %s", resp.StatusCode, env.Error)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// User is a chat board member.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Chat is a chat board with its messages.
type Chat struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

// Message is a single chat message.
type Message struct {
	ID        string `json:"id"`
	ChatID    string `json:"chatId"`
	UserID    string `json:"userId"`
	Text      string `json:"text"`
	Timestamp int64  `json:"ts"`
}

// StockDataPoint is one point of a prediction series.
type StockDataPoint struct {
	Date         string  `json:"date"`
	Price        float64 `json:"price"`
	IsPrediction bool    `json:"isPrediction"`
}

// UserPage is one page of users.
type UserPage struct {
	Items      []User `json:"items"`
	NextCursor string `json:"nextCursor"`
}

// ChatPage is one page of chats.
type ChatPage struct {
	Items      []Chat `json:"items"`
	NextCursor string `json:"nextCursor"`
}

// DeleteResult reports the outcome of a single delete.
type DeleteResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// DeleteManyResult reports the outcome of a bulk delete.
type DeleteManyResult struct {
	DeletedCount int      `json:"deletedCount"`
	IDs          []string `json:"ids"`
}

func pageQuery(cursor string, limit int) string {
	q := url.Values{}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// Predict requests a price forecast for ticker.
func (c *Client) Predict(ticker string, days int) ([]StockDataPoint, error) {
	req := map[string]interface{}{"ticker": ticker, "days": days}
	var series []StockDataPoint
	if err := c.doRequest("POST", "/api/predict", req, &series); err != nil {
		return nil, err
	}
	return series, nil
}

// ListUsers retrieves one page of users.
func (c *Client) ListUsers(cursor string, limit int) (*UserPage, error) {
	var page UserPage
	if err := c.doRequest("GET", "/api/users"+pageQuery(cursor, limit), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateUser creates a user.
func (c *Client) CreateUser(name string) (*User, error) {
	var user User
	if err := c.doRequest("POST", "/api/users", map[string]string{"name": name}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser deletes a user by id.
func (c *Client) DeleteUser(id string) (*DeleteResult, error) {
	var res DeleteResult
	if err := c.doRequest("DELETE", "/api/users/"+id, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteUsers deletes several users at once.
func (c *Client) DeleteUsers(ids []string) (*DeleteManyResult, error) {
	var res DeleteManyResult
	if err := c.doRequest("POST", "/api/users/deleteMany", map[string][]string{"ids": ids}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListChats retrieves one page of chats.
func (c *Client) ListChats(cursor string, limit int) (*ChatPage, error) {
	var page ChatPage
	if err := c.doRequest("GET", "/api/chats"+pageQuery(cursor, limit), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateChat creates a chat board.
func (c *Client) CreateChat(title string) (*Chat, error) {
	var chat Chat
	if err := c.doRequest("POST", "/api/chats", map[string]string{"title": title}, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// DeleteChat deletes a chat by id.
func (c *Client) DeleteChat(id string) (*DeleteResult, error) {
	var res DeleteResult
	if err := c.doRequest("DELETE", "/api/chats/"+id, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteChats deletes several chats at once.
func (c *Client) DeleteChats(ids []string) (*DeleteManyResult, error) {
	var res DeleteManyResult
	if err := c.doRequest("POST", "/api/chats/deleteMany", map[string][]string{"ids": ids}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListMessages retrieves the message sequence of a chat.
func (c *Client) ListMessages(chatID string) ([]Message, error) {
	var messages []Message
	if err := c.doRequest("GET", "/api/chats/"+chatID+"/messages", nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage appends a message to a chat.
func (c *Client) SendMessage(chatID, userID, text string) (*Message, error) {
	req := map[string]string{"userId": userID, "text": text}
	var msg Message
	if err := c.doRequest("POST", "/api/chats/"+chatID+"/messages", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
