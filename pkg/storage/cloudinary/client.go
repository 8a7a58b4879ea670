package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/luxurydrive/backoffice/pkg/config"
	"github.com/luxurydrive/backoffice/pkg/logger"
)

const (
	apiBase     = "https://api.cloudinary.com/v1_1"
	deliveryURL = "https://res.cloudinary.com"
	pingTimeout = 5 * time.Second
)

// Client talks to the Cloudinary upload API. It implements the media-host
// capability the car endpoints need: store bytes and get back a URL, destroy
// an asset given the URL it previously returned.
type Client struct {
	httpClient *http.Client
	cloudName  string
	apiKey     string
	apiSecret  string
	folder     string
	now        func() time.Time
	baseURL    string
}

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewClient validates the configuration and returns a ready client.
func NewClient(ctx context.Context, cfg config.CloudinaryConfig, logg *logger.Logger) (*Client, error) {
	if !cfg.Enabled() {
		return nil, errors.New("cloudinary cloud name, api key, and api secret are required")
	}

	client := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cloudName:  cfg.CloudName,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		folder:     cfg.Folder,
		now:        time.Now,
		baseURL:    apiBase,
	}

	if logg != nil {
		logg.Info(ctx, "cloudinary client initialized")
	}

	return client, nil
}

// UploadResult carries the fields the API uses from Cloudinary's response.
type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// Upload stores an image and returns its delivery URL.
func (c *Client) Upload(ctx context.Context, data []byte, filename string) (*UploadResult, error) {
	if c == nil {
		return nil, errors.New("cloudinary client not initialized")
	}
	if len(data) == 0 {
		return nil, errors.New("empty upload payload")
	}

	timestamp := strconv.FormatInt(c.now().UTC().Unix(), 10)
	params := map[string]string{
		"folder":    c.folder,
		"timestamp": timestamp,
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("writing form field %s: %w", key, err)
		}
	}
	if err := writer.WriteField("api_key", c.apiKey); err != nil {
		return nil, fmt.Errorf("writing api key: %w", err)
	}
	if err := writer.WriteField("signature", c.sign(params)); err != nil {
		return nil, fmt.Errorf("writing signature: %w", err)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("creating file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("writing file bytes: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing multipart body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", c.baseURL, url.PathEscape(c.cloudName))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("cloudinary upload failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}
	if result.SecureURL == "" {
		return nil, errors.New("cloudinary upload returned no secure_url")
	}
	return &result, nil
}

// Destroy removes the asset behind a previously returned delivery URL. URLs
// not hosted on Cloudinary are ignored.
func (c *Client) Destroy(ctx context.Context, imageURL string) error {
	if c == nil {
		return errors.New("cloudinary client not initialized")
	}
	publicID, ok := c.publicIDFromURL(imageURL)
	if !ok {
		return nil
	}

	timestamp := strconv.FormatInt(c.now().UTC().Unix(), 10)
	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}

	form := url.Values{}
	for key, value := range params {
		form.Set(key, value)
	}
	form.Set("api_key", c.apiKey)
	form.Set("signature", c.sign(params))

	endpoint := fmt.Sprintf("%s/%s/image/destroy", c.baseURL, url.PathEscape(c.cloudName))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cloudinary destroy request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("cloudinary destroy failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	return nil
}

// Ping checks the account is reachable via the admin ping endpoint.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return errors.New("cloudinary client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/%s/ping", c.baseURL, url.PathEscape(c.cloudName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cloudinary ping failed: status %d", resp.StatusCode)
	}
	return nil
}

// sign builds the Cloudinary request signature: the sorted key=value pairs
// joined with '&', concatenated with the API secret, hashed with SHA-1.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

// publicIDFromURL recovers "<folder>/<name>" from a delivery URL.
func (c *Client) publicIDFromURL(imageURL string) (string, bool) {
	if !strings.HasPrefix(imageURL, deliveryURL) {
		return "", false
	}
	base := path.Base(imageURL)
	name := strings.TrimSuffix(base, path.Ext(base))
	if name == "" || name == "/" || name == "." {
		return "", false
	}
	if c.folder == "" {
		return name, true
	}
	return c.folder + "/" + name, true
}
