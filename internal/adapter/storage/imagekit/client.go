package imagekit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/nexusdev/nexushomes-backend/internal/listing/domain"
	"github.com/nexusdev/nexushomes-backend/internal/platform/logger"
)

const defaultTimeout = 30 * time.Second

// Config selects the ImageKit auth variant. When AuthURL is set, a
// short-lived token/signature/expire triple is fetched from it before every
// upload. Otherwise the static PublicKey/PrivateKey pair is sent directly.
type Config struct {
	UploadURL  string
	AuthURL    string
	PublicKey  string
	PrivateKey string
	Timeout    time.Duration
}

// Client uploads image bytes to ImageKit over multipart/form-data and
// returns the public URL from the JSON response.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(cfg Config, log logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log,
	}
}

type uploadAuth struct {
	Token       string `json:"token"`
	Signature   string `json:"signature"`
	Expire      int64  `json:"expire"`
	PublicKey   string `json:"publicKey"`
	URLEndpoint string `json:"urlEndpoint"`
}

func (c *Client) fetchAuth(ctx context.Context) (*uploadAuth, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.AuthURL, nil)
	if err != nil {
		return nil, &domain.RemoteError{Op: "imagekit.auth", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.RemoteError{Op: "imagekit.auth", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.RemoteError{Op: "imagekit.auth", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var auth uploadAuth
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return nil, &domain.MalformedResponseError{Op: "imagekit.auth", Reason: "invalid JSON body"}
	}
	if auth.Token == "" || auth.Signature == "" {
		return nil, &domain.MalformedResponseError{Op: "imagekit.auth", Reason: "missing token or signature"}
	}
	return &auth, nil
}

func (c *Client) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	payload := recompressJPEG(data)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(payload); err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	_ = form.WriteField("fileName", fileName)

	if c.cfg.AuthURL != "" {
		auth, err := c.fetchAuth(ctx)
		if err != nil {
			return "", err
		}
		_ = form.WriteField("publicKey", auth.PublicKey)
		_ = form.WriteField("signature", auth.Signature)
		_ = form.WriteField("expire", strconv.FormatInt(auth.Expire, 10))
		_ = form.WriteField("token", auth.Token)
	} else {
		_ = form.WriteField("publicKey", c.cfg.PublicKey)
		_ = form.WriteField("privateKey", c.cfg.PrivateKey)
		_ = form.WriteField("useUniqueFileName", "true")
	}

	if err := form.Close(); err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.UploadURL, &buf)
	if err != nil {
		return "", &domain.RemoteError{Op: "imagekit.upload", Err: err}
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	c.logger.Debugf("ImageKit: uploading %s (%d bytes)", fileName, len(payload))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.RemoteError{Op: "imagekit.upload", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.RemoteError{Op: "imagekit.upload", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &domain.MalformedResponseError{Op: "imagekit.upload", Reason: "invalid JSON body"}
	}
	if body.URL == "" {
		return "", &domain.MalformedResponseError{Op: "imagekit.upload", Reason: "response has no url field"}
	}
	return body.URL, nil
}
