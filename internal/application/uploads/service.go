package uploads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// MediaClient defines what we need from the image host.
type MediaClient interface {
	Upload(ctx context.Context, fileName string, file io.Reader) (string, error)
}

// CloudinaryClient is a MediaClient backed by the unsigned upload API:
// a multipart POST of file + upload_preset returning the hosted URL.
type CloudinaryClient struct {
	CloudName    string
	UploadPreset string
	Client       *http.Client
	// BaseURL overrides the API host (tests point it at a local server).
	BaseURL string
}

type cloudinaryUploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *CloudinaryClient) Upload(ctx context.Context, fileName string, file io.Reader) (string, error) {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if c.CloudName == "" {
		return "", fmt.Errorf("cloudinary: CLOUDINARY_CLOUD_NAME is not set")
	}
	if c.UploadPreset == "" {
		return "", fmt.Errorf("cloudinary: CLOUDINARY_UPLOAD_PRESET is not set")
	}
	base := c.BaseURL
	if base == "" {
		base = "https://api.cloudinary.com"
	}
	url := fmt.Sprintf("%s/v1_1/%s/image/upload", base, c.CloudName)

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", fileName)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.WriteField("upload_preset", c.UploadPreset); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	var data cloudinaryUploadResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", fmt.Errorf("cloudinary response decode: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if data.Error.Message != "" {
			return "", fmt.Errorf("cloudinary error: %s", data.Error.Message)
		}
		return "", fmt.Errorf("cloudinary error: status %d body: %s", resp.StatusCode, string(respBody))
	}
	if data.SecureURL != "" {
		return data.SecureURL, nil
	}
	if data.URL != "" {
		return data.URL, nil
	}
	return "", errors.New("cloudinary returned no URL")
}

// Service encapsulates upload logic.
type Service struct {
	Client MediaClient
}

// UploadResult matches the upload endpoint response shape.
type UploadResult struct {
	URL string `json:"secure_url"`
}

// UploadImage sends the image to the media host and returns the hosted URL.
func (s *Service) UploadImage(ctx context.Context, fileName string, file io.Reader) (*UploadResult, error) {
	url, err := s.Client.Upload(ctx, fileName, file)
	if err != nil {
		return nil, err
	}
	return &UploadResult{URL: url}, nil
}
