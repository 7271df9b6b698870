package modelsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"

	"github.com/ironsheep/crowd-lens-mcp/internal/estimate"
	"github.com/ironsheep/crowd-lens-mcp/internal/imaging"
)

// modelNames maps estimator kinds to the inference service's model
// identifiers.
var modelNames = map[estimate.Kind]string{
	estimate.DirectDetection:   "detector",
	estimate.DensityRegression: "density",
	estimate.FaceDemographic:   "faces",
	estimate.ZeroShotCrop:      "zeroshot",
}

// Client talks to a remote inference service over HTTP/JSON. It
// implements Detector, DensityEstimator, FaceAnalyzer, CropClassifier
// and Loader.
//
// No request timeout is imposed here; individual estimator latency is
// accepted and callers bound waits through the context.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a client for the inference service at baseURL
// (e.g. "http://127.0.0.1:9090").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{},
	}
}

type detectRequest struct {
	ImageBase64    string  `json:"image_base64"`
	ScoreThreshold float64 `json:"score_threshold"`
}

type detectResponse struct {
	Detections []RawDetection `json:"detections"`
}

// Detect runs the object detection model over img.
func (c *Client) Detect(ctx context.Context, img image.Image, scoreThreshold float64) ([]RawDetection, error) {
	encoded, err := imaging.EncodePNGBase64(img)
	if err != nil {
		return nil, err
	}

	var resp detectResponse
	req := detectRequest{ImageBase64: encoded, ScoreThreshold: scoreThreshold}
	if err := c.postJSON(ctx, "/v1/detect", req, &resp); err != nil {
		return nil, err
	}
	return resp.Detections, nil
}

type densityRequest struct {
	Shape []int     `json:"shape"`
	Data  []float32 `json:"data"`
}

// EstimateDensity runs the crowd density model over img. The image is
// converted to the model's fixed input tensor before sending.
func (c *Client) EstimateDensity(ctx context.Context, img image.Image) (*DensityMap, error) {
	req := densityRequest{
		Shape: []int{1, 3, DensityInputHeight, DensityInputWidth},
		Data:  DensityTensor(img),
	}

	var resp DensityMap
	if err := c.postJSON(ctx, "/v1/density", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type facesRequest struct {
	ImageBase64 string `json:"image_base64"`
}

type facesResponse struct {
	Faces []RawFace `json:"faces"`
}

// AnalyzeFaces runs the face age/gender model over img.
func (c *Client) AnalyzeFaces(ctx context.Context, img image.Image) ([]RawFace, error) {
	encoded, err := imaging.EncodePNGBase64(img)
	if err != nil {
		return nil, err
	}

	var resp facesResponse
	if err := c.postJSON(ctx, "/v1/faces", facesRequest{ImageBase64: encoded}, &resp); err != nil {
		return nil, err
	}
	return resp.Faces, nil
}

type classifyRequest struct {
	ImageBase64 string   `json:"image_base64"`
	Labels      []string `json:"labels"`
}

type classifyResponse struct {
	Scores []LabelScore `json:"scores"`
}

// ClassifyCrop ranks the candidate labels against an image crop using
// the zero-shot classification model.
func (c *Client) ClassifyCrop(ctx context.Context, crop image.Image, labels []string) ([]LabelScore, error) {
	encoded, err := imaging.EncodePNGBase64(crop)
	if err != nil {
		return nil, err
	}

	var resp classifyResponse
	req := classifyRequest{ImageBase64: encoded, Labels: labels}
	if err := c.postJSON(ctx, "/v1/classify", req, &resp); err != nil {
		return nil, err
	}
	return resp.Scores, nil
}

// Load asks the inference service to load the model backing kind.
// The service blocks until the model is resident or loading fails.
func (c *Client) Load(ctx context.Context, kind estimate.Kind) error {
	name, ok := modelNames[kind]
	if !ok {
		return fmt.Errorf("no model registered for estimator kind %q", kind)
	}
	return c.postJSON(ctx, "/v1/models/"+name+"/load", struct{}{}, nil)
}

// postJSON issues a POST with a JSON body and decodes the JSON response
// into out (skipped when out is nil).
func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("inference service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("inference service returned %d for %s: %s", resp.StatusCode, path, bytes.TrimSpace(msg))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
