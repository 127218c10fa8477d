package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/nabil-devId/expensee-api/domain"
	"github.com/nabil-devId/expensee-api/internal/utils"
	"github.com/nabil-devId/expensee-api/pkg/logger"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// extractionSchemaV1 is the literal example schema embedded in every
// extraction prompt so the output shape stays stable across calls.
const extractionSchemaV1 = `{
    "merchant_name": [string],
    "total_amount": [string],
    "transaction_date": [string],
    "payment_method": [string],
    "items": [
        {
            "name": [string],
            "quantity": [string],
            "price": [string],
            "total": [string]
        }
    ],
    "confidence_scores": {
        "merchant_name": [number],
        "total_amount": [number],
        "transaction_date": [number],
        "payment_method": [number]
    }
}`

const extractionPromptV1 = `Extract receipt to JSON:
%s
Rules: Use strings for money exactly as printed on the receipt. Keep capitalization. Skip empty fields. JSON only, no markdown.
The merchant name is usually near the top, look for patterns like "nama merchant". The total usually follows "total", "grand total" or "total amount". The date usually follows "tanggal" or "date". The payment method usually follows "payment method" or "payment type". Item names usually follow "menu" or "item name", item prices "harga" or "price", item quantities "qty" or "quantity".
The total should be the sum of all item totals; if they do not match, re-read the item prices.
Report a confidence score between 0 and 1 for each of the four summary fields.`

const categoryPromptV1 = `You are classifying an expense into one category.
Transaction:
%s
Available categories (JSON array):
%s
Pick the single best-matching category from the list. Prefer a category with "is_user_category": true when the choice is ambiguous. Respond ONLY with a valid JSON object with exactly these fields: "category_id" (string, copied from the list), "is_user_category" (boolean), "confidence" (number between 0 and 1). No explanations, no markdown.`

type (
	// Client talks to the Gemini generative language REST API. Extraction and
	// category resolution are two independent calls with fixed prompts.
	Client interface {
		ExtractReceipt(ctx context.Context, imageData []byte, mimeType string) (domain.RawExtraction, error)
		ResolveCategory(ctx context.Context, transaction string, options []domain.CategoryOption) (domain.CategoryResolution, error)
	}

	client struct {
		apiKey     string
		model      string
		baseURL    string
		httpClient *http.Client
		log        *zap.Logger
	}
)

func NewClient() Client {
	return &client{
		apiKey:     utils.GetConfig("GEMINI_API_KEY"),
		model:      utils.GetConfig("GEMINI_MODEL"),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        logger.Get(),
	}
}

// NewClientWith builds a client against a custom endpoint, used by tests.
func NewClientWith(apiKey, model, baseURL string, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        logger.Get(),
	}
}

func (c *client) ExtractReceipt(ctx context.Context, imageData []byte, mimeType string) (domain.RawExtraction, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	prompt := fmt.Sprintf(extractionPromptV1, extractionSchemaV1)
	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{
						"inline_data": map[string]interface{}{
							"mime_type": mimeType,
							"data":      base64.StdEncoding.EncodeToString(imageData),
						},
					},
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.1,
			"topP":        0.8,
			"topK":        40,
		},
	}

	responseText, err := c.generateContent(ctx, requestBody)
	if err != nil {
		return domain.RawExtraction{}, err
	}

	raw := parseExtraction(responseText)
	if raw.Failed() {
		c.log.Warn("unparseable extraction response",
			zap.String("parse_error", raw.ParseError),
			zap.Int("response_length", len(responseText)),
		)
	}
	return raw, nil
}

func (c *client) ResolveCategory(ctx context.Context, transaction string, options []domain.CategoryOption) (domain.CategoryResolution, error) {
	optionsJSON, err := json.Marshal(options)
	if err != nil {
		return domain.CategoryResolution{}, fmt.Errorf("%w: marshal category options: %v", domain.ErrExtraction, err)
	}

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": fmt.Sprintf(categoryPromptV1, transaction, string(optionsJSON))},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.1,
		},
	}

	responseText, err := c.generateContent(ctx, requestBody)
	if err != nil {
		return domain.CategoryResolution{}, err
	}

	var resolution domain.CategoryResolution
	if err := json.Unmarshal([]byte(cleanResponseText(responseText)), &resolution); err != nil {
		return domain.CategoryResolution{}, fmt.Errorf("%w: parse category resolution: %v", domain.ErrExtraction, err)
	}
	if resolution.CategoryID == "" {
		return domain.CategoryResolution{}, fmt.Errorf("%w: category resolution returned no category id", domain.ErrExtraction)
	}
	return resolution, nil
}

func (c *client) generateContent(ctx context.Context, requestBody map[string]interface{}) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: GEMINI_API_KEY not configured", domain.ErrExtraction)
	}
	if c.model == "" {
		return "", fmt.Errorf("%w: GEMINI_MODEL not configured", domain.ErrExtraction)
	}

	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", domain.ErrExtraction, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestJSON))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: gemini API error: %s - %s", domain.ErrExtraction, resp.Status, string(bodyBytes))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrExtraction, err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty candidate response", domain.ErrExtraction)
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

// parseExtraction turns the model's free text into a RawExtraction. A parse
// failure is recorded on the result, not returned as an error, so the upload
// path can keep the draft alive.
func parseExtraction(responseText string) domain.RawExtraction {
	cleaned := cleanResponseText(responseText)

	var raw domain.RawExtraction
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return domain.RawExtraction{
			RawResponse: responseText,
			ParseError:  fmt.Sprintf("parse extraction response: %v", err),
		}
	}
	raw.RawResponse = responseText
	return raw
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// cleanResponseText strips markdown fences and surrounding commentary the
// model sometimes wraps around its JSON.
func cleanResponseText(responseText string) string {
	text := strings.TrimSpace(responseText)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	text = strings.TrimSpace(text)

	if match := jsonObjectPattern.FindString(text); match != "" {
		text = match
	}
	return text
}
