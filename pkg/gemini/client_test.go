package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nabil-devId/expensee-api/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeminiStub(t *testing.T, responseText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Contains(t, r.URL.Path, ":generateContent")

		body := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content": map[string]interface{}{
						"parts": []map[string]interface{}{
							{"text": responseText},
						},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
}

func TestExtractReceipt(t *testing.T) {
	const payload = `{
		"merchant_name": "WARUNG MAKMUR",
		"total_amount": "45.000",
		"transaction_date": "14/03/2025",
		"payment_method": "QRIS",
		"items": [{"name": "Nasi Goreng", "quantity": 1, "price": "45.000", "total": "45.000"}],
		"confidence_scores": {"merchant_name": 0.97, "total_amount": 0.92, "transaction_date": 0.88, "payment_method": 0.9}
	}`
	server := newGeminiStub(t, payload)
	defer server.Close()

	c := NewClientWith("test-key", "gemini-2.0-flash", server.URL, server.Client())

	raw, err := c.ExtractReceipt(context.Background(), []byte("fake image"), "image/png")
	require.NoError(t, err)
	assert.False(t, raw.Failed())
	assert.Equal(t, "WARUNG MAKMUR", raw.MerchantName.String())
	assert.Equal(t, "45.000", raw.TotalAmount.String())
	require.Len(t, raw.Items, 1)
	// Numeric quantity must survive as its string form.
	assert.Equal(t, "1", raw.Items[0].Quantity.String())
	assert.InDelta(t, 0.97, raw.Confidence.MerchantName, 1e-9)
}

func TestExtractReceipt_StripsMarkdownFences(t *testing.T) {
	payload := "```json\n{\"merchant_name\": \"Toko Jaya\", \"total_amount\": \"12000\"}\n```"
	server := newGeminiStub(t, payload)
	defer server.Close()

	c := NewClientWith("test-key", "gemini-2.0-flash", server.URL, server.Client())

	raw, err := c.ExtractReceipt(context.Background(), []byte("fake image"), "image/png")
	require.NoError(t, err)
	assert.False(t, raw.Failed())
	assert.Equal(t, "Toko Jaya", raw.MerchantName.String())
}

func TestExtractReceipt_SurroundingCommentary(t *testing.T) {
	payload := "Here is the extracted receipt data:\n{\"merchant_name\": \"Kopi Kenangan\"}\nLet me know if you need anything else."
	server := newGeminiStub(t, payload)
	defer server.Close()

	c := NewClientWith("test-key", "gemini-2.0-flash", server.URL, server.Client())

	raw, err := c.ExtractReceipt(context.Background(), []byte("fake image"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "Kopi Kenangan", raw.MerchantName.String())
}

func TestExtractReceipt_UnparseableSetsParseError(t *testing.T) {
	server := newGeminiStub(t, "I cannot read this receipt, the image is too blurry.")
	defer server.Close()

	c := NewClientWith("test-key", "gemini-2.0-flash", server.URL, server.Client())

	raw, err := c.ExtractReceipt(context.Background(), []byte("fake image"), "image/png")
	require.NoError(t, err, "a parse failure is recorded on the result, not returned")
	assert.True(t, raw.Failed())
	assert.NotEmpty(t, raw.RawResponse)
}

func TestExtractReceipt_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClientWith("test-key", "gemini-2.0-flash", server.URL, server.Client())

	_, err := c.ExtractReceipt(context.Background(), []byte("fake image"), "image/png")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestExtractReceipt_MissingAPIKey(t *testing.T) {
	c := NewClientWith("", "gemini-2.0-flash", "http://unused.invalid", nil)

	_, err := c.ExtractReceipt(context.Background(), []byte("fake image"), "image/png")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestResolveCategory(t *testing.T) {
	const categoryID = "3f0c8e1a-92c4-4a7a-bb1d-6f1d2a9e0c11"
	server := newGeminiStub(t, fmt.Sprintf(
		"```json\n{\"category_id\": %q, \"is_user_category\": false, \"confidence\": 0.85}\n```", categoryID))
	defer server.Close()

	c := NewClientWith("test-key", "gemini-2.0-flash", server.URL, server.Client())

	options := []domain.CategoryOption{
		{ID: categoryID, Name: "Dining", IsUserCategory: false},
	}
	res, err := c.ResolveCategory(context.Background(), "Warung Makmur, total 45000", options)
	require.NoError(t, err)
	assert.Equal(t, categoryID, res.CategoryID)
	assert.False(t, res.IsUserCategory)
	assert.InDelta(t, 0.85, res.Confidence, 1e-9)
}

func TestResolveCategory_EmptyCategoryID(t *testing.T) {
	server := newGeminiStub(t, `{"category_id": "", "is_user_category": false, "confidence": 0.2}`)
	defer server.Close()

	c := NewClientWith("test-key", "gemini-2.0-flash", server.URL, server.Client())

	_, err := c.ResolveCategory(context.Background(), "unknown", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtraction)
}
