package domain

import (
	"encoding/json"
	"strings"
)

// FlexString tolerates upstream JSON that encodes a field as either a string
// or a bare number. The extraction service is asked for strings but does not
// always comply.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

type (
	// RawExtraction is the extraction service's output before any
	// normalization. Every field may be empty; consumers must handle absence
	// explicitly. ParseError is set instead of returning an error when the
	// upstream response could not be parsed, so the caller decides whether
	// that is fatal.
	RawExtraction struct {
		MerchantName    FlexString          `json:"merchant_name"`
		TotalAmount     FlexString          `json:"total_amount"`
		TransactionDate FlexString          `json:"transaction_date"`
		PaymentMethod   FlexString          `json:"payment_method"`
		Items           []RawExtractionItem `json:"items"`
		Confidence      RawConfidenceScores `json:"confidence_scores"`
		RawResponse     string              `json:"-"`
		ParseError      string              `json:"-"`
	}

	RawExtractionItem struct {
		Name       FlexString `json:"name"`
		Quantity   FlexString `json:"quantity"`
		Price      FlexString `json:"price"`
		TotalPrice FlexString `json:"total"`
	}

	RawConfidenceScores struct {
		MerchantName    float64 `json:"merchant_name"`
		TotalAmount     float64 `json:"total_amount"`
		TransactionDate float64 `json:"transaction_date"`
		PaymentMethod   float64 `json:"payment_method"`
	}

	// CategoryOption is one row of the reference table serialized into the
	// category resolution prompt.
	CategoryOption struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		IsUserCategory bool   `json:"is_user_category"`
	}

	// CategoryResolution is the fixed three-field result of the second
	// classification call.
	CategoryResolution struct {
		CategoryID     string  `json:"category_id"`
		IsUserCategory bool    `json:"is_user_category"`
		Confidence     float64 `json:"confidence"`
	}
)

// Failed reports whether the upstream response was unusable.
func (r RawExtraction) Failed() bool {
	return r.ParseError != ""
}
