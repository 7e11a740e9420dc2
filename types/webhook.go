package types

type WebhookResult struct {
	Ref         string   `json:"ref"`
	OrderID     uint64   `json:"order_id,omitempty"`
	OrderSn     string   `json:"order_sn,omitempty"`
	Duplicate   bool     `json:"duplicate"`
	SkippedSkus []string `json:"skipped_skus,omitempty"`
}
