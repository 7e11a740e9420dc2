package dao

import (
	"Omnisell/models"
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WebhookLog struct {
	Repo[models.WebhookLog]
}

func NewWebhookLog(db *gorm.DB) *WebhookLog {
	return &WebhookLog{
		Repo: NewRepo[models.WebhookLog](db),
	}
}

// Received 处理前落库原始报文
func (w *WebhookLog) Received(ctx context.Context, marketplace, externalID string, payload []byte) (*models.WebhookLog, error) {
	row := &models.WebhookLog{
		Marketplace:     marketplace,
		ExternalOrderID: externalID,
		Payload:         datatypes.JSON(payload),
		Status:          models.WebhookReceived,
	}
	if err := w.Create(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (w *WebhookLog) Finish(ctx context.Context, id uint64, status models.WebhookStatus, orderID *uint64, errMsg string, skipped datatypes.JSON) error {
	values := map[string]any{
		"status": status,
		"error":  errMsg,
	}
	if orderID != nil {
		values["order_id"] = *orderID
	}
	if skipped != nil {
		values["skipped_skus"] = skipped
	}
	return w.UpdateColumns(ctx, id, values)
}
