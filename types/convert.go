package types

import "Omnisell/models"

func NewOrder(o *models.Order) *Order {
	out := &Order{
		ID:                  o.ID,
		OrderSn:             o.OrderSn,
		CustomerID:          o.CustomerID,
		ChannelID:           o.ChannelID,
		StaffID:             o.StaffID,
		AffiliateID:         o.AffiliateID,
		Subtotal:            o.Subtotal,
		Discount:            o.Discount,
		ShippingFee:         o.ShippingFee,
		Tax:                 o.Tax,
		Total:               o.Total,
		StaffCommission:     o.StaffCommission,
		AffiliateCommission: o.AffiliateCommission,
		Status:              string(o.Status),
		PaymentStatus:       string(o.PaymentStatus),
		PaymentMethod:       o.PaymentMethod,
		Shipping: ShippingInfo{
			Name:       o.ShippingName,
			Phone:      o.ShippingPhone,
			Address:    o.ShippingAddress,
			City:       o.ShippingCity,
			PostalCode: o.ShippingPostalCode,
		},
		Courier:        o.Courier,
		TrackingNumber: o.TrackingNumber,
		CancelReason:   o.CancelReason,
		Notes:          o.Notes,
		PaidAt:         o.PaidAt,
		ConfirmedAt:    o.ConfirmedAt,
		PackedAt:       o.PackedAt,
		ShippedAt:      o.ShippedAt,
		DeliveredAt:    o.DeliveredAt,
		CancelledAt:    o.CancelledAt,
		RefundedAt:     o.RefundedAt,
		CreatedAt:      o.CreatedAt,
	}
	if o.ExternalOrderID != nil {
		out.ExternalOrderID = *o.ExternalOrderID
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, OrderItem{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			ProductSku:  it.ProductSku,
			Price:       it.Price,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal,
			Profit:      it.Profit,
		})
	}
	return out
}

func NewProduct(p *models.Product) *Product {
	return &Product{
		ID:                p.ID,
		Sku:               p.Sku,
		ProductName:       p.ProductName,
		Price:             p.Price,
		Cost:              p.Cost,
		StockQuantity:     p.StockQuantity,
		LowStockThreshold: p.LowStockThreshold,
		Status:            string(p.Status),
	}
}

func NewLedgerEntry(t *models.InventoryTransaction) LedgerEntry {
	return LedgerEntry{
		ID:            t.ID,
		Type:          string(t.Type),
		Quantity:      t.Quantity,
		StockAfter:    t.StockAfter,
		ReferenceType: t.ReferenceType,
		ReferenceID:   t.ReferenceID,
		ActorID:       t.ActorID,
		Note:          t.Note,
		CreatedAt:     t.CreatedAt,
	}
}

func NewCommission(c *models.CommissionTransaction) Commission {
	return Commission{
		ID:             c.ID,
		UserID:         c.UserID,
		OrderID:        c.OrderID,
		CommissionType: string(c.CommissionType),
		RuleType:       string(c.RuleType),
		RuleValue:      c.RuleValue,
		OrderTotal:     c.OrderTotal,
		Amount:         c.Amount,
		Status:         string(c.Status),
		ApprovedBy:     c.ApprovedBy,
		ApprovedAt:     c.ApprovedAt,
		PaidBy:         c.PaidBy,
		PaidAt:         c.PaidAt,
		CreatedAt:      c.CreatedAt,
	}
}
