package customer

import (
	"Omnisell/pkg/apperr"
	"Omnisell/pkg/log"
	"context"
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service 接口
type Service interface {
	GetCustomer(ctx context.Context, id uint64) (*CustomerModel, error)
	// Upsert 按 email 查找或创建客户，已存在时不覆盖资料
	Upsert(ctx context.Context, in *UpsertInput) (*CustomerModel, error)
	// RecordOrder 累加订单数和消费金额，需在下单事务内调用
	RecordOrder(ctx context.Context, id uint64, total decimal.Decimal) error
}

// service 实现
type service struct {
	repo Repository
}

// NewService 构造函数
// 参数 Repository 会由 Wire 自动从 NewRepository() 注入进来
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetCustomer(ctx context.Context, id uint64) (*CustomerModel, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, apperr.NotFound("customer", id)
		}
		return nil, apperr.Internal(err)
	}
	return c, nil
}

func (s *service) Upsert(ctx context.Context, in *UpsertInput) (*CustomerModel, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(in.Email))
	if err != nil {
		return nil, apperr.Validation("invalid customer email %q", in.Email)
	}
	email := strings.ToLower(addr.Address)
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	c, created, err := s.repo.FirstOrCreate(ctx, &CustomerModel{
		Name:       name,
		Email:      email,
		Phone:      in.Phone,
		Address:    in.Address,
		City:       in.City,
		PostalCode: in.PostalCode,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if created {
		log.L.Info("customer created", zap.Uint64("customer_id", c.ID), zap.String("email", email))
	}
	return c, nil
}

func (s *service) RecordOrder(ctx context.Context, id uint64, total decimal.Decimal) error {
	if err := s.repo.IncrementStats(ctx, id, total); err != nil {
		if IsNotFound(err) {
			return apperr.NotFound("customer", id)
		}
		return apperr.Internal(err)
	}
	return nil
}
