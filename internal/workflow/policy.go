// Package workflow 订单流转规则：状态机、金额计算、佣金计算与权限判定。
// 不依赖存储，service 层在事务内调用。
package workflow

import "Omnisell/models"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleStaff     Role = "staff"
	RoleAffiliate Role = "affiliate"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleAffiliate:
		return true
	}
	return false
}

// Actor 当前操作人，来自鉴权中间件
type Actor struct {
	ID   uint64
	Role Role
}

// System 外部渠道推单等无人工操作的场景
var System = Actor{ID: 0, Role: RoleAdmin}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanView staff 只能看分配给自己的订单，affiliate 只能看给自己记佣的订单
func CanView(a Actor, o *models.Order) bool {
	switch a.Role {
	case RoleAdmin:
		return true
	case RoleStaff:
		return o.StaffID != nil && *o.StaffID == a.ID
	case RoleAffiliate:
		return o.AffiliateID != nil && *o.AffiliateID == a.ID
	}
	return false
}

// CanTransition admin 可操作任意订单，staff 仅限分配给自己的订单。
// 渠道推单没有负责人，只能由 admin 处理。
func CanTransition(a Actor, o *models.Order, _ models.OrderStatus) bool {
	switch a.Role {
	case RoleAdmin:
		return true
	case RoleStaff:
		return o.StaffID != nil && *o.StaffID == a.ID
	}
	return false
}

// CanUpdatePayment 与状态流转同一套订单范围
func CanUpdatePayment(a Actor, o *models.Order) bool {
	return CanTransition(a, o, o.Status)
}

func CanManageCommissions(a Actor) bool {
	return a.Role == RoleAdmin
}

func CanManageInventory(a Actor) bool {
	return a.Role == RoleAdmin || a.Role == RoleStaff
}

// CanCreateOrder affiliate 只带来流量，不直接下单
func CanCreateOrder(a Actor) bool {
	return a.Role == RoleAdmin || a.Role == RoleStaff
}
