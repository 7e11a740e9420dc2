package workflow

import (
	"Omnisell/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v uint64) *uint64 { return &v }

func TestCanView(t *testing.T) {
	order := &models.Order{StaffID: ptr(7), AffiliateID: ptr(9)}

	assert.True(t, CanView(Actor{ID: 1, Role: RoleAdmin}, order))
	assert.True(t, CanView(Actor{ID: 7, Role: RoleStaff}, order))
	assert.False(t, CanView(Actor{ID: 8, Role: RoleStaff}, order))
	assert.True(t, CanView(Actor{ID: 9, Role: RoleAffiliate}, order))
	assert.False(t, CanView(Actor{ID: 7, Role: RoleAffiliate}, order))
	assert.False(t, CanView(Actor{ID: 7, Role: "guest"}, order))

	assert.False(t, CanView(Actor{ID: 7, Role: RoleStaff}, &models.Order{}))
}

func TestCanTransition(t *testing.T) {
	assigned := &models.Order{StaffID: ptr(7)}
	unassigned := &models.Order{}

	assert.True(t, CanTransition(Actor{ID: 1, Role: RoleAdmin}, assigned, models.OrderShipped))
	assert.True(t, CanTransition(Actor{ID: 7, Role: RoleStaff}, assigned, models.OrderShipped))
	assert.False(t, CanTransition(Actor{ID: 8, Role: RoleStaff}, assigned, models.OrderShipped))
	assert.False(t, CanTransition(Actor{ID: 8, Role: RoleStaff}, unassigned, models.OrderConfirmed))
	assert.True(t, CanTransition(Actor{ID: 1, Role: RoleAdmin}, unassigned, models.OrderConfirmed))
	assert.False(t, CanTransition(Actor{ID: 9, Role: RoleAffiliate}, unassigned, models.OrderConfirmed))
}

func TestCanUpdatePayment(t *testing.T) {
	assigned := &models.Order{StaffID: ptr(7), AffiliateID: ptr(9)}

	assert.True(t, CanUpdatePayment(Actor{ID: 1, Role: RoleAdmin}, assigned))
	assert.True(t, CanUpdatePayment(Actor{ID: 7, Role: RoleStaff}, assigned))
	assert.False(t, CanUpdatePayment(Actor{ID: 8, Role: RoleStaff}, assigned))
	assert.False(t, CanUpdatePayment(Actor{ID: 9, Role: RoleAffiliate}, assigned))
	assert.False(t, CanUpdatePayment(Actor{ID: 7, Role: RoleStaff}, &models.Order{}))
}

func TestRoleGates(t *testing.T) {
	admin := Actor{ID: 1, Role: RoleAdmin}
	staff := Actor{ID: 2, Role: RoleStaff}
	affiliate := Actor{ID: 3, Role: RoleAffiliate}

	assert.True(t, CanManageCommissions(admin))
	assert.False(t, CanManageCommissions(staff))

	assert.False(t, CanCreateOrder(affiliate))
	assert.True(t, Role("staff").Valid())
	assert.False(t, Role("root").Valid())
}
