package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"maintenance-system/internal/entities"
)

var allTestRoles = []entities.Role{
	entities.RoleAdmin, entities.RoleManager, entities.RoleTechnician, entities.RoleUser,
}

// TestGatekeeper_PolicyTable проверяет всю матрицу (операция, роль).
func TestGatekeeper_PolicyTable(t *testing.T) {
	g := NewGatekeeper()

	expected := map[Operation]map[entities.Role]bool{
		RequestsCreate:       {entities.RoleAdmin: true, entities.RoleManager: true, entities.RoleTechnician: true, entities.RoleUser: true},
		RequestsView:         {entities.RoleAdmin: true, entities.RoleManager: true, entities.RoleTechnician: true, entities.RoleUser: true},
		RequestsHistoryView:  {entities.RoleAdmin: true, entities.RoleManager: true, entities.RoleTechnician: true, entities.RoleUser: true},
		RequestsAssign:       {entities.RoleAdmin: true, entities.RoleManager: true},
		RequestsChangeStatus: {entities.RoleAdmin: true, entities.RoleManager: true, entities.RoleTechnician: true},

		TeamsCreate:        {entities.RoleAdmin: true, entities.RoleManager: true},
		TeamsUpdate:        {entities.RoleAdmin: true, entities.RoleManager: true},
		TeamsDelete:        {entities.RoleAdmin: true, entities.RoleManager: true},
		TeamsView:          {entities.RoleAdmin: true, entities.RoleManager: true, entities.RoleTechnician: true, entities.RoleUser: true},
		TeamsMembersView:   {entities.RoleAdmin: true, entities.RoleManager: true, entities.RoleTechnician: true, entities.RoleUser: true},
		TeamsMembersManage: {entities.RoleAdmin: true, entities.RoleManager: true},

		EquipmentCreate: {entities.RoleAdmin: true, entities.RoleManager: true},
		EquipmentView:   {entities.RoleAdmin: true, entities.RoleManager: true, entities.RoleTechnician: true, entities.RoleUser: true},

		CategoriesCreate: {entities.RoleAdmin: true, entities.RoleManager: true},
		CategoriesView:   {entities.RoleAdmin: true, entities.RoleManager: true, entities.RoleTechnician: true, entities.RoleUser: true},

		ReportsView: {entities.RoleAdmin: true, entities.RoleManager: true},
	}

	for op, byRole := range expected {
		for _, role := range allTestRoles {
			want := byRole[role]
			assert.Equalf(t, want, g.Can(role, op), "операция %s, роль %s", op, role)
		}
	}
}

func TestGatekeeper_UnknownOperation(t *testing.T) {
	g := NewGatekeeper()
	for _, role := range allTestRoles {
		assert.Falsef(t, g.Can(role, Operation("unknown:op")), "неизвестная операция должна быть запрещена для %s", role)
	}
}

func TestGatekeeper_UnknownRole(t *testing.T) {
	g := NewGatekeeper()
	assert.False(t, g.Can(entities.Role("GHOST"), RequestsCreate), "неизвестная роль не должна иметь прав")
}
