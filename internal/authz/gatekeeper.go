package authz

import "maintenance-system/internal/entities"

// policy — единая таблица (операция, роль) -> разрешено.
// Вместо разбросанных по эндпоинтам switch-ей по строкам ролей
// каждый сервис спрашивает Gatekeeper перед мутацией.
var policy = map[Operation]map[entities.Role]bool{
	// Создать заявку может любой аутентифицированный пользователь:
	// заявки подают и владельцы оборудования, и техники.
	RequestsCreate:       allRoles(),
	RequestsView:         allRoles(),
	RequestsHistoryView:  allRoles(),
	RequestsAssign:       roles(entities.RoleAdmin, entities.RoleManager),
	RequestsChangeStatus: roles(entities.RoleAdmin, entities.RoleManager, entities.RoleTechnician),

	TeamsCreate:        roles(entities.RoleAdmin, entities.RoleManager),
	TeamsUpdate:        roles(entities.RoleAdmin, entities.RoleManager),
	TeamsDelete:        roles(entities.RoleAdmin, entities.RoleManager),
	TeamsView:          allRoles(),
	TeamsMembersView:   allRoles(),
	TeamsMembersManage: roles(entities.RoleAdmin, entities.RoleManager),

	EquipmentCreate: roles(entities.RoleAdmin, entities.RoleManager),
	EquipmentView:   allRoles(),

	CategoriesCreate: roles(entities.RoleAdmin, entities.RoleManager),
	CategoriesView:   allRoles(),

	ReportsView: roles(entities.RoleAdmin, entities.RoleManager),
}

func roles(rs ...entities.Role) map[entities.Role]bool {
	m := make(map[entities.Role]bool, len(rs))
	for _, r := range rs {
		m[r] = true
	}
	return m
}

func allRoles() map[entities.Role]bool {
	return roles(entities.RoleAdmin, entities.RoleManager, entities.RoleTechnician, entities.RoleUser)
}

// Gatekeeper — контейнер для проверок доступа.
type Gatekeeper struct{}

func NewGatekeeper() *Gatekeeper {
	return &Gatekeeper{}
}

// Can отвечает, разрешена ли операция для роли по таблице policy.
// Неизвестная операция или роль — запрещено.
func (g *Gatekeeper) Can(role entities.Role, op Operation) bool {
	allowed, ok := policy[op]
	if !ok {
		return false
	}
	return allowed[role]
}
