// internal/authz/permissions.go
package authz

// --- СПИСОК ВСЕХ ОПЕРАЦИЙ В СИСТЕМЕ ---

type Operation string

const (
	// Заявки (Requests)
	RequestsCreate       Operation = "requests:create"
	RequestsView         Operation = "requests:view"
	RequestsAssign       Operation = "requests:assign"
	RequestsChangeStatus Operation = "requests:status:change"
	RequestsHistoryView  Operation = "requests:history:view"

	// Команды (Teams)
	TeamsCreate        Operation = "teams:create"
	TeamsUpdate        Operation = "teams:update"
	TeamsDelete        Operation = "teams:delete"
	TeamsView          Operation = "teams:view"
	TeamsMembersView   Operation = "teams:members:view"
	TeamsMembersManage Operation = "teams:members:manage"

	// Оборудование (Equipment)
	EquipmentCreate Operation = "equipment:create"
	EquipmentView   Operation = "equipment:view"

	// Справочники (Catalogs)
	CategoriesCreate Operation = "categories:create"
	CategoriesView   Operation = "categories:view"

	// Отчеты (Reports)
	ReportsView Operation = "reports:view"
)
