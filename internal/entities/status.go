package entities

import "strings"

// RequestStatus — статус заявки на обслуживание.
type RequestStatus string

const (
	StatusNew        RequestStatus = "NEW"
	StatusInProgress RequestStatus = "IN_PROGRESS"
	StatusRepaired   RequestStatus = "REPAIRED"
	StatusScrap      RequestStatus = "SCRAP"
)

// AllowedTransitions — таблица конечного автомата статусов.
// REPAIRED и SCRAP — терминальные: исходящих переходов нет.
var AllowedTransitions = map[RequestStatus][]RequestStatus{
	StatusNew:        {StatusInProgress, StatusScrap},
	StatusInProgress: {StatusRepaired, StatusScrap},
	StatusRepaired:   {},
	StatusScrap:      {},
}

// CanTransition проверяет переход по таблице AllowedTransitions.
func CanTransition(from, to RequestStatus) bool {
	for _, next := range AllowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseRequestStatus нормализует входную строку к статусу.
func ParseRequestStatus(s string) (RequestStatus, bool) {
	switch RequestStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusNew:
		return StatusNew, true
	case StatusInProgress:
		return StatusInProgress, true
	case StatusRepaired:
		return StatusRepaired, true
	case StatusScrap:
		return StatusScrap, true
	}
	return "", false
}

// RequestType — тип заявки.
type RequestType string

const (
	TypePreventive RequestType = "PREVENTIVE"
	TypeCorrective RequestType = "CORRECTIVE"
)

// ParseRequestType принимает значение без учёта регистра.
func ParseRequestType(s string) (RequestType, bool) {
	switch RequestType(strings.ToUpper(strings.TrimSpace(s))) {
	case TypePreventive:
		return TypePreventive, true
	case TypeCorrective:
		return TypeCorrective, true
	}
	return "", false
}

// Priority — приоритет заявки.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

func ParsePriority(s string) (Priority, bool) {
	switch Priority(strings.ToUpper(strings.TrimSpace(s))) {
	case PriorityHigh:
		return PriorityHigh, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityLow:
		return PriorityLow, true
	}
	return "", false
}

// LogAction — тип записи в журнале жизненного цикла.
type LogAction string

const (
	ActionCreate       LogAction = "CREATE"
	ActionAssign       LogAction = "ASSIGN"
	ActionStatusChange LogAction = "STATUS_CHANGE"
)
