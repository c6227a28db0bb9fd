package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCanTransition_FullTable перебирает все пары статусов и сверяет
// результат с таблицей переходов.
func TestCanTransition_FullTable(t *testing.T) {
	allStatuses := []RequestStatus{StatusNew, StatusInProgress, StatusRepaired, StatusScrap}

	allowed := map[RequestStatus]map[RequestStatus]bool{
		StatusNew:        {StatusInProgress: true, StatusScrap: true},
		StatusInProgress: {StatusRepaired: true, StatusScrap: true},
		StatusRepaired:   {},
		StatusScrap:      {},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			got := CanTransition(from, to)
			want := allowed[from][to]
			assert.Equalf(t, want, got, "переход %s -> %s: ожидалось %v", from, to, want)
		}
	}
}

func TestCanTransition_TerminalStatuses(t *testing.T) {
	assert.Empty(t, AllowedTransitions[StatusRepaired], "REPAIRED должен быть терминальным")
	assert.Empty(t, AllowedTransitions[StatusScrap], "SCRAP должен быть терминальным")
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.False(t, CanTransition("UNKNOWN", StatusNew), "неизвестный статус не должен иметь переходов")
	assert.False(t, CanTransition(StatusNew, "UNKNOWN"), "переход в неизвестный статус запрещён")
}

func TestParseRequestStatus(t *testing.T) {
	cases := []struct {
		input string
		want  RequestStatus
		ok    bool
	}{
		{"NEW", StatusNew, true},
		{"new", StatusNew, true},
		{" In_Progress ", StatusInProgress, true},
		{"repaired", StatusRepaired, true},
		{"SCRAP", StatusScrap, true},
		{"DONE", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseRequestStatus(tc.input)
		assert.Equalf(t, tc.ok, ok, "вход %q", tc.input)
		assert.Equalf(t, tc.want, got, "вход %q", tc.input)
	}
}

func TestParseRequestType(t *testing.T) {
	got, ok := ParseRequestType("preventive")
	assert.True(t, ok)
	assert.Equal(t, TypePreventive, got)

	got, ok = ParseRequestType("CORRECTIVE")
	assert.True(t, ok)
	assert.Equal(t, TypeCorrective, got)

	_, ok = ParseRequestType("EMERGENCY")
	assert.False(t, ok, "неизвестный тип должен отклоняться")
}

func TestParsePriority(t *testing.T) {
	got, ok := ParsePriority("high")
	assert.True(t, ok)
	assert.Equal(t, PriorityHigh, got)

	_, ok = ParsePriority("CRITICAL")
	assert.False(t, ok, "неизвестный приоритет должен отклоняться")
}

func TestParseRole(t *testing.T) {
	got, ok := ParseRole("technician")
	assert.True(t, ok)
	assert.Equal(t, RoleTechnician, got)

	_, ok = ParseRole("SUPERVISOR")
	assert.False(t, ok, "неизвестная роль должна отклоняться")
}
