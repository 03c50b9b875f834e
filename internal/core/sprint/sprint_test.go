package sprint

import (
	"reflect"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCanCreateSprint(t *testing.T) {
	if r := CanCreateSprint(CreateSprintContext{Name: "S1", StartDate: day("2025-01-01"), EndDate: day("2025-01-14")}); !r.Allowed {
		t.Errorf("expected allowed, got %q", r.Reason)
	}
	if r := CanCreateSprint(CreateSprintContext{StartDate: day("2025-01-01"), EndDate: day("2025-01-14")}); r.Reason != "sprint name is required" {
		t.Errorf("unexpected reason %q", r.Reason)
	}
	r := CanCreateSprint(CreateSprintContext{Name: "S1", StartDate: day("2025-01-14"), EndDate: day("2025-01-01")})
	if r.Allowed || r.Reason != "sprint end date 2025-01-01 is before start date 2025-01-14" {
		t.Errorf("unexpected result %+v", r)
	}
}

func TestCanRetireSprint(t *testing.T) {
	if !CanRetireSprint(RetireSprintContext{Name: "S1", Action: "deleted"}).Allowed {
		t.Error("inactive sprint should be retirable")
	}
	r := CanRetireSprint(RetireSprintContext{Name: "S1", IsActive: true, Action: "archived"})
	if r.Allowed || r.Reason != "the active sprint 'S1' cannot be archived" {
		t.Errorf("unexpected result %+v", r)
	}
}

func TestComputeBurndown(t *testing.T) {
	snapshots := []Snapshot{
		{TaskID: "t1", Date: day("2025-01-01"), Category: "open"},
		{TaskID: "t1", Date: day("2025-01-03"), Category: "completed"},
		{TaskID: "t2", Date: day("2025-01-02"), Category: "active"},
		{TaskID: "t3", Date: day("2024-12-30"), Category: "open"},
		{TaskID: "other", Date: day("2025-01-01"), Category: "open"},
	}

	got := ComputeBurndown(day("2025-01-01"), day("2025-01-04"), []string{"t1", "t2", "t3"}, snapshots)
	want := Burndown{
		Labels:  []string{"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04"},
		Total:   []int{2, 3, 3, 3},
		Pending: []int{2, 3, 2, 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ComputeBurndown() = %+v, want %+v", got, want)
	}
}

func TestComputeBurndown_EmptySprint(t *testing.T) {
	got := ComputeBurndown(day("2025-01-01"), day("2025-01-02"), nil, nil)
	if !reflect.DeepEqual(got.Total, []int{0, 0}) || len(got.Labels) != 2 {
		t.Errorf("unexpected burndown %+v", got)
	}
}

func TestDay(t *testing.T) {
	in := time.Date(2025, 3, 4, 23, 59, 0, 0, time.UTC)
	if got := Day(in); !got.Equal(day("2025-03-04")) {
		t.Errorf("Day() = %v", got)
	}
}
