package application

import (
	"reflect"
	"testing"
)

func TestDiffZones(t *testing.T) {
	existing := []Zone{
		{ID: "z1", Name: "North", Capacity: 4},
		{ID: "z2", Name: "South", Capacity: 6},
		{ID: "z3", Name: "East", Capacity: 2},
	}

	t.Run("three way split by name", func(t *testing.T) {
		desired := []ZoneInput{
			{Name: "South ", Capacity: 10},
			{Name: "West", Capacity: 3},
			{Name: "North", Capacity: 4},
		}
		diff := DiffZones(existing, desired, sequentialIDs("new"))

		if want := []Zone{{ID: "z3", Name: "East", Capacity: 2}}; !reflect.DeepEqual(diff.Delete, want) {
			t.Fatalf("delete: expected %v, got %v", want, diff.Delete)
		}
		wantUpdate := []Zone{{ID: "z1", Name: "North", Capacity: 4}, {ID: "z2", Name: "South", Capacity: 10}}
		if !reflect.DeepEqual(diff.Update, wantUpdate) {
			t.Fatalf("update: expected %v, got %v", wantUpdate, diff.Update)
		}
		if want := []Zone{{ID: "new-1", Name: "West", Capacity: 3}}; !reflect.DeepEqual(diff.Create, want) {
			t.Fatalf("create: expected %v, got %v", want, diff.Create)
		}
		if got := diff.Result(); len(got) != 3 || got[2].Name != "West" {
			t.Fatalf("unexpected result order: %v", got)
		}
	})

	t.Run("rename is delete plus create", func(t *testing.T) {
		diff := DiffZones(existing[:1], []ZoneInput{{Name: "Northern", Capacity: 4}}, sequentialIDs("new"))
		if len(diff.Delete) != 1 || len(diff.Update) != 0 || len(diff.Create) != 1 {
			t.Fatalf("unexpected diff: %+v", diff)
		}
	})

	t.Run("empty existing creates everything", func(t *testing.T) {
		diff := DiffZones(nil, []ZoneInput{{Name: "A", Capacity: 1}, {Name: "B", Capacity: 2}}, sequentialIDs("new"))
		if len(diff.Create) != 2 || diff.Create[1].ID != "new-2" {
			t.Fatalf("unexpected create set: %+v", diff.Create)
		}
		if zoneIDs(diff.Delete) != nil {
			t.Fatal("expected nil delete ids")
		}
	})

	t.Run("empty desired deletes everything", func(t *testing.T) {
		diff := DiffZones(existing, nil, sequentialIDs("new"))
		if got := zoneIDs(diff.Delete); !reflect.DeepEqual(got, []string{"z1", "z2", "z3"}) {
			t.Fatalf("unexpected delete ids: %v", got)
		}
		if len(diff.Result()) != 0 {
			t.Fatal("expected no remaining zones")
		}
	})
}
