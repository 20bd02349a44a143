package repository

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"fleetalloc/pkg/model"
)

// The allocated-vehicles query must stay an aggregation: the distinct
// command cannot run inside the multi-document transaction the
// availability snapshot read uses.
func TestAllocatedVehiclesPipeline(t *testing.T) {
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	pipeline := allocatedVehiclesPipeline(date)

	if len(pipeline) != 2 {
		t.Fatalf("expected 2 pipeline stages, got %d", len(pipeline))
	}

	match := pipeline[0]
	if match[0].Key != "$match" {
		t.Fatalf("expected first stage $match, got %s", match[0].Key)
	}
	criteria, ok := match[0].Value.(bson.M)
	if !ok {
		t.Fatalf("expected bson.M match criteria, got %T", match[0].Value)
	}
	if criteria["status"] != model.AllocationActive {
		t.Errorf("expected match on active status, got %v", criteria["status"])
	}
	if criteria["allocation_date"] != date {
		t.Errorf("expected match on %v, got %v", date, criteria["allocation_date"])
	}

	group := pipeline[1]
	if group[0].Key != "$group" {
		t.Fatalf("expected second stage $group, got %s", group[0].Key)
	}
	spec, ok := group[0].Value.(bson.M)
	if !ok {
		t.Fatalf("expected bson.M group spec, got %T", group[0].Value)
	}
	set, ok := spec["vehicle_ids"].(bson.M)
	if !ok || set["$addToSet"] != "$vehicle_id" {
		t.Errorf("expected $addToSet on $vehicle_id, got %v", spec["vehicle_ids"])
	}
}

func TestBuildQuery(t *testing.T) {
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter model.AllocationFilter
		want   bson.M
	}{
		{
			name:   "empty filter matches everything",
			filter: model.AllocationFilter{},
			want:   bson.M{},
		},
		{
			name:   "vehicle and status",
			filter: model.AllocationFilter{VehicleID: "507f1f77bcf86cd799439011", Status: model.AllocationActive},
			want:   bson.M{"vehicle_id": "507f1f77bcf86cd799439011", "status": model.AllocationActive},
		},
		{
			name:   "open-ended range keeps only the supplied bound",
			filter: model.AllocationFilter{From: &from},
			want:   bson.M{"allocation_date": bson.M{"$gte": from}},
		},
		{
			name:   "full range",
			filter: model.AllocationFilter{EmployeeID: "507f1f77bcf86cd799439021", From: &from, To: &to},
			want:   bson.M{"employee_id": "507f1f77bcf86cd799439021", "allocation_date": bson.M{"$gte": from, "$lte": to}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildQuery(tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d criteria, got %d: %v", len(tt.want), len(got), got)
			}
			for key, want := range tt.want {
				gotVal, ok := got[key]
				if !ok {
					t.Errorf("missing criterion %q", key)
					continue
				}
				if wantRange, isRange := want.(bson.M); isRange {
					gotRange, isGotRange := gotVal.(bson.M)
					if !isGotRange || len(gotRange) != len(wantRange) {
						t.Errorf("criterion %q: expected %v, got %v", key, want, gotVal)
						continue
					}
					for op, bound := range wantRange {
						if gotRange[op] != bound {
							t.Errorf("criterion %q %s: expected %v, got %v", key, op, bound, gotRange[op])
						}
					}
					continue
				}
				if gotVal != want {
					t.Errorf("criterion %q: expected %v, got %v", key, want, gotVal)
				}
			}
		})
	}
}
