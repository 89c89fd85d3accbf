package teleport

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestResolve(t *testing.T) {
	snapDown := func(p mgl64.Vec3) mgl64.Vec3 { return mgl64.Vec3{p.X(), p.Y(), 0} }

	tests := []struct {
		name      string
		sample    Sample
		nav       *fakeQuery
		wantValid bool
		wantLoc   mgl64.Vec3
		wantErr   error
	}{
		{
			name:    "empty sample",
			sample:  Sample{},
			nav:     &fakeQuery{navOK: true},
			wantErr: ErrNoHit,
		},
		{
			name:    "no navigator",
			sample:  Sample{Points: []mgl64.Vec3{{1, 2, 3}}},
			wantErr: ErrNoProvider,
		},
		{
			name:    "off navmesh",
			sample:  Sample{Points: []mgl64.Vec3{{1, 2, 3}}},
			nav:     &fakeQuery{navOK: false},
			wantErr: ErrOffNavMesh,
		},
		{
			name:      "projects terminal point",
			sample:    Sample{Points: []mgl64.Vec3{{0, 0, 50}, {10, 0, 20}, {20, 0, 3}}},
			nav:       &fakeQuery{navOK: true, navSnap: snapDown},
			wantValid: true,
			wantLoc:   mgl64.Vec3{20, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r *Resolver
			extent := mgl64.Vec3{10, 10, 50}
			if tt.nav == nil {
				r = NewResolver(nil, extent)
			} else {
				r = NewResolver(tt.nav, extent)
			}

			dest := r.Resolve(tt.sample)

			if dest.Valid != tt.wantValid {
				t.Fatalf("expected valid=%v, got %v", tt.wantValid, dest.Valid)
			}
			if tt.wantErr != nil && !errors.Is(dest.Reason, tt.wantErr) {
				t.Errorf("expected reason %v, got %v", tt.wantErr, dest.Reason)
			}
			if tt.wantValid {
				if dest.Reason != nil {
					t.Errorf("valid destination must have no reason, got %v", dest.Reason)
				}
				if !vecNear(dest.Location, tt.wantLoc) {
					t.Errorf("expected %v, got %v", tt.wantLoc, dest.Location)
				}
				if !vecNear(tt.nav.lastExtent, extent) {
					t.Errorf("expected extent %v, got %v", extent, tt.nav.lastExtent)
				}
			}
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	nav := &fakeQuery{navOK: true}
	r := NewResolver(nav, mgl64.Vec3{})
	sample := Sample{Points: []mgl64.Vec3{{4, 5, 6}}}

	first := r.Resolve(sample)
	for i := 0; i < 10; i++ {
		if got := r.Resolve(sample); got != first {
			t.Fatalf("resolution %d differs: %+v vs %+v", i, got, first)
		}
	}
}
