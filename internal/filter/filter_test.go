package filter

import (
	"testing"
	"time"

	"github.com/pcornet/peloton/internal/raceapi"
)

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func upcoming(day int) string {
	return time.Date(2026, 5, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

func sampleRaces() []raceapi.Race {
	return []raceapi.Race{
		{ID: 1, Name: "Gran Fondo Norte", Category: "Gran Fondo", DistanceKM: 40, Gender: "m", Date: upcoming(10), Location: "Oviedo"},
		{ID: 2, Name: "Ultra Sur", Category: "Ultra Fondo", DistanceKM: 120, Gender: "f", Date: upcoming(20), Location: "Granada"},
	}
}

func ids(races []raceapi.Race) []int64 {
	out := make([]int64, len(races))
	for i, r := range races {
		out[i] = r.ID
	}
	return out
}

func TestApply_SingleCriteria(t *testing.T) {
	races := sampleRaces()

	got := Apply(races, Criteria{Distance: DistanceShort}, now)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("distance=short -> %v, want [1]", ids(got))
	}

	got = Apply(races, Criteria{Category: "Ultra Fondo"}, now)
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("category=Ultra Fondo -> %v, want [2]", ids(got))
	}

	got = Apply(races, Criteria{Gender: "f"}, now)
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("gender=f -> %v, want [2]", ids(got))
	}

	got = Apply(races, Criteria{Gender: "F"}, now)
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("gender matching must be case-insensitive, got %v", ids(got))
	}
}

func TestApply_PastRacesAlwaysExcluded(t *testing.T) {
	races := []raceapi.Race{
		{ID: 1, Name: "Clásica de Ayer", Date: "2026-04-30"},
		{ID: 2, Name: "Hoy", Date: "2026-05-01"},
		{ID: 3, Name: "Sin fecha"},
	}
	got := Apply(races, Criteria{}, now)
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 3 {
		t.Fatalf("default view = %v, want [2 3]: past races excluded, today and undated kept", ids(got))
	}
}

func TestApply_SearchOnNameOnly(t *testing.T) {
	races := sampleRaces()

	got := Apply(races, Criteria{Search: "ultra"}, now)
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("search=ultra -> %v, want [2]", ids(got))
	}

	// Location text never matches the search term.
	got = Apply(races, Criteria{Search: "granada"}, now)
	if len(got) != 0 {
		t.Fatalf("search=granada -> %v, want [] (name-only search)", ids(got))
	}

	// Empty search reverts to the full upcoming catalog.
	got = Apply(races, Criteria{Search: "   "}, now)
	if len(got) != 2 {
		t.Fatalf("blank search -> %v, want both races", ids(got))
	}
}

func TestApply_LocationSubstring(t *testing.T) {
	races := sampleRaces()
	races = append(races, raceapi.Race{ID: 3, Name: "Sin sitio", Date: upcoming(15)})

	got := Apply(races, Criteria{Location: "gran"}, now)
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("location=gran -> %v, want [2]; no-location races fail the filter", ids(got))
	}
}

func TestApply_ComposesWithAND(t *testing.T) {
	races := append(sampleRaces(),
		raceapi.Race{ID: 3, Name: "Gran Fondo Este", Category: "Gran Fondo", DistanceKM: 80, Gender: "m", Date: upcoming(12), Location: "Teruel"},
	)

	got := Apply(races, Criteria{Search: "gran fondo", Category: "Gran Fondo", Distance: DistanceMedium}, now)
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("composed filter -> %v, want [3]", ids(got))
	}
}

func TestApply_PreservesCatalogOrder(t *testing.T) {
	races := []raceapi.Race{
		{ID: 5, Name: "Vuelta C", Date: upcoming(9)},
		{ID: 2, Name: "Vuelta A", Date: upcoming(8)},
		{ID: 9, Name: "Vuelta B", Date: upcoming(7)},
	}
	got := Apply(races, Criteria{Search: "vuelta"}, now)
	want := []int64{5, 2, 9}
	for i, id := range ids(got) {
		if id != want[i] {
			t.Fatalf("order = %v, want %v", ids(got), want)
		}
	}
}

func TestBucketFor(t *testing.T) {
	cases := []struct {
		km   float64
		want DistanceBucket
	}{
		{0, DistanceShort},
		{50, DistanceShort},
		{50.5, DistanceMedium},
		{100, DistanceMedium},
		{100.1, DistanceLong},
	}
	for _, tc := range cases {
		if got := BucketFor(tc.km); got != tc.want {
			t.Fatalf("BucketFor(%v) = %q, want %q", tc.km, got, tc.want)
		}
	}
}

func TestCriteria_IsZero(t *testing.T) {
	if !(Criteria{}).IsZero() {
		t.Fatal("zero Criteria should report IsZero")
	}
	if (Criteria{Gender: "f"}).IsZero() {
		t.Fatal("Criteria with gender set should not report IsZero")
	}
}
