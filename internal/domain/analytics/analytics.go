package analytics

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"tarantula-log/internal/domain/identity"
	"tarantula-log/internal/domain/records"
)

const day = 24 * time.Hour

// IntervalStats: días entre mudas consecutivas, de la más nueva a la más vieja.
type IntervalStats struct {
	AverageDays *int
	LastDays    *int
	Intervals   []int
}

type SpecimenAnalytics struct {
	Specimen    string
	Species     string
	SpecimenID  string
	LastMoltAt  time.Time
	Intervals   IntervalStats
	YearlyMolts map[int]int
}

// Compute agrupa las mudas por ejemplar: por referencia si la tiene, si no por nombre y especie.
// Las alimentaciones se ignoran. Resultado ordenado por nombre.
func Compute(entries []records.MoltEntry) []SpecimenAnalytics {
	type dataset struct {
		out   SpecimenAnalytics
		dates []time.Time
	}
	groups := map[string]*dataset{}
	var order []string

	for _, e := range entries {
		if e.EntryType != records.EntryTypeMolt {
			continue
		}
		name := identity.DisplayName(e.Specimen)
		id, linked := e.SpecimenRef.ID()
		key := id
		if !linked {
			key = "name:" + name + "::" + strings.TrimSpace(e.Species)
		}

		d, ok := groups[key]
		if !ok {
			d = &dataset{out: SpecimenAnalytics{
				Specimen:   name,
				Species:    strings.TrimSpace(e.Species),
				SpecimenID: id,
			}}
			groups[key] = d
			order = append(order, key)
		}
		d.dates = append(d.dates, e.Date)
		if d.out.Species == "" {
			d.out.Species = strings.TrimSpace(e.Species)
		}
	}

	out := make([]SpecimenAnalytics, 0, len(groups))
	for _, key := range order {
		d := groups[key]
		sort.Slice(d.dates, func(i, j int) bool { return d.dates[i].After(d.dates[j]) })

		a := d.out
		a.LastMoltAt = d.dates[0]
		a.YearlyMolts = map[int]int{}
		for _, t := range d.dates {
			a.YearlyMolts[t.UTC().Year()]++
		}

		a.Intervals.Intervals = []int{}
		for i := 0; i < len(d.dates)-1; i++ {
			diff := d.dates[i].Sub(d.dates[i+1])
			a.Intervals.Intervals = append(a.Intervals.Intervals, int(math.Round(float64(diff)/float64(day))))
		}
		if n := len(a.Intervals.Intervals); n > 0 {
			sum := 0
			for _, v := range a.Intervals.Intervals {
				sum += v
			}
			avg := int(math.Round(float64(sum) / float64(n)))
			last := a.Intervals.Intervals[0]
			a.Intervals.AverageDays = &avg
			a.Intervals.LastDays = &last
		}
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		li, lj := strings.ToLower(out[i].Specimen), strings.ToLower(out[j].Specimen)
		if li != lj {
			return li < lj
		}
		return out[i].Specimen < out[j].Specimen
	})
	return out
}

type Service struct {
	molts records.MoltRepository
}

func NewService(molts records.MoltRepository) *Service {
	return &Service{molts: molts}
}

func (s *Service) Molts(ctx context.Context, ownerUserID string) ([]SpecimenAnalytics, error) {
	entries, err := s.molts.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	return Compute(entries), nil
}
