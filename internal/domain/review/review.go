package review

import (
	"fmt"
	"math"
)

// Stars is the number of histogram buckets (1..5 stars).
const Stars = 5

// z is the normal quantile used for the Wilson lower bound (confidence 0.8).
const z = 1.2815515655446004

// Stats is the aggregated rating information of one package.
type Stats struct {
	pkgName   string
	average   float64
	count     int
	histogram [Stars]int
}

// NewStats validates and creates Stats. histogram may be nil.
func NewStats(pkgName string, average float64, count int, histogram []int) (Stats, error) {
	if pkgName == "" {
		return Stats{}, fmt.Errorf("package name is required")
	}
	if average < 0 || average > Stars {
		return Stats{}, fmt.Errorf("average rating must be between 0 and %d, got %g", Stars, average)
	}
	if count < 0 {
		return Stats{}, fmt.Errorf("rating count must not be negative")
	}
	if histogram != nil && len(histogram) != Stars {
		return Stats{}, fmt.Errorf("histogram must have %d buckets, got %d", Stars, len(histogram))
	}
	s := Stats{pkgName: pkgName, average: average, count: count}
	for i, n := range histogram {
		if n < 0 {
			return Stats{}, fmt.Errorf("histogram bucket %d must not be negative", i+1)
		}
		s.histogram[i] = n
	}
	return s, nil
}

// PkgName returns the package the stats belong to.
func (s Stats) PkgName() string { return s.pkgName }

// Average returns the mean star rating.
func (s Stats) Average() float64 { return s.average }

// Count returns the number of ratings.
func (s Stats) Count() int { return s.count }

// Histogram returns the per-star rating counts (index 0 = one star).
func (s Stats) Histogram() [Stars]int { return s.histogram }

// DampenedRating is the rating used for top-rated ordering. With a histogram it is
// 3 + sum((star-3) * wilson(star)), which pulls packages with few ratings towards
// the neutral middle; without one it is the plain average.
func (s Stats) DampenedRating() float64 {
	total := 0
	for _, n := range s.histogram {
		total += n
	}
	if total == 0 {
		if s.count == 0 {
			return 0
		}
		return s.average
	}

	sum := 0.0
	for i, n := range s.histogram {
		sum += float64(i+1-3) * wilsonLowerBound(n, total)
	}
	return sum + 3
}

// Better reports whether a should be ordered before b in a top-rated listing.
func Better(a, b Stats) bool {
	da, db := a.DampenedRating(), b.DampenedRating()
	if da != db {
		return da > db
	}
	return a.count > b.count
}

func wilsonLowerBound(pos, n int) float64 {
	if n == 0 {
		return 0
	}
	fn := float64(n)
	phat := float64(pos) / fn
	z2 := z * z
	lb := (phat + z2/(2*fn) - z*math.Sqrt((phat*(1-phat)+z2/(4*fn))/fn)) / (1 + z2/fn)
	return max(0, lb)
}
