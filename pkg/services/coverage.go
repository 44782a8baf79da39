package services

import (
	"sort"
	"strings"
	"time"

	"github.com/basedosdados/catalog-engine/pkg/models"
)

// ============================================================================
// Temporal Coverage
// ============================================================================

// TemporalBounds is the resource-level temporal coverage: the earliest start
// and latest end across every date range of every coverage, rendered at the
// finest fully-specified granularity. Both nil when no range resolves.
type TemporalBounds struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// TimelineType labels a point of the open/closed coverage timeline.
type TimelineType string

const (
	TimelineOpen   TimelineType = "open"
	TimelineClosed TimelineType = "closed"
)

// TimelinePoint is one point of the coverage timeline rendered by
// FullTemporalCoverage.
type TimelinePoint struct {
	Date string       `json:"date"`
	Type TimelineType `json:"type"`
}

// bound tracks a datetime together with its granularity-aware rendering.
type bound struct {
	at  time.Time
	str string
}

// TemporalCoverage scans every date range of every coverage and returns the
// minimum since and maximum until. Ranges with no resolvable start or end
// contribute nothing; no data at all yields nil bounds.
func TemporalCoverage(coverages []*models.Coverage) TemporalBounds {
	var minSince, maxUntil *bound

	for _, cov := range coverages {
		for _, r := range cov.DateTimeRanges {
			minSince = earlier(minSince, r.Since(), r.SinceString())
			maxUntil = later(maxUntil, r.Until(), r.UntilString())
		}
	}

	var out TemporalBounds
	if minSince != nil {
		out.Start = &minSince.str
	}
	if maxUntil != nil {
		out.End = &maxUntil.str
	}
	return out
}

// FullTemporalCoverage renders the open/closed timeline of a resource as 2-3
// points. With a single coverage type the timeline is its [start, end]. With
// both, the timeline is [open start, boundary, closed end] where the boundary
// is the closed series' start when present, otherwise the open series' end;
// the boundary point borders the open segment and is labeled open. When
// neither series has both of its endpoints, there is no timeline.
func FullTemporalCoverage(coverages []*models.Coverage) []TimelinePoint {
	var openSince, openUntil, closedSince, closedUntil *bound

	for _, cov := range coverages {
		for _, r := range cov.DateTimeRanges {
			if cov.IsClosed {
				closedSince = earlier(closedSince, r.Since(), r.SinceString())
				closedUntil = later(closedUntil, r.Until(), r.UntilString())
			} else {
				openSince = earlier(openSince, r.Since(), r.SinceString())
				openUntil = later(openUntil, r.Until(), r.UntilString())
			}
		}
	}

	switch {
	case openSince != nil && closedSince != nil && closedUntil != nil:
		return []TimelinePoint{
			{Date: openSince.str, Type: TimelineOpen},
			{Date: closedSince.str, Type: TimelineOpen},
			{Date: closedUntil.str, Type: TimelineClosed},
		}
	case openSince != nil && openUntil != nil && closedUntil != nil:
		return []TimelinePoint{
			{Date: openSince.str, Type: TimelineOpen},
			{Date: openUntil.str, Type: TimelineOpen},
			{Date: closedUntil.str, Type: TimelineClosed},
		}
	case openSince != nil && openUntil != nil:
		return []TimelinePoint{
			{Date: openSince.str, Type: TimelineOpen},
			{Date: openUntil.str, Type: TimelineOpen},
		}
	case closedSince != nil && closedUntil != nil:
		return []TimelinePoint{
			{Date: closedSince.str, Type: TimelineClosed},
			{Date: closedUntil.str, Type: TimelineClosed},
		}
	default:
		return nil
	}
}

func earlier(cur *bound, t *time.Time, str string) *bound {
	if t == nil {
		return cur
	}
	if cur == nil || t.Before(cur.at) {
		return &bound{at: *t, str: str}
	}
	return cur
}

func later(cur *bound, t *time.Time, str string) *bound {
	if t == nil {
		return cur
	}
	if cur == nil || t.After(cur.at) {
		return &bound{at: *t, str: str}
	}
	return cur
}

// ============================================================================
// Spatial Coverage
// ============================================================================

// AreaWorld subsumes every other area.
const AreaWorld = "world"

// SpatialCoverage collects the distinct area slugs across all coverages and
// keeps only the most specific area per branch: an area is dropped when a
// descendant is also present ("br_mg" gives way to "br_mg_3106200").
// Ancestry is decomposed on "_" slug segments. The world area subsumes
// everything.
func SpatialCoverage(coverages []*models.Coverage) []string {
	areas := make(map[string]struct{})
	for _, cov := range coverages {
		if a := cov.Area(); a != "" {
			areas[a] = struct{}{}
		}
	}
	if len(areas) == 0 {
		return []string{}
	}
	if _, ok := areas[AreaWorld]; ok {
		return []string{AreaWorld}
	}

	// Collect every proper slug-segment ancestor present in the set, then
	// keep only areas that are not an ancestor of something more specific.
	ancestors := make(map[string]struct{})
	for area := range areas {
		segments := strings.Split(area, "_")
		for i := 1; i < len(segments); i++ {
			ancestors[strings.Join(segments[:i], "_")] = struct{}{}
		}
	}

	out := make([]string, 0, len(areas))
	for area := range areas {
		if _, isAncestor := ancestors[area]; isAncestor {
			continue
		}
		out = append(out, area)
	}
	sort.Strings(out)
	return out
}
