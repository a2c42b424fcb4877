package lifecycle

import (
	"math"
	"sort"

	"civicpulse-be/models"
)

// Risk tiers for complaint-prone locations.
const (
	RiskHigh   = "HIGH"
	RiskMedium = "MEDIUM"
	RiskLow    = "LOW"
)

// Heat tier thresholds and the minimum count for a location to qualify as
// a red zone at all.
const (
	highRiskThreshold   = 10
	mediumRiskThreshold = 5
	redZoneMinCount     = 3
	redZoneLimit        = 10
)

// slaTargets holds per-category resolution targets in days.
var slaTargets = map[string]int{
	"Road":         3,
	"Water":        2,
	"Electricity":  2,
	"Sanitation":   3,
	"Street Light": 1,
	"Other":        5,
}

const defaultSLADays = 5

// SLATargetDays returns the resolution target for a category.
func SLATargetDays(category string) int {
	if d, ok := slaTargets[category]; ok {
		return d
	}
	return defaultSLADays
}

// RiskLevel ranks a complaint count into a heat tier.
func RiskLevel(count int64) string {
	switch {
	case count >= highRiskThreshold:
		return RiskHigh
	case count >= mediumRiskThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

type CategoryDistribution struct {
	Category   string  `json:"category"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

type ZoneDistribution struct {
	Location string `json:"location"`
	Count    int64  `json:"count"`
}

type SLAPerformance struct {
	Category              string  `json:"category"`
	SLATargetDays         int     `json:"slaTargetDays"`
	TotalComplaints       int64   `json:"totalComplaints"`
	WithinSLA             int64   `json:"withinSLA"`
	BreachedSLA           int64   `json:"breachedSLA"`
	ComplianceRate        float64 `json:"complianceRate"`
	AverageResolutionDays float64 `json:"averageResolutionDays"`
}

type RedZone struct {
	Location           string   `json:"location"`
	ComplaintCount     int64    `json:"complaintCount"`
	Latitude           *float64 `json:"latitude,omitempty"`
	Longitude          *float64 `json:"longitude,omitempty"`
	MostCommonCategory string   `json:"mostCommonCategory"`
	RiskLevel          string   `json:"riskLevel"`
}

// DashboardStats is the analytics dashboard payload.
type DashboardStats struct {
	TotalComplaints       int64                  `json:"totalComplaints"`
	ResolvedComplaints    int64                  `json:"resolvedComplaints"`
	InProgressComplaints  int64                  `json:"inProgressComplaints"`
	PendingComplaints     int64                  `json:"pendingComplaints"`
	ResolutionRate        float64                `json:"resolutionRate"`
	AverageResolutionTime float64                `json:"averageResolutionTime"`
	CategoryDistribution  []CategoryDistribution `json:"categoryDistribution"`
	ZoneDistribution      []ZoneDistribution     `json:"zoneDistribution"`
	SLAPerformance        []SLAPerformance       `json:"slaPerformance"`
	RedZones              []RedZone              `json:"redZones"`
}

// Dashboard derives the full analytics snapshot from the grievance list.
func Dashboard(grievances []models.Grievance) DashboardStats {
	stats := DashboardStats{
		TotalComplaints: int64(len(grievances)),
	}
	for _, g := range grievances {
		switch g.Status {
		case models.StatusResolved:
			stats.ResolvedComplaints++
		case models.StatusInProgress:
			stats.InProgressComplaints++
		case models.StatusPending:
			stats.PendingComplaints++
		}
	}
	if stats.TotalComplaints > 0 {
		stats.ResolutionRate = float64(stats.ResolvedComplaints) * 100 / float64(stats.TotalComplaints)
	}
	stats.AverageResolutionTime = averageResolutionDays(grievances)
	stats.CategoryDistribution = Categories(grievances)
	stats.ZoneDistribution = Zones(grievances)
	stats.SLAPerformance = SLACompliance(grievances)
	stats.RedZones = RedZones(grievances)
	return stats
}

// Categories counts grievances per category with percentage shares, sorted
// by descending count.
func Categories(grievances []models.Grievance) []CategoryDistribution {
	counts := make(map[string]int64)
	for _, g := range grievances {
		counts[g.Category]++
	}
	total := int64(len(grievances))

	out := make([]CategoryDistribution, 0, len(counts))
	for cat, n := range counts {
		cd := CategoryDistribution{Category: cat, Count: n}
		if total > 0 {
			cd.Percentage = float64(n) * 100 / float64(total)
		}
		out = append(out, cd)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Zones counts grievances per location, sorted by descending count.
func Zones(grievances []models.Grievance) []ZoneDistribution {
	counts := make(map[string]int64)
	for _, g := range grievances {
		counts[g.Location]++
	}

	out := make([]ZoneDistribution, 0, len(counts))
	for loc, n := range counts {
		out = append(out, ZoneDistribution{Location: loc, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Location < out[j].Location
	})
	return out
}

// SLACompliance measures per-category resolution performance against the
// category's target, sorted by descending compliance rate.
func SLACompliance(grievances []models.Grievance) []SLAPerformance {
	groups := make(map[string][]models.Grievance)
	for _, g := range grievances {
		groups[g.Category] = append(groups[g.Category], g)
	}

	out := make([]SLAPerformance, 0, len(groups))
	for category, group := range groups {
		sla := SLAPerformance{
			Category:        category,
			SLATargetDays:   SLATargetDays(category),
			TotalComplaints: int64(len(group)),
		}

		var resolvedDays []float64
		for _, g := range group {
			if g.Status != models.StatusResolved || g.ResolvedAt == nil {
				continue
			}
			days := g.ResolvedAt.Sub(g.CreatedAt).Hours() / 24
			resolvedDays = append(resolvedDays, days)
			if int(math.Floor(days)) <= sla.SLATargetDays {
				sla.WithinSLA++
			} else {
				sla.BreachedSLA++
			}
		}

		if n := len(resolvedDays); n > 0 {
			var sum float64
			for _, d := range resolvedDays {
				sum += d
			}
			sla.ComplianceRate = float64(sla.WithinSLA) * 100 / float64(n)
			sla.AverageResolutionDays = sum / float64(n)
		}

		out = append(out, sla)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ComplianceRate != out[j].ComplianceRate {
			return out[i].ComplianceRate > out[j].ComplianceRate
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// RedZones identifies complaint-prone locations: three or more complaints,
// ranked by count, top ten. Coordinates come from the first grievance in
// the group that carries them.
func RedZones(grievances []models.Grievance) []RedZone {
	groups := make(map[string][]models.Grievance)
	for _, g := range grievances {
		groups[g.Location] = append(groups[g.Location], g)
	}

	out := make([]RedZone, 0)
	for location, group := range groups {
		count := int64(len(group))
		if count < redZoneMinCount {
			continue
		}

		zone := RedZone{
			Location:       location,
			ComplaintCount: count,
			RiskLevel:      RiskLevel(count),
		}
		for _, g := range group {
			if g.Latitude != nil && g.Longitude != nil {
				zone.Latitude = g.Latitude
				zone.Longitude = g.Longitude
				break
			}
		}
		zone.MostCommonCategory = mostCommonCategory(group)

		out = append(out, zone)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ComplaintCount != out[j].ComplaintCount {
			return out[i].ComplaintCount > out[j].ComplaintCount
		}
		return out[i].Location < out[j].Location
	})
	if len(out) > redZoneLimit {
		out = out[:redZoneLimit]
	}
	return out
}

func mostCommonCategory(group []models.Grievance) string {
	counts := make(map[string]int64)
	for _, g := range group {
		counts[g.Category]++
	}
	best := "Unknown"
	var bestN int64
	for cat, n := range counts {
		if n > bestN || (n == bestN && cat < best) {
			best = cat
			bestN = n
		}
	}
	return best
}

func averageResolutionDays(grievances []models.Grievance) float64 {
	var sum float64
	var n int
	for _, g := range grievances {
		if g.Status != models.StatusResolved || g.ResolvedAt == nil {
			continue
		}
		sum += g.ResolvedAt.Sub(g.CreatedAt).Hours() / 24
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
