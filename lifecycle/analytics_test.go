package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"civicpulse-be/models"
)

func TestRiskLevel(t *testing.T) {
	assert.Equal(t, RiskLow, RiskLevel(0))
	assert.Equal(t, RiskLow, RiskLevel(4))
	assert.Equal(t, RiskMedium, RiskLevel(5))
	assert.Equal(t, RiskMedium, RiskLevel(9))
	assert.Equal(t, RiskHigh, RiskLevel(10))
	assert.Equal(t, RiskHigh, RiskLevel(50))
}

func TestSLATargetDays(t *testing.T) {
	assert.Equal(t, 3, SLATargetDays("Road"))
	assert.Equal(t, 1, SLATargetDays("Street Light"))
	assert.Equal(t, 5, SLATargetDays("Garbage"))
	assert.Equal(t, 5, SLATargetDays(""))
}

func zoneGrievances(location string, count int) []models.Grievance {
	out := make([]models.Grievance, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, models.Grievance{
			Location: location,
			Category: string(models.Road),
			Status:   models.StatusPending,
		})
	}
	return out
}

func TestRedZonesThresholdAndRisk(t *testing.T) {
	var in []models.Grievance
	in = append(in, zoneGrievances("MG Road", 12)...)
	in = append(in, zoneGrievances("Park Road", 4)...)
	in = append(in, zoneGrievances("Quiet Lane", 2)...)

	zones := RedZones(in)
	assert.Len(t, zones, 2, "locations under three complaints never qualify")

	assert.Equal(t, "MG Road", zones[0].Location)
	assert.Equal(t, int64(12), zones[0].ComplaintCount)
	assert.Equal(t, RiskHigh, zones[0].RiskLevel)

	assert.Equal(t, "Park Road", zones[1].Location)
	assert.Equal(t, RiskLow, zones[1].RiskLevel)
}

func TestRedZonesTopTenAndCoordinates(t *testing.T) {
	lat, lng := 12.9716, 77.5946
	var in []models.Grievance
	for i := 0; i < 12; i++ {
		in = append(in, zoneGrievances(string(rune('A'+i))+" Street", 3+i)...)
	}
	in = append(in, models.Grievance{
		Location: "L Street",
		Category: string(models.Water),
		Latitude: &lat, Longitude: &lng,
	})

	zones := RedZones(in)
	assert.Len(t, zones, 10)
	assert.Equal(t, "L Street", zones[0].Location, "busiest zone ranks first")
	assert.Equal(t, &lat, zones[0].Latitude)
	assert.Equal(t, &lng, zones[0].Longitude)
	assert.Equal(t, string(models.Road), zones[0].MostCommonCategory)
}

func TestCategoriesPercentages(t *testing.T) {
	in := []models.Grievance{
		{Category: string(models.Water)},
		{Category: string(models.Water)},
		{Category: string(models.Water)},
		{Category: string(models.Road)},
	}

	out := Categories(in)
	assert.Len(t, out, 2)
	assert.Equal(t, string(models.Water), out[0].Category)
	assert.Equal(t, int64(3), out[0].Count)
	assert.InDelta(t, 75.0, out[0].Percentage, 1e-9)
	assert.InDelta(t, 25.0, out[1].Percentage, 1e-9)
}

func TestSLAComplianceFloorsDays(t *testing.T) {
	created := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	within := created.Add(2*24*time.Hour + 20*time.Hour) // 2.83 days, floors to 2
	breached := created.Add(4 * 24 * time.Hour)

	in := []models.Grievance{
		{Category: "Water", Status: models.StatusResolved, CreatedAt: created, ResolvedAt: &within},
		{Category: "Water", Status: models.StatusResolved, CreatedAt: created, ResolvedAt: &breached},
		{Category: "Water", Status: models.StatusPending, CreatedAt: created},
	}

	out := SLACompliance(in)
	assert.Len(t, out, 1)
	sla := out[0]
	assert.Equal(t, 2, sla.SLATargetDays)
	assert.Equal(t, int64(3), sla.TotalComplaints)
	assert.Equal(t, int64(1), sla.WithinSLA)
	assert.Equal(t, int64(1), sla.BreachedSLA)
	assert.InDelta(t, 50.0, sla.ComplianceRate, 1e-9)
}

func TestDashboardCounters(t *testing.T) {
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	resolved := created.Add(48 * time.Hour)

	in := []models.Grievance{
		{Category: "Road", Location: "MG Road", Status: models.StatusPending, CreatedAt: created},
		{Category: "Road", Location: "MG Road", Status: models.StatusInProgress, CreatedAt: created},
		{Category: "Water", Location: "MG Road", Status: models.StatusResolved, CreatedAt: created, ResolvedAt: &resolved},
		{Category: "Water", Location: "Park Road", Status: models.StatusResolved, CreatedAt: created, ResolvedAt: &resolved},
	}

	stats := Dashboard(in)
	assert.Equal(t, int64(4), stats.TotalComplaints)
	assert.Equal(t, int64(2), stats.ResolvedComplaints)
	assert.Equal(t, int64(1), stats.InProgressComplaints)
	assert.Equal(t, int64(1), stats.PendingComplaints)
	assert.InDelta(t, 50.0, stats.ResolutionRate, 1e-9)
	assert.InDelta(t, 2.0, stats.AverageResolutionTime, 1e-9)
	assert.Len(t, stats.ZoneDistribution, 2)
	assert.Equal(t, "MG Road", stats.ZoneDistribution[0].Location)
	assert.Equal(t, int64(3), stats.ZoneDistribution[0].Count)
	assert.Len(t, stats.RedZones, 1)
}

func TestDashboardEmptyInput(t *testing.T) {
	stats := Dashboard(nil)
	assert.Equal(t, int64(0), stats.TotalComplaints)
	assert.Equal(t, float64(0), stats.ResolutionRate)
	assert.Empty(t, stats.RedZones)
	assert.Empty(t, stats.CategoryDistribution)
}
