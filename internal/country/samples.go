package country

import "github.com/talgya/ohi-sim/internal/pillar"

func pv(gov, hc, hv, rest float64) pillar.Values {
	return pillar.Values{Governance: gov, HazardControl: hc, HealthVigilance: hv, Restoration: rest}
}

// Approximate 2023 figures. Pillar baselines are rough maturity estimates,
// not measured indicators.
var samples = []Profile{
	{ISO: "DEU", Name: "Germany", Region: "Europe", GDP: 4456, Population: 84.5, HealthExpenditurePct: 12.7, LaborForce: 44.4, FormalSectorPct: 95, InitialPillars: pv(86, 84, 80, 88)},
	{ISO: "SWE", Name: "Sweden", Region: "Europe", GDP: 593, Population: 10.5, HealthExpenditurePct: 10.7, LaborForce: 5.6, FormalSectorPct: 97, InitialPillars: pv(88, 85, 83, 86)},
	{ISO: "FIN", Name: "Finland", Region: "Europe", GDP: 300, Population: 5.6, HealthExpenditurePct: 10.0, LaborForce: 2.8, FormalSectorPct: 96, InitialPillars: pv(87, 82, 85, 84)},
	{ISO: "GBR", Name: "United Kingdom", Region: "Europe", GDP: 3340, Population: 68.3, HealthExpenditurePct: 11.1, LaborForce: 34.1, FormalSectorPct: 94, InitialPillars: pv(84, 82, 76, 78)},
	{ISO: "FRA", Name: "France", Region: "Europe", GDP: 3031, Population: 68.2, HealthExpenditurePct: 11.9, LaborForce: 31.0, FormalSectorPct: 93, InitialPillars: pv(80, 76, 74, 82)},
	{ISO: "POL", Name: "Poland", Region: "Europe", GDP: 811, Population: 36.7, HealthExpenditurePct: 6.4, LaborForce: 17.6, FormalSectorPct: 85, InitialPillars: pv(66, 62, 58, 60)},
	{ISO: "USA", Name: "United States", Region: "Americas", GDP: 27360, Population: 334.9, HealthExpenditurePct: 16.6, LaborForce: 167.1, FormalSectorPct: 92, InitialPillars: pv(74, 78, 70, 64)},
	{ISO: "CAN", Name: "Canada", Region: "Americas", GDP: 2140, Population: 40.1, HealthExpenditurePct: 11.2, LaborForce: 21.5, FormalSectorPct: 93, InitialPillars: pv(80, 79, 75, 77)},
	{ISO: "BRA", Name: "Brazil", Region: "Americas", GDP: 2174, Population: 216.4, HealthExpenditurePct: 9.9, LaborForce: 108.0, FormalSectorPct: 60, InitialPillars: pv(58, 52, 48, 50)},
	{ISO: "MEX", Name: "Mexico", Region: "Americas", GDP: 1789, Population: 128.5, HealthExpenditurePct: 5.5, LaborForce: 60.6, FormalSectorPct: 45, InitialPillars: pv(50, 46, 40, 42)},
	{ISO: "CHL", Name: "Chile", Region: "Americas", GDP: 335, Population: 19.6, HealthExpenditurePct: 9.0, LaborForce: 9.9, FormalSectorPct: 72, InitialPillars: pv(64, 60, 56, 62)},
	{ISO: "JPN", Name: "Japan", Region: "Asia-Pacific", GDP: 4213, Population: 124.5, HealthExpenditurePct: 10.8, LaborForce: 69.3, FormalSectorPct: 90, InitialPillars: pv(82, 80, 84, 74)},
	{ISO: "KOR", Name: "South Korea", Region: "Asia-Pacific", GDP: 1713, Population: 51.7, HealthExpenditurePct: 9.7, LaborForce: 29.2, FormalSectorPct: 75, InitialPillars: pv(72, 68, 76, 62)},
	{ISO: "AUS", Name: "Australia", Region: "Asia-Pacific", GDP: 1724, Population: 26.6, HealthExpenditurePct: 10.5, LaborForce: 14.5, FormalSectorPct: 92, InitialPillars: pv(84, 80, 78, 82)},
	{ISO: "CHN", Name: "China", Region: "Asia-Pacific", GDP: 17795, Population: 1410.7, HealthExpenditurePct: 5.4, LaborForce: 780.0, FormalSectorPct: 45, InitialPillars: pv(60, 50, 52, 44)},
	{ISO: "IND", Name: "India", Region: "Asia-Pacific", GDP: 3550, Population: 1428.6, HealthExpenditurePct: 3.3, LaborForce: 590.0, FormalSectorPct: 12, InitialPillars: pv(40, 30, 28, 24)},
	{ISO: "IDN", Name: "Indonesia", Region: "Asia-Pacific", GDP: 1371, Population: 277.5, HealthExpenditurePct: 2.9, LaborForce: 140.0, FormalSectorPct: 40, InitialPillars: pv(44, 36, 34, 30)},
	{ISO: "VNM", Name: "Vietnam", Region: "Asia-Pacific", GDP: 430, Population: 98.9, HealthExpenditurePct: 4.6, LaborForce: 52.4, FormalSectorPct: 32, InitialPillars: pv(46, 40, 38, 32)},
	{ISO: "ZAF", Name: "South Africa", Region: "Africa", GDP: 377, Population: 60.4, HealthExpenditurePct: 8.6, LaborForce: 24.0, FormalSectorPct: 66, InitialPillars: pv(56, 50, 44, 46)},
	{ISO: "NGA", Name: "Nigeria", Region: "Africa", GDP: 363, Population: 223.8, HealthExpenditurePct: 3.4, LaborForce: 76.0, FormalSectorPct: 17, InitialPillars: pv(30, 24, 20, 16)},
	{ISO: "KEN", Name: "Kenya", Region: "Africa", GDP: 108, Population: 55.1, HealthExpenditurePct: 4.3, LaborForce: 24.0, FormalSectorPct: 17, InitialPillars: pv(36, 28, 26, 20)},
	{ISO: "EGY", Name: "Egypt", Region: "Middle East", GDP: 396, Population: 112.7, HealthExpenditurePct: 4.6, LaborForce: 31.0, FormalSectorPct: 37, InitialPillars: pv(42, 36, 32, 28)},
	{ISO: "SAU", Name: "Saudi Arabia", Region: "Middle East", GDP: 1068, Population: 36.9, HealthExpenditurePct: 6.0, LaborForce: 16.5, FormalSectorPct: 80, InitialPillars: pv(58, 56, 50, 46)},
	{ISO: "ARE", Name: "United Arab Emirates", Region: "Middle East", GDP: 504, Population: 9.5, HealthExpenditurePct: 5.0, LaborForce: 6.8, FormalSectorPct: 88, InitialPillars: pv(64, 62, 54, 50)},
}
