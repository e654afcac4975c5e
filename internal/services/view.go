package services

import (
	"time"

	"exec-dashboard/internal/models"
	"exec-dashboard/internal/sales"
)

// View is everything rendered for one city selection. It is derived purely
// from a Snapshot and the selected city.
type View struct {
	City          string                  `json:"city"`
	Title         string                  `json:"title"`
	ReferenceDate time.Time               `json:"reference_date"`
	KPIs          models.KPIs             `json:"kpis"`
	Sales         []models.GroupedSale    `json:"sales"`
	MonthToDate   []models.GroupedSale    `json:"month_to_date"`
	Cumulative    []models.CumulativeSale `json:"cumulative"`
	Cities        []string                `json:"cities"`
	ProductTypes  []string                `json:"product_types"`
	Months        []models.Month          `json:"months"`
}

// NormalizeCity maps an empty selection to AllCities.
func NormalizeCity(city string) string {
	if city == "" {
		return sales.AllCities
	}
	return city
}

func BuildView(snap *Snapshot, city string) View {
	city = NormalizeCity(city)
	filtered := sales.ApplyCityFilter(snap.Grouped, city)
	mtd := sales.DeriveMonthToDate(filtered, snap.ReferenceDate)

	return View{
		City:          city,
		Title:         "Executive Sales Dashboard - " + sales.DisplayCity(city),
		ReferenceDate: snap.ReferenceDate,
		KPIs:          sales.ComputeKPIs(filtered, mtd),
		Sales:         filtered,
		MonthToDate:   mtd,
		Cumulative:    sales.ComputeCumulativeSales(filtered),
		Cities:        snap.Cities,
		ProductTypes:  snap.ProductTypes,
		Months:        snap.Months,
	}
}
