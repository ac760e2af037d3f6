package services

import (
	"strconv"
	"time"

	"github.com/beevik/etree"
	"gorm.io/gorm"
)

// ReportService будує XML-звіти для вивантаження адміністратором
type ReportService struct {
	stats *StatisticsService
	cars  *CarService
	now   Clock
}

// NewReportService створює новий екземпляр ReportService
func NewReportService(db *gorm.DB, now Clock) *ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportService{
		stats: NewStatisticsService(db, now),
		cars:  NewCarService(db, now),
		now:   now,
	}
}

// BuildStatisticsXML формує XML-звіт зі зведеною статистикою
// та зайнятістю автопарку
func (s *ReportService) BuildStatisticsXML() ([]byte, error) {
	stats, err := s.stats.GetDashboardStats()
	if err != nil {
		return nil, err
	}
	occupancy, err := s.cars.GetCarsOccupancyReport()
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("statistics")
	root.CreateAttr("generated_at", s.now().Format(time.RFC3339))

	fleet := root.CreateElement("fleet")
	fleet.CreateElement("total_cars").SetText(strconv.FormatInt(stats.TotalCars, 10))
	fleet.CreateElement("available_cars").SetText(strconv.FormatInt(stats.AvailableCars, 10))

	rentals := root.CreateElement("rentals")
	rentals.CreateElement("active").SetText(strconv.FormatInt(stats.ActiveRentals, 10))
	rentals.CreateElement("clients").SetText(strconv.FormatInt(stats.TotalClients, 10))

	finance := root.CreateElement("finance")
	finance.CreateElement("monthly_revenue").SetText(stats.MonthlyRevenue.StringFixed(2))
	finance.CreateElement("total_revenue").SetText(stats.TotalRevenue.StringFixed(2))
	finance.CreateElement("total_deposits").SetText(stats.TotalDeposits.StringFixed(2))
	finance.CreateElement("total_fines").SetText(stats.TotalFines.StringFixed(2))

	topCars := root.CreateElement("top_cars")
	for _, entry := range stats.TopCars {
		car := topCars.CreateElement("car")
		car.CreateAttr("id", strconv.FormatUint(uint64(entry.Car.ID), 10))
		car.CreateElement("name").SetText(entry.Car.DisplayName())
		car.CreateElement("revenue").SetText(entry.Revenue.StringFixed(2))
	}

	occupancyEl := root.CreateElement("occupancy")
	for _, entry := range occupancy {
		car := occupancyEl.CreateElement("car")
		car.CreateAttr("id", strconv.FormatUint(uint64(entry.Car.ID), 10))
		car.CreateElement("name").SetText(entry.Car.DisplayName())
		car.CreateElement("status").SetText(entry.Status)
		car.CreateElement("occupancy_rate").SetText(strconv.FormatFloat(entry.OccupancyRate, 'f', 2, 64))
		car.CreateElement("total_rentals").SetText(strconv.FormatInt(entry.TotalRentals, 10))
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}
