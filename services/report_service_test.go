package services

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autorental/models"
)

func TestBuildStatisticsXML(t *testing.T) {
	db := setupTestDB(t)
	service := NewReportService(db, fixedClock(testToday))
	client := createTestClient(t, db)
	car := createTestCar(t, db, 2020, "1000.00")

	rental := createTestRental(t, db, client.ID, car.ID, models.RentalStatusCompleted,
		testToday.AddDate(0, 0, -10), testToday.AddDate(0, 0, -7), "4000.00")
	actualEnd := testToday.AddDate(0, 0, -7)
	require.NoError(t, db.Model(rental).Update("actual_end_date", actualEnd).Error)

	data, err := service.BuildStatisticsXML()
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))

	root := doc.SelectElement("statistics")
	require.NotNil(t, root)
	assert.NotEmpty(t, root.SelectAttrValue("generated_at", ""))

	fleet := root.SelectElement("fleet")
	require.NotNil(t, fleet)
	assert.Equal(t, "1", fleet.SelectElement("total_cars").Text())

	finance := root.SelectElement("finance")
	require.NotNil(t, finance)
	assert.Equal(t, "4000.00", finance.SelectElement("total_revenue").Text())

	occupancy := root.SelectElement("occupancy")
	require.NotNil(t, occupancy)
	assert.Len(t, occupancy.SelectElements("car"), 1)
}
