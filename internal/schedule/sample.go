package schedule

import (
	"strings"
	"time"

	"github.com/27Shambhavi/shunting/internal/model"
)

// SampleCSV is a small yard schedule for trying the tool out.
const SampleCSV = `TrainID,Track,Arrival,Departure
T001,Shunting_Neck,2025-12-01 05:10,2025-12-01 05:25
T002,Stabling_Line_1,2025-12-01 05:05,2025-12-01 06:00
T003,Inspection_Line_1,2025-12-01 05:30,2025-12-01 07:00
T004,Stabling_Line_2,2025-12-01 05:45,2025-12-01 06:30
T005,Shunting_Neck,2025-12-01 06:10,2025-12-01 06:40
`

// Sample returns the SampleCSV records in loc.
func Sample(loc *time.Location) []model.OccupancyRecord {
	res, err := Read(strings.NewReader(SampleCSV), loc)
	if err != nil {
		panic(err)
	}
	return res.Records
}
