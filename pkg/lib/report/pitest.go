package report

import (
	"encoding/xml"
	"os"
)

// MutationStats summarizes the PITest mutations.xml report.
type MutationStats struct {
	Total    int
	Killed   int
	Survived int
	Detected int
	Pct      float64 // killed / total
}

type pitestReport struct {
	Mutations []struct {
		Detected bool   `xml:"detected,attr"`
		Status   string `xml:"status,attr"`
	} `xml:"mutation"`
}

// LoadPITest parses mutations.xml at path. A missing or unparseable
// report yields (nil, nil); a report with zero mutations is valid data
// and yields a zeroed stats struct.
func LoadPITest(path string) (*MutationStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil
	}
	var rep pitestReport
	if err := xml.Unmarshal(data, &rep); err != nil {
		return nil, nil
	}

	stats := MutationStats{Total: len(rep.Mutations)}
	if stats.Total == 0 {
		return &stats, nil
	}
	for _, m := range rep.Mutations {
		switch m.Status {
		case "KILLED":
			stats.Killed++
		case "SURVIVED":
			stats.Survived++
		}
		if m.Detected {
			stats.Detected++
		}
	}
	stats.Pct = percent(float64(stats.Killed), float64(stats.Total))
	return &stats, nil
}
