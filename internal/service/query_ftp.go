package service

import (
	"time"

	"garmin-fitness/internal/analysis"
	"garmin-fitness/internal/store"
)

// FTPData contains all data needed for the FTP screen
type FTPData struct {
	// Current is the FTP in effect: the best history estimate from the
	// last year, falling back to the configured value when the history
	// is empty or stale.
	Current    float64
	Configured float64

	Classification string  // rider category, empty when weight unknown
	WKg            float64 // watts per kilogram, 0 when weight unknown

	History []store.FTPEstimate
}

// GetFTPData returns the FTP history together with the current value
// and its power profile classification.
func (q *QueryService) GetFTPData() (*FTPData, error) {
	history, err := q.store.ListFTPHistory(FTPHistoryLimit)
	if err != nil {
		return nil, err
	}

	data := &FTPData{
		Current:    q.ftp,
		Configured: q.ftp,
		History:    history,
	}

	best := analysis.BestFTPEstimate(toDatedEstimates(history), time.Now())
	if best != nil && best.Watts > data.Current {
		data.Current = best.Watts
	}

	data.Classification = analysis.ClassifyFTP(data.Current, q.weightKG)
	data.WKg = analysis.WattsPerKg(data.Current, q.weightKG)

	return data, nil
}

// toDatedEstimates adapts stored history rows for the estimate picker.
func toDatedEstimates(history []store.FTPEstimate) []analysis.DatedFTPEstimate {
	dated := make([]analysis.DatedFTPEstimate, 0, len(history))
	for _, e := range history {
		d := analysis.DatedFTPEstimate{
			FTPEstimate: analysis.FTPEstimate{Watts: e.Watts, Confidence: e.Confidence},
			Date:        e.EstimatedAt,
		}
		if e.ActivityID != nil {
			d.ActivityID = *e.ActivityID
		}
		dated = append(dated, d)
	}
	return dated
}
