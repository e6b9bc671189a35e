// Package export writes activity sample series as Parquet files for
// analysis in external tooling.
package export

import (
	"fmt"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"garmin-fitness/internal/analysis"
)

// parquetParallelism is the writer's internal goroutine count.
const parquetParallelism = 4

// Row is one decoded sample flattened for Parquet. Power and heart rate
// are optional columns: a sample that lacks a field exports as null,
// never as 0. The validity flags mirror the nulls for readers that
// prefer flat predicates.
type Row struct {
	ActivityID int64    `parquet:"name=activity_id, type=INT64"`
	TSUTCISO   string   `parquet:"name=ts_utc_iso, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	ElapsedS   float64  `parquet:"name=elapsed_s, type=DOUBLE"`
	PowerW     *float64 `parquet:"name=power_w, type=DOUBLE, repetitiontype=OPTIONAL"`
	HRBPM      *float64 `parquet:"name=hr_bpm, type=DOUBLE, repetitiontype=OPTIONAL"`
	ValidPower bool     `parquet:"name=valid_power, type=BOOLEAN"`
	ValidHR    bool     `parquet:"name=valid_hr, type=BOOLEAN"`
}

// WriteActivityFile writes the sample series to path as a
// snappy-compressed Parquet file.
func WriteActivityFile(path string, activityID int64, samples []analysis.Sample) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := writeRows(fw, activityID, samples); err != nil {
		fw.Close()
		return err
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func writeRows(fw source.ParquetFile, activityID int64, samples []analysis.Sample) error {
	pw, err := writer.NewParquetWriter(fw, new(Row), parquetParallelism)
	if err != nil {
		return fmt.Errorf("creating parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	var start time.Time
	if len(samples) > 0 {
		start = samples[0].Time
	}

	for _, s := range samples {
		row := Row{
			ActivityID: activityID,
			TSUTCISO:   s.Time.UTC().Format(time.RFC3339),
			ElapsedS:   s.Time.Sub(start).Seconds(),
			PowerW:     s.Power,
			HRBPM:      s.HeartRate,
			ValidPower: s.Power != nil,
			ValidHR:    s.HeartRate != nil,
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return fmt.Errorf("writing parquet row: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finalizing parquet file: %w", err)
	}
	return nil
}
