// Package influx ships per-area synthesis metrics to InfluxDB, with a
// gzipped line-protocol backup file when the server is unreachable.
package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/radiomesh/scenesynth/pkg/core"
)

// Manager handles InfluxDB connections and writes.
type Manager struct {
	Client       influxdb2.Client
	Writer       influxdb2_api.WriteAPI
	BackupWriter *gzip.Writer
	IsValid      bool
	Logger       zerolog.Logger
	BackupPath   string
}

// NewManager creates a new InfluxDB manager.
func NewManager(log zerolog.Logger, backupPath string) *Manager {
	return &Manager{
		IsValid:    false,
		Logger:     log,
		BackupPath: backupPath,
	}
}

// Connect establishes a connection to InfluxDB. When the server does not
// respond, points are appended to the gzipped backup file instead.
func (m *Manager) Connect() error {
	if !viper.GetBool("influx.enabled") {
		return errors.New("influx.enabled is false")
	}

	m.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf(
			"%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	running, err := m.Client.Ping(context.Background())
	if err != nil || !running {
		m.IsValid = false
		if m.BackupWriter == nil {
			m.Logger.Info().Str("backupPath", m.BackupPath).
				Msg("Failed to initialize InfluxDB client, writing to backup file")

			file, err := os.OpenFile(m.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				return fmt.Errorf("error creating backup file: %v", err)
			}
			m.BackupWriter = gzip.NewWriter(file)
		}
	} else {
		m.IsValid = true
	}

	if m.IsValid {
		m.Writer = m.Client.WriteAPI(
			viper.GetString("influx.org"),
			viper.GetString("influx.bucket"),
		)
		errorsCh := m.Writer.Errors()
		go func(errorsCh <-chan error) {
			for writeErr := range errorsCh {
				m.Logger.Error().Err(writeErr).Msg("Error sending data to InfluxDB")
			}
		}(errorsCh)
		m.Logger.Info().Msg("InfluxDB client initialized")
	} else {
		m.Logger.Warn().Msg("InfluxDB client failed to initialize, using backup writer")
	}

	return nil
}

// Close flushes pending writes and the backup file.
func (m *Manager) Close() error {
	if m.IsValid && m.Writer != nil {
		m.Writer.Flush()
		m.Client.Close()
	}
	if m.BackupWriter != nil {
		return m.BackupWriter.Close()
	}
	return nil
}

// WritePoint writes a point to InfluxDB or the backup file.
func (m *Manager) WritePoint(point *influxdb2_write.Point) error {
	if m.IsValid {
		m.Writer.WritePoint(point)
		return nil
	}

	if m.BackupWriter == nil {
		return fmt.Errorf("influxDB client not initialized and backup writer not available")
	}
	lineProtocol := influxdb2_write.PointToLineProtocol(point, time.Duration(1*time.Nanosecond))
	if _, err := m.BackupWriter.Write([]byte(lineProtocol + "\n")); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %s", err)
	}
	return nil
}

// AreaPoint builds the per-area synthesis measurement.
func AreaPoint(r *core.AreaReport) *influxdb2_write.Point {
	return influxdb2_write.NewPointWithMeasurement("area_synthesis").
		AddTag("area", r.Area).
		AddTag("status", string(r.Status)).
		AddField("footprints_total", r.FootprintsTotal).
		AddField("footprints_clipped", r.FootprintsClipped).
		AddField("footprints_dropped", r.FootprintsDropped).
		AddField("building_vertices", r.BuildingVertices).
		AddField("building_faces", r.BuildingFaces).
		AddField("duration_ms", r.Duration.Milliseconds()).
		SetTime(r.ProcessedAt)
}

// RecordArea writes one area's report as a metric point.
func (m *Manager) RecordArea(r *core.AreaReport) error {
	return m.WritePoint(AreaPoint(r))
}
