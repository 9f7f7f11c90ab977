package services

import (
	"sort"
	"sync"
	"time"

	"github.com/fenilmodi00/ipo-dashboard-backend/models"
	"github.com/fenilmodi00/ipo-dashboard-backend/shared"
	"github.com/sirupsen/logrus"
)

// SnapshotService holds the current record set served to the dashboard.
// Refreshes replace the whole set at once (last write wins); readers get
// copies so a swap never mutates a response mid-flight.
type SnapshotService struct {
	mutex          sync.RWMutex
	snapshot       models.Snapshot
	serviceMetrics *shared.ServiceMetrics
}

// NewSnapshotService creates a new snapshot service instance
func NewSnapshotService() *SnapshotService {
	return &SnapshotService{
		serviceMetrics: shared.NewServiceMetrics("Snapshot_Service"),
	}
}

// Update replaces the snapshot wholesale.
func (s *SnapshotService) Update(records []models.IPORecord, source models.DataSource) {
	s.mutex.Lock()
	s.snapshot = models.Snapshot{
		Records:   records,
		Source:    source,
		FetchedAt: time.Now(),
	}
	s.mutex.Unlock()

	s.serviceMetrics.RecordRequest(true, 0)
	s.serviceMetrics.SetCustomMetric("record_count", len(records))
	s.serviceMetrics.SetCustomMetric("data_source", string(source))

	logrus.WithFields(logrus.Fields{
		"records": len(records),
		"source":  source,
	}).Debug("Snapshot replaced")
}

// Restore installs a previously serialized snapshot verbatim, keeping its
// original fetch time so Age reflects how stale the restored data is.
func (s *SnapshotService) Restore(snapshot models.Snapshot) {
	if len(snapshot.Records) == 0 {
		return
	}

	s.mutex.Lock()
	s.snapshot = snapshot
	s.mutex.Unlock()

	s.serviceMetrics.SetCustomMetric("record_count", len(snapshot.Records))
	s.serviceMetrics.SetCustomMetric("data_source", string(snapshot.Source))

	logrus.WithFields(logrus.Fields{
		"records":    len(snapshot.Records),
		"source":     snapshot.Source,
		"fetched_at": snapshot.FetchedAt.Format(time.RFC3339),
	}).Info("Snapshot restored from cache")
}

// Current returns a copy of the snapshot.
func (s *SnapshotService) Current() models.Snapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	records := make([]models.IPORecord, len(s.snapshot.Records))
	copy(records, s.snapshot.Records)

	return models.Snapshot{
		Records:   records,
		Source:    s.snapshot.Source,
		FetchedAt: s.snapshot.FetchedAt,
	}
}

// Records returns a copy of the current record set.
func (s *SnapshotService) Records() []models.IPORecord {
	return s.Current().Records
}

// Count returns the number of records currently held.
func (s *SnapshotService) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.snapshot.Records)
}

// IsEmpty reports whether the store has never been filled or holds no records.
func (s *SnapshotService) IsEmpty() bool {
	return s.Count() == 0
}

// Age returns how long ago the snapshot was taken; zero when never filled.
func (s *SnapshotService) Age() time.Duration {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.snapshot.FetchedAt.IsZero() {
		return 0
	}
	return time.Since(s.snapshot.FetchedAt)
}

// Industries returns the sorted distinct industries present in the snapshot,
// feeding the dashboard's filter dropdown.
func (s *SnapshotService) Industries() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	seen := make(map[string]bool)
	industries := make([]string, 0)
	for _, record := range s.snapshot.Records {
		if record.Industry == "" || seen[record.Industry] {
			continue
		}
		seen[record.Industry] = true
		industries = append(industries, record.Industry)
	}

	sort.Strings(industries)
	return industries
}

// GetServiceMetrics returns the current service metrics
func (s *SnapshotService) GetServiceMetrics() *shared.ServiceMetrics {
	return s.serviceMetrics
}
