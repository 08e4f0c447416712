package services

import (
	"io"
	"os"

	"rummy-gateway-backend/internal/models"

	"github.com/sirupsen/logrus"
)

// FailureJournal appends one JSON record per line for every wallet call that
// did not complete. It is write-only here; reconciliation reads it offline.
type FailureJournal struct {
	sink *logrus.Logger
	log  *logrus.Entry
}

// NewFailureJournal opens (or creates) the journal file in append mode. If
// the file cannot be opened the journal degrades to a no-op sink: a broken
// journal must never block the primary failure path.
func NewFailureJournal(path string, logger *logrus.Logger) *FailureJournal {
	log := logger.WithField("component", "FailedThirdPartyAPICalls")

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Errorf("Failed to open failure journal %s: %v", path, err)
		return NewFailureJournalWriter(io.Discard, logger)
	}
	return NewFailureJournalWriter(file, logger)
}

// NewFailureJournalWriter builds a journal over an arbitrary sink.
func NewFailureJournalWriter(w io.Writer, logger *logrus.Logger) *FailureJournal {
	sink := logrus.New()
	sink.SetOutput(w)
	sink.SetFormatter(&logrus.JSONFormatter{})

	return &FailureJournal{
		sink: sink,
		log:  logger.WithField("component", "FailedThirdPartyAPICalls"),
	}
}

// Append writes one failure record. It never returns an error: write
// problems are logged and swallowed.
func (j *FailureJournal) Append(rec *models.FailureRecord) {
	if rec == nil {
		return
	}
	j.sink.WithFields(logrus.Fields{
		"req": rec.Req,
		"res": rec.Res,
	}).Error("third party call failed")
}
