package crawler

import (
	"os"

	"github.com/sirupsen/logrus"
)

// newLogger builds the structured logger used throughout a single crawl,
// tagged with a run ID so concurrent crawls in the same process can be told
// apart in aggregated log output.
func newLogger(runID string) *logrus.Entry {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log.WithField("run_id", runID)
}
