package opendata

import (
	"log"
	"sort"
	"time"
)

const logPrefix = "[opendata]"

// LogRequest logs an outgoing dataset request.
func LogRequest(method, url string) {
	log.Printf("%s %s %s", logPrefix, method, url)
}

// LogResponse logs a decoded dataset response.
func LogResponse(statusCode int, size int, duration time.Duration, resultCount int) {
	log.Printf("%s response status=%d bytes=%d duration=%dms results=%d",
		logPrefix, statusCode, size, duration.Milliseconds(), resultCount)
}

// LogError logs a failed operation.
func LogError(operation string, err error) {
	log.Printf("%s %s error: %v", logPrefix, operation, err)
}

// LogFlush logs one committed batch.
func LogFlush(table string, count int, duration time.Duration) {
	log.Printf("%s inserted %d rows into %s in %dms",
		logPrefix, count, table, duration.Milliseconds())
}

// LogReport logs a per-dataset summary of a run, including skipped fields.
func LogReport(r Report) {
	for _, d := range r.Datasets {
		log.Printf("%s %s: records=%d rows=%d flushes=%d duration=%dms",
			logPrefix, d.Name, d.Records, d.Batch.Rows, d.Batch.Flushes, d.Duration.Milliseconds())

		sources := make([]string, 0, len(d.FieldErrors))
		for s := range d.FieldErrors {
			sources = append(sources, s)
		}
		sort.Strings(sources)
		for _, s := range sources {
			log.Printf("%s %s: skipped %d malformed %q values", logPrefix, d.Name, d.FieldErrors[s], s)
		}
	}
}
